package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_EndpointDefaultsToDigitalOceanSpacesFormat(t *testing.T) {
	cfg := Config{Region: "nyc3"}
	assert.Equal(t, "https://nyc3.digitaloceanspaces.com", cfg.endpoint())
}

func TestConfig_EndpointPrefersExplicitOverride(t *testing.T) {
	cfg := Config{Region: "nyc3", Endpoint: "https://minio.internal:9000"}
	assert.Equal(t, "https://minio.internal:9000", cfg.endpoint())
}

func TestNew_ReturnsNilArchiverWhenNoBucketConfigured(t *testing.T) {
	archiver, err := New(context.Background(), Config{Region: "nyc3"})
	assert.NoError(t, err)
	assert.Nil(t, archiver)
}

func TestNew_BuildsClientWhenBucketConfigured(t *testing.T) {
	archiver, err := New(context.Background(), Config{
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Bucket:    "case-search-responses",
		Region:    "nyc3",
	})
	assert.NoError(t, err)
	assert.NotNil(t, archiver)
	assert.Equal(t, "case-search-responses", archiver.bucket)
}
