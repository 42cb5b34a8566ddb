// Package archive persists finished SearchResponses to S3-compatible object
// storage for later audit, an optional collaborator the pipeline engine
// calls fire-and-forget after a response is assembled.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"casesearch/pkg/models"
)

// Config carries the DigitalOcean Spaces (S3-compatible) credentials the
// archiver needs. Region follows the "nyc3.digitaloceanspaces.com" naming
// DigitalOcean Spaces uses; Endpoint overrides the derived default for
// other S3-compatible backends.
type Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

func (c Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s.digitaloceanspaces.com", c.Region)
}

// Archiver uploads a SearchResponse as a JSON object keyed by request ID.
type Archiver struct {
	client *s3.Client
	bucket string
}

// New builds an Archiver from Config, or returns (nil, nil) when no bucket
// is configured — callers treat a nil Archiver as "archiving disabled"
// rather than an error.
func New(ctx context.Context, cfg Config) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.endpoint(),
					SigningRegion:     cfg.Region,
					HostnameImmutable: true,
				}, nil
			})),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config for archiver: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &Archiver{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads resp as "responses/{requestID}.json". It is meant to be
// called fire-and-forget from a goroutine; callers log the error
// themselves rather than letting an archive failure affect the response.
func (a *Archiver) Put(ctx context.Context, requestID string, resp models.SearchResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response for archive: %w", err)
	}

	key := fmt.Sprintf("responses/%s.json", requestID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put archived response %s: %w", key, err)
	}
	return nil
}
