package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/models"
)

type recordingArchiver struct {
	putCh chan string
}

func (r *recordingArchiver) Put(ctx context.Context, requestID string, resp models.SearchResponse) error {
	r.putCh <- requestID
	return nil
}

func TestEngine_RunArchivesResponseWhenArchiverConfigured(t *testing.T) {
	prov := &fakeProvider{id: "archive-run", results: []models.CaseCandidate{{Title: "Smith v. Jones", URL: "https://case-search.example/smith-v-jones"}}}
	e := newTestEngine(t, prov)

	archiver := &recordingArchiver{putCh: make(chan string, 1)}
	e.SetArchiver(archiver)

	resp, err := e.Run(context.Background(), "negligence standard of care in medical malpractice")
	require.NoError(t, err)

	select {
	case requestID := <-archiver.putCh:
		assert.Equal(t, resp.PipelineTrace.RequestID, requestID)
	case <-time.After(2 * time.Second):
		t.Fatal("archiver was never called")
	}
}

func TestEngine_RunDoesNotBlockOnNilArchiver(t *testing.T) {
	prov := &fakeProvider{id: "archive-nil"}
	e := newTestEngine(t, prov)

	_, err := e.Run(context.Background(), "negligence standard of care in medical malpractice")
	assert.NoError(t, err)
}
