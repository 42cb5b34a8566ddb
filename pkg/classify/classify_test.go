package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/models"
)

func TestClassify_VersusTitleIsCase(t *testing.T) {
	result := Classify(models.CaseCandidate{Title: "State of Delhi v. Ramesh Sharma"})
	assert.Equal(t, models.KindCase, result.Kind)
	assert.Empty(t, result.RejectReason)
}

func TestClassify_StatutePrefixIsStatute(t *testing.T) {
	result := Classify(models.CaseCandidate{Title: "The Prevention of Corruption Act, 1988"})
	assert.Equal(t, models.KindStatute, result.Kind)
	assert.Equal(t, "title_statute_prefix", result.RejectReason)
}

func TestClassify_NoiseMarkerIsNoise(t *testing.T) {
	result := Classify(models.CaseCandidate{Title: "Please Sign In to continue"})
	assert.Equal(t, models.KindNoise, result.Kind)
}

func TestClassify_PlainTitleIsUnknown(t *testing.T) {
	result := Classify(models.CaseCandidate{Title: "Case Summary for File 1234"})
	assert.Equal(t, models.KindUnknown, result.Kind)
	assert.Equal(t, "title_no_versus_separator", result.RejectReason)
}

func TestFilterStrictCaseOnly_DropsStatuteAndNoise(t *testing.T) {
	classified := []models.ClassifiedCandidate{
		{Kind: models.KindCase},
		{Kind: models.KindStatute},
		{Kind: models.KindNoise},
		{Kind: models.KindUnknown},
	}
	filtered := FilterStrictCaseOnly(classified, true)
	require.Len(t, filtered, 2)
	assert.Equal(t, models.KindCase, filtered[0].Kind)
	assert.Equal(t, models.KindUnknown, filtered[1].Kind)
}

type stubFetcher struct {
	body        []byte
	contentType string
	err         error
}

func (f *stubFetcher) FetchDetail(ctx context.Context, url string, timeoutMs int) ([]byte, string, error) {
	return f.body, f.contentType, f.err
}

func TestVerify_HydratesShortlistFromHTML(t *testing.T) {
	html := []byte(`<html><body><p>The appeal was dismissed. The court held that the sanction was not required.</p></body></html>`)
	fetcher := &stubFetcher{body: html, contentType: "text/html"}

	candidates := []models.ClassifiedCandidate{
		{Candidate: models.CaseCandidate{URL: "https://x/1", Title: "State v. Sharma"}, Kind: models.KindCase},
		{Candidate: models.CaseCandidate{URL: "https://x/2", Title: "The Act, 1988"}, Kind: models.KindStatute},
	}

	updated, summary := Verify(context.Background(), candidates, fetcher, VerifyConfig{VerifyLimit: 5, SupportsDetailFetch: true})

	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 1, summary.DetailFetched)
	assert.Equal(t, 1, summary.PassedCaseGate)
	require.NotNil(t, updated[0].Candidate.DetailArtifact)
	assert.NotEmpty(t, updated[0].Candidate.DetailArtifact.EvidenceWindows)
}

func TestVerify_NoDetailFetchSupportSkipsHydration(t *testing.T) {
	candidates := []models.ClassifiedCandidate{
		{Candidate: models.CaseCandidate{URL: "https://x/1", Title: "State v. Sharma"}, Kind: models.KindCase},
	}
	updated, summary := Verify(context.Background(), candidates, nil, VerifyConfig{VerifyLimit: 5, SupportsDetailFetch: false})

	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 0, summary.DetailFetched)
	assert.Equal(t, 1, summary.PassedCaseGate)
	assert.Nil(t, updated[0].Candidate.DetailArtifact)
}

func TestVerify_FetchFailureGetsMinimalArtifact(t *testing.T) {
	fetcher := &stubFetcher{err: assertErr{}}
	candidates := []models.ClassifiedCandidate{
		{Candidate: models.CaseCandidate{URL: "https://x/1", Title: "State v. Sharma"}, Kind: models.KindCase},
	}
	updated, summary := Verify(context.Background(), candidates, fetcher, VerifyConfig{VerifyLimit: 5, SupportsDetailFetch: true})

	assert.Equal(t, 1, summary.DetailFetchFailed)
	require.NotNil(t, updated[0].Candidate.DetailArtifact)
	assert.Empty(t, updated[0].Candidate.DetailArtifact.EvidenceWindows)
}

type assertErr struct{}

func (assertErr) Error() string { return "fetch failed" }

func TestExtractDetail_UnparsablePDFFallsBackToMinimalArtifact(t *testing.T) {
	artifact := extractPDF([]byte("not a real pdf"))
	assert.Empty(t, artifact.EvidenceWindows)
	assert.NotEmpty(t, artifact.ExtractionWarnings)
}

func TestEvidenceWindows_OnlyKeepsDispositionSentences(t *testing.T) {
	sentences := splitSentences("The hearing was scheduled for Monday. The appeal was dismissed as time-barred. The registry noted the filing fee.")
	windows := evidenceWindows(sentences)
	require.Len(t, windows, 1)
	assert.Contains(t, windows[0], "dismissed")
}
