package models

// Court is the resolved court tier of a candidate.
type Court string

const (
	CourtCaseSC      Court = "SC"
	CourtCaseHC      Court = "HC"
	CourtCaseUnknown Court = "UNKNOWN"
)

// DetailSourceKind records how detailArtifact text was produced.
type DetailSourceKind string

const (
	DetailSourceHTML   DetailSourceKind = "html"
	DetailSourcePDFText DetailSourceKind = "pdf_text"
	DetailSourcePDFOCR  DetailSourceKind = "pdf_ocr"
)

// DetailArtifact holds the evidence extracted from a fetched detail document.
type DetailArtifact struct {
	SourceKind          DetailSourceKind `json:"source_kind,omitempty"`
	EvidenceWindows     []string         `json:"evidence_windows,omitempty"`
	BodyExcerpt         []string         `json:"body_excerpt,omitempty"`
	ExtractionWarnings  []string         `json:"extraction_warnings,omitempty"`
}

// CaseCandidate is a raw retrieval hit. URL is its identity; duplicates merge on richer evidence.
type CaseCandidate struct {
	URL             string          `json:"url"`
	Title           string          `json:"title"`
	Snippet         string          `json:"snippet"`
	Court           Court           `json:"court"`
	CourtText       string          `json:"court_text,omitempty"`
	DetailText      string          `json:"detail_text,omitempty"`
	DetailArtifact  *DetailArtifact `json:"detail_artifact,omitempty"`
	CitesCount      int             `json:"cites_count,omitempty"`
	CitedByCount    int             `json:"cited_by_count,omitempty"`
	FullDocumentURL string          `json:"full_document_url,omitempty"`

	// FoundByVariants records canonical variant keys that produced this URL (provenance).
	FoundByVariants []string `json:"found_by_variants,omitempty"`
}

// QualityScore ranks candidates for dedup/merge preference (spec.md §4.4 Candidate dedup & merge).
func (c *CaseCandidate) QualityScore() float64 {
	score := 0.0
	if c.Court == CourtCaseSC || c.Court == CourtCaseHC {
		score += 10
	}
	if c.DetailText != "" {
		score += 12
	}
	if c.DetailArtifact != nil && len(c.DetailArtifact.EvidenceWindows) > 0 {
		score += 8
	}
	if c.CourtText != "" {
		score += 4
	}
	if c.FullDocumentURL != "" {
		score += 2
	}
	score += float64(len(c.Snippet)) / 120.0
	score += float64(c.CitesCount+c.CitedByCount) * 1.0
	return score
}

// CandidateKind is the classifier's tag for a candidate.
type CandidateKind string

const (
	KindCase    CandidateKind = "case"
	KindStatute CandidateKind = "statute"
	KindNoise   CandidateKind = "noise"
	KindUnknown CandidateKind = "unknown"
)

// ClassifiedCandidate pairs a candidate with its classifier verdict.
type ClassifiedCandidate struct {
	Candidate    CaseCandidate
	Kind         CandidateKind
	RejectReason string
}
