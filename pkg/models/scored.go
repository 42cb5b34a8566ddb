package models

// ConfidenceBand is the user-facing coarse confidence bucket.
type ConfidenceBand string

const (
	BandVeryHigh ConfidenceBand = "VERY_HIGH"
	BandHigh     ConfidenceBand = "HIGH"
	BandMedium   ConfidenceBand = "MEDIUM"
	BandLow      ConfidenceBand = "LOW"
)

// ExactnessType is the proposition gate's decision for a candidate, or empty for reject.
type ExactnessType string

const (
	ExactStrict       ExactnessType = "strict"
	ExactProvisional  ExactnessType = "provisional"
	ExactNone         ExactnessType = ""
)

// RetrievalTier is the user-visible lane a scored case is surfaced in.
type RetrievalTier string

const (
	TierStrict      RetrievalTier = "strict"
	TierProvisional RetrievalTier = "provisional"
	TierExploratory RetrievalTier = "exploratory" // synonym for the gate's near_miss, spec.md §9 OQ2
)

// Verification records which structural sentences the gate found supporting a decision.
type Verification struct {
	DetailChecked             bool `json:"detail_checked"`
	IssuesMatched             int  `json:"issues_matched"`
	ProceduresMatched         int  `json:"procedures_matched"`
	AnchorsMatched            int  `json:"anchors_matched"`
	HasRelationSentence       bool `json:"has_relation_sentence"`
	HasPolaritySentence       bool `json:"has_polarity_sentence"`
	HasHookIntersectionSentence bool `json:"has_hook_intersection_sentence"`
	HasRoleSentence           bool `json:"has_role_sentence"`
	HasChainSentence          bool `json:"has_chain_sentence"`
}

// ScoredCase is a CaseCandidate enriched with ranking, confidence, and gate verdicts.
type ScoredCase struct {
	Candidate CaseCandidate `json:"candidate"`

	Score           float64        `json:"score"`
	RankingScore    float64        `json:"ranking_score"`
	ConfidenceScore float64        `json:"confidence_score"`
	ConfidenceBand  ConfidenceBand `json:"confidence_band"`
	Reasons         []string       `json:"reasons,omitempty"`
	SelectionSummary string        `json:"selection_summary,omitempty"`

	Verification Verification `json:"verification"`

	ExactnessType         ExactnessType `json:"exactness_type,omitempty"`
	MatchEvidence         []string      `json:"match_evidence,omitempty"`
	MissingCoreElements   []string      `json:"missing_core_elements,omitempty"`
	MissingMandatorySteps []string      `json:"missing_mandatory_steps,omitempty"`
	RetrievalTier         RetrievalTier `json:"retrieval_tier,omitempty"`

	FallbackReason string `json:"fallback_reason,omitempty"`
}
