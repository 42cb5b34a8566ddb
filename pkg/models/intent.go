package models

// CourtHint narrows retrieval to a court tier, or leaves it open.
type CourtHint string

const (
	CourtSC  CourtHint = "SC"
	CourtHC  CourtHint = "HC"
	CourtAny CourtHint = "ANY"
)

// OutcomePolarity is the disposition the proposition requires of a matching case.
type OutcomePolarity string

const (
	PolarityRequired    OutcomePolarity = "required"
	PolarityNotRequired OutcomePolarity = "not_required"
	PolarityAllowed     OutcomePolarity = "allowed"
	PolarityRefused     OutcomePolarity = "refused"
	PolarityDismissed   OutcomePolarity = "dismissed"
	PolarityQuashed     OutcomePolarity = "quashed"
	PolarityUnknown     OutcomePolarity = "unknown"
)

// DateWindow is a DD-MM-YYYY formatted inclusive range; either bound may be empty.
type DateWindow struct {
	FromDate string `json:"from_date,omitempty"`
	ToDate   string `json:"to_date,omitempty"`
}

// IsEmpty reports whether neither bound was set.
func (w DateWindow) IsEmpty() bool {
	return w.FromDate == "" && w.ToDate == ""
}

// ContextProfile is the bag of recognised keyword/phrase hits over the cleaned query.
type ContextProfile struct {
	Domains    []string `json:"domains,omitempty"`
	Issues     []string `json:"issues,omitempty"`
	Statutes   []string `json:"statutes,omitempty"`
	Procedures []string `json:"procedures,omitempty"`
	Actors     []string `json:"actors,omitempty"`
	Anchors    []string `json:"anchors,omitempty"`
}

// EntityBag holds entities extracted by the pluggable enricher registry.
type EntityBag struct {
	Persons    []string `json:"persons,omitempty"`
	Orgs       []string `json:"orgs,omitempty"`
	Statutes   []string `json:"statutes,omitempty"`
	Sections   []string `json:"sections,omitempty"`
	Citations  []string `json:"citations,omitempty"`
}

// RetrievalIntent carries the signals the variant planner and gate consume downstream.
type RetrievalIntent struct {
	HookGroups      []string        `json:"hook_groups,omitempty"`
	OutcomePolarity OutcomePolarity `json:"outcome_polarity"`
	CitationHints   []string        `json:"citation_hints,omitempty"`
	JudgeHints      []string        `json:"judge_hints,omitempty"`
	DoctypeProfile  string          `json:"doctype_profile,omitempty"`
}

// IntentProfile is immutable once built by the Intent Profiler (C1).
type IntentProfile struct {
	RawQuery     string          `json:"raw_query"`
	CleanedQuery string          `json:"cleaned_query"`
	Context      ContextProfile  `json:"context"`
	CourtHint    CourtHint       `json:"court_hint"`
	DateWindow   DateWindow      `json:"date_window"`
	Entities     EntityBag       `json:"entities"`
	Retrieval    RetrievalIntent `json:"retrieval_intent"`
}
