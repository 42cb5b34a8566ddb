package models

// Phase is one of the six fixed-order retrieval lanes.
type Phase string

const (
	PhasePrimary   Phase = "primary"
	PhaseFallback  Phase = "fallback"
	PhaseRescue    Phase = "rescue"
	PhaseMicro     Phase = "micro"
	PhaseRevolving Phase = "revolving"
	PhaseBrowse    Phase = "browse"
)

// PhaseOrder is the fixed consumption order for the scheduler.
var PhaseOrder = []Phase{PhasePrimary, PhaseFallback, PhaseRescue, PhaseMicro, PhaseRevolving, PhaseBrowse}

// Strictness is the variant's strictness tier.
type Strictness string

const (
	StrictnessStrict  Strictness = "strict"
	StrictnessRelaxed Strictness = "relaxed"
)

// QueryMode hints the provider how to bias its own ranking, where supported.
type QueryMode string

const (
	QueryModePrecision QueryMode = "precision"
	QueryModeExpansion QueryMode = "expansion"
	QueryModeContext   QueryMode = "context"
)

// RetrievalDirectives are provider-facing hints threaded from the variant.
type RetrievalDirectives struct {
	QueryMode                  QueryMode `json:"query_mode"`
	DoctypeProfile             string    `json:"doctype_profile,omitempty"`
	ApplyContradictionExclusions bool    `json:"apply_contradiction_exclusions"`
}

// QueryVariant is one synthesised search phrase with its phase/strictness/priority metadata.
type QueryVariant struct {
	ID          string     `json:"id"`
	Phrase      string     `json:"phrase"`
	Phase       Phase      `json:"phase"`
	Purpose     string     `json:"purpose,omitempty"`
	CourtScope  CourtHint  `json:"court_scope"`
	Strictness  Strictness `json:"strictness"`
	Tokens      []string   `json:"tokens"`
	CanonicalKey string    `json:"canonical_key"`
	Priority    int        `json:"priority"`

	MustIncludeTokens []string `json:"must_include_tokens,omitempty"`
	MustExcludeTokens []string `json:"must_exclude_tokens,omitempty"`

	ProviderHints       map[string]string   `json:"provider_hints,omitempty"`
	RetrievalDirectives RetrievalDirectives `json:"retrieval_directives"`
}

// Base priority by phase, before the +12 strict bonus (spec.md §4.3 step 9).
var PhaseBasePriority = map[Phase]int{
	PhasePrimary:   92,
	PhaseFallback:  78,
	PhaseRescue:    62,
	PhaseMicro:     56,
	PhaseRevolving: 48,
	PhaseBrowse:    42,
}
