package models

// RelationType is one of the allowed edges between two hook groups.
type RelationType string

const (
	RelationRequires      RelationType = "requires"
	RelationAppliesTo     RelationType = "applies_to"
	RelationInteractsWith RelationType = "interacts_with"
	RelationExcludedBy    RelationType = "excluded_by"
)

// HookGroup is one statutory axis: a family of terms collectively matched ≥ MinMatch times.
type HookGroup struct {
	GroupID  string   `json:"group_id"`
	Terms    []string `json:"terms"`
	MinMatch int      `json:"min_match"`
	Required bool     `json:"required"`
}

// Relation constrains how two hook groups must co-occur in evidence text.
type Relation struct {
	Type         RelationType `json:"type"`
	LeftGroupID  string       `json:"left_group_id"`
	RightGroupID string       `json:"right_group_id"`
	Required     bool         `json:"required"`
}

// OutcomeConstraint is the polarity the candidate's outcome must satisfy.
type OutcomeConstraint struct {
	Polarity           OutcomePolarity `json:"polarity"`
	Modality           string          `json:"modality,omitempty"`
	Terms              []string        `json:"terms,omitempty"`
	ContradictionTerms []string        `json:"contradiction_terms,omitempty"`
}

// Proposition is the reasoner's structured rendering of the legal claim.
type Proposition struct {
	Actors             []string          `json:"actors,omitempty"`
	Proceeding         []string          `json:"proceeding,omitempty"`
	LegalHooks         []string          `json:"legal_hooks,omitempty"`
	OutcomeRequired    []string          `json:"outcome_required,omitempty"`
	OutcomeNegative    []string          `json:"outcome_negative,omitempty"`
	JurisdictionHint   string            `json:"jurisdiction_hint,omitempty"`
	HookGroups         []HookGroup       `json:"hook_groups,omitempty"`
	Relations          []Relation        `json:"relations,omitempty"`
	OutcomeConstraint  OutcomeConstraint `json:"outcome_constraint"`
	InteractionRequired bool             `json:"interaction_required"`
}

// ReasonerPlan is the optional LLM-produced plan. Dropped upstream if schema-invalid.
type ReasonerPlan struct {
	Proposition        Proposition `json:"proposition"`
	MustHaveTerms      []string    `json:"must_have_terms,omitempty"`
	MustNotHaveTerms   []string    `json:"must_not_have_terms,omitempty"`
	QueryVariantsStrict []string   `json:"query_variants_strict,omitempty"`
	QueryVariantsBroad  []string   `json:"query_variants_broad,omitempty"`
	CaseAnchors        []string    `json:"case_anchors,omitempty"`

	// Warnings collects unknown/unwhitelisted fields seen during schema validation.
	Warnings []string `json:"warnings,omitempty"`
}

// ReasonerMode selects which reasoner pass produced (or would produce) a plan.
type ReasonerMode string

const (
	ReasonerModeOpus        ReasonerMode = "opus"
	ReasonerModeDeterministic ReasonerMode = "deterministic"
)

// ReasonerTelemetry reports how a runReasoner invocation resolved, success or not.
type ReasonerTelemetry struct {
	Mode                  ReasonerMode `json:"mode"`
	CacheHit              bool         `json:"cache_hit"`
	LatencyMs             int64        `json:"latency_ms"`
	Degraded              bool         `json:"degraded"`
	Timeout               bool         `json:"timeout"`
	TimeoutMsUsed         int          `json:"timeout_ms_used"`
	AdaptiveTimeoutApplied bool        `json:"adaptive_timeout_applied"`
	Error                 string       `json:"error,omitempty"`
	SkipReason            string       `json:"skip_reason,omitempty"`
	Warnings              []string     `json:"warnings,omitempty"`
}

// ReasonerResult is the full return value of runReasoner.
type ReasonerResult struct {
	Plan        *ReasonerPlan     `json:"plan,omitempty"`
	Telemetry   ReasonerTelemetry `json:"telemetry"`
	Fingerprint string            `json:"fingerprint"`
}

// ReasonerPass distinguishes the two points the orchestrator may be invoked.
type ReasonerPass string

const (
	ReasonerPassOne ReasonerPass = "pass1"
	ReasonerPassTwo ReasonerPass = "pass2"
)
