package models

// Axis is one of the four proposition dimensions checked by the gate.
type Axis struct {
	Required bool     `json:"required"`
	Terms    []string `json:"terms"`
}

// ChainConstraint requires two term sets to co-occur within WindowChars of each other.
type ChainConstraint struct {
	LeftTerms  []string `json:"left_terms"`
	RightTerms []string `json:"right_terms"`
	WindowChars int     `json:"window_chars"`
}

// RoleConstraint asserts that a named actor carries a specific procedural role.
type RoleConstraint struct {
	Actor string `json:"actor"`
	Role  string `json:"role"`
}

// ChecklistGraph is the role/chain/step layer of the proposition (PROPOSITION_V5).
type ChecklistGraph struct {
	MandatorySteps  []string         `json:"mandatory_steps,omitempty"`
	PeripheralSteps []string         `json:"peripheral_steps,omitempty"`
	RoleConstraints []RoleConstraint `json:"role_constraints,omitempty"`
	ChainConstraints []ChainConstraint `json:"chain_constraints,omitempty"`
}

// ChecklistRelation is a PropositionChecklist-scoped relation referencing two hook groups by id.
type ChecklistRelation struct {
	RelationID string       `json:"relation_id"`
	Type       RelationType `json:"type"`
	Left       string       `json:"left"`
	Right      string       `json:"right"`
	Required   bool         `json:"required"`
}

// PropositionChecklist is the compiled, gate-ready structural representation of the claim.
type PropositionChecklist struct {
	Axes map[string]Axis `json:"axes"` // keys: actor, proceeding, legal_hook, outcome

	HookGroups []HookGroup         `json:"hook_groups,omitempty"`
	Relations  []ChecklistRelation `json:"relations,omitempty"`

	InteractionRequired bool              `json:"interaction_required"`
	OutcomeConstraint   OutcomeConstraint `json:"outcome_constraint"`

	Graph ChecklistGraph `json:"graph"`
}

// RequiredHookGroupCount returns how many hook groups are marked required.
func (c *PropositionChecklist) RequiredHookGroupCount() int {
	n := 0
	for _, hg := range c.HookGroups {
		if hg.Required {
			n++
		}
	}
	return n
}
