package proposition

import (
	"regexp"
	"strings"

	"casesearch/pkg/models"
)

// Signals is the full set of structural measurements the gate's decision
// ladder and confidence calibration are computed from.
type Signals struct {
	Verification models.Verification

	CoreCoverage       float64
	PeripheralCoverage float64
	RequiredCoverage   float64
	HookGroupCoverage  float64
	MandatoryStepCoverage float64
	ChainCoverage      float64

	RelationSatisfied        bool
	OutcomePolaritySatisfied bool
	ContradictionFired       bool
	ActorRoleSatisfied       bool
	ProceedingRoleSatisfied  bool
	ChainSatisfied           bool

	MatchEvidence         []string
	MissingCoreElements   []string
	MissingMandatorySteps []string
}

// Compute evaluates every signal spec.md §4.7 lists, over text = title +
// snippet + bodyExcerpt and evidenceText = evidence windows.
func Compute(c models.CaseCandidate, checklist models.PropositionChecklist) Signals {
	text := strings.ToLower(assembleText(c))
	evidenceText := strings.ToLower(assembleEvidence(c))
	if evidenceText == "" {
		evidenceText = text
	}

	var s Signals
	s.Verification.DetailChecked = c.DetailText != "" || (c.DetailArtifact != nil && len(c.DetailArtifact.EvidenceWindows) > 0)

	coreHits, coreTotal, missingCore := axisCoverage(checklist.Axes, text)
	s.CoreCoverage = ratio(coreHits, coreTotal)
	s.MissingCoreElements = missingCore

	peripheralTotal := len(checklist.Graph.PeripheralSteps)
	peripheralHits := countMatches(checklist.Graph.PeripheralSteps, text)
	s.PeripheralCoverage = ratio(peripheralHits, peripheralTotal)

	mandatoryTotal := len(checklist.Graph.MandatorySteps)
	mandatoryHits, missingMandatory := stepCoverage(checklist.Graph.MandatorySteps, text)
	s.MandatoryStepCoverage = ratio(mandatoryHits, mandatoryTotal)
	s.MissingMandatorySteps = missingMandatory

	s.HookGroupCoverage, s.Verification.HasHookIntersectionSentence = hookGroupCoverage(checklist.HookGroups, text)

	s.RelationSatisfied, s.Verification.HasRelationSentence = relationsSatisfied(checklist.Relations, checklist.HookGroups, evidenceText)

	s.OutcomePolaritySatisfied, s.ContradictionFired, s.Verification.HasPolaritySentence = outcomeSignals(checklist.OutcomeConstraint, text)

	s.ActorRoleSatisfied, s.ProceedingRoleSatisfied, s.Verification.HasRoleSentence = roleSignals(checklist.Graph.RoleConstraints, text)

	s.ChainSatisfied, s.Verification.HasChainSentence, s.ChainCoverage = chainSignals(checklist.Graph.ChainConstraints, evidenceText)

	totalRequired := requiredComponentCount(checklist)
	satisfiedRequired := satisfiedComponentCount(checklist, s)
	s.RequiredCoverage = ratio(satisfiedRequired, totalRequired)

	s.MatchEvidence = collectEvidence(s, checklist)

	return s
}

func assembleText(c models.CaseCandidate) string {
	parts := []string{c.Title, c.Snippet}
	if c.DetailArtifact != nil {
		parts = append(parts, c.DetailArtifact.BodyExcerpt...)
	}
	return strings.Join(parts, " ")
}

func assembleEvidence(c models.CaseCandidate) string {
	if c.DetailArtifact == nil {
		return ""
	}
	return strings.Join(c.DetailArtifact.EvidenceWindows, " ")
}

func ratio(hits, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(hits) / float64(total)
}

// matchTerm applies spec.md §4.7 signal 1: substring match for multi-word
// terms, word-boundary match for single words.
func matchTerm(text, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	if strings.Contains(term, " ") {
		return strings.Contains(text, term)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	return re.MatchString(text)
}

func countMatches(terms []string, text string) int {
	n := 0
	for _, t := range terms {
		if matchTerm(text, t) {
			n++
		}
	}
	return n
}

func stepCoverage(steps []string, text string) (hits int, missing []string) {
	for _, step := range steps {
		if matchTerm(text, step) {
			hits++
		} else {
			missing = append(missing, step)
		}
	}
	return hits, missing
}

func axisCoverage(axes map[string]models.Axis, text string) (hits, total int, missing []string) {
	for name, axis := range axes {
		if !axis.Required {
			continue
		}
		total++
		if countMatches(axis.Terms, text) > 0 {
			hits++
		} else {
			missing = append(missing, name)
		}
	}
	return hits, total, missing
}

func hookGroupCoverage(groups []models.HookGroup, text string) (coverage float64, hasIntersection bool) {
	required := 0
	satisfied := 0
	distinctGroupsHit := 0
	for _, g := range groups {
		if !g.Required {
			continue
		}
		required++
		n := countMatches(g.Terms, text)
		if n >= g.MinMatch {
			satisfied++
		}
		if n > 0 {
			distinctGroupsHit++
		}
	}
	if required == 0 {
		return 1, false
	}
	return ratio(satisfied, required), distinctGroupsHit >= 2
}

func relationsSatisfied(relations []models.ChecklistRelation, groups []models.HookGroup, evidenceText string) (bool, bool) {
	if len(relations) == 0 {
		return true, false
	}
	byID := make(map[string]models.HookGroup, len(groups))
	for _, g := range groups {
		byID[g.GroupID] = g
	}

	anySentence := false
	for _, r := range relations {
		if !r.Required {
			continue
		}
		left, okL := byID[r.Left]
		right, okR := byID[r.Right]
		if !okL || !okR {
			return false, anySentence
		}
		if !pairWithinWindow(evidenceText, left.Terms, right.Terms, 220) {
			return false, anySentence
		}
		anySentence = true
	}
	return true, anySentence
}

// pairWithinWindow reports whether any left term and right term occurrence
// are within windowChars of each other in text.
func pairWithinWindow(text string, leftTerms, rightTerms []string, windowChars int) bool {
	leftPositions := termPositions(text, leftTerms)
	rightPositions := termPositions(text, rightTerms)
	for _, lp := range leftPositions {
		for _, rp := range rightPositions {
			d := lp - rp
			if d < 0 {
				d = -d
			}
			if d <= windowChars {
				return true
			}
		}
	}
	return false
}

func termPositions(text string, terms []string) []int {
	var positions []int
	for _, t := range terms {
		t = strings.ToLower(t)
		if t == "" {
			continue
		}
		idx := 0
		for {
			p := strings.Index(text[idx:], t)
			if p == -1 {
				break
			}
			positions = append(positions, idx+p)
			idx += p + len(t)
		}
	}
	return positions
}

func outcomeSignals(oc models.OutcomeConstraint, text string) (satisfied, contradiction, hasSentence bool) {
	if oc.Polarity == "" || oc.Polarity == models.PolarityUnknown {
		return true, false, false
	}
	if len(oc.Terms) > 0 {
		satisfied = countMatches(oc.Terms, text) > 0
		hasSentence = satisfied
	} else {
		satisfied = true
	}
	for _, t := range oc.ContradictionTerms {
		if matchTerm(text, t) {
			contradiction = true
			break
		}
	}
	return satisfied, contradiction, hasSentence
}

func roleSignals(constraints []models.RoleConstraint, text string) (actorOK, proceedingOK bool, hasSentence bool) {
	if len(constraints) == 0 {
		return true, true, false
	}
	for _, rc := range constraints {
		if matchTerm(text, rc.Actor) && matchTerm(text, rc.Role) {
			hasSentence = true
		}
		if matchTerm(text, rc.Actor) {
			actorOK = true
		}
		if matchTerm(text, rc.Role) {
			proceedingOK = true
		}
	}
	return actorOK, proceedingOK, hasSentence
}

func chainSignals(constraints []models.ChainConstraint, evidenceText string) (satisfied, hasSentence bool, coverage float64) {
	if len(constraints) == 0 {
		return true, false, 1
	}
	hit := 0
	for _, cc := range constraints {
		window := cc.WindowChars
		if window == 0 {
			window = 220
		}
		if pairWithinWindow(evidenceText, cc.LeftTerms, cc.RightTerms, window) {
			hit++
		}
	}
	satisfied = hit == len(constraints)
	hasSentence = hit > 0
	coverage = ratio(hit, len(constraints))
	return satisfied, hasSentence, coverage
}

func requiredComponentCount(checklist models.PropositionChecklist) int {
	n := 0
	for _, axis := range checklist.Axes {
		if axis.Required {
			n++
		}
	}
	n += checklist.RequiredHookGroupCount()
	for _, r := range checklist.Relations {
		if r.Required {
			n++
		}
	}
	if checklist.OutcomeConstraint.Polarity != "" && checklist.OutcomeConstraint.Polarity != models.PolarityUnknown {
		n++
	}
	n += len(checklist.Graph.MandatorySteps)
	return n
}

func satisfiedComponentCount(checklist models.PropositionChecklist, s Signals) int {
	n := 0
	for name, axis := range checklist.Axes {
		if !axis.Required {
			continue
		}
		missing := false
		for _, m := range s.MissingCoreElements {
			if m == name {
				missing = true
				break
			}
		}
		if !missing {
			n++
		}
	}
	if checklist.RequiredHookGroupCount() > 0 {
		n += int(s.HookGroupCoverage * float64(checklist.RequiredHookGroupCount()))
	}
	if s.RelationSatisfied {
		for _, r := range checklist.Relations {
			if r.Required {
				n++
			}
		}
	}
	if checklist.OutcomeConstraint.Polarity != "" && checklist.OutcomeConstraint.Polarity != models.PolarityUnknown && s.OutcomePolaritySatisfied {
		n++
	}
	n += len(checklist.Graph.MandatorySteps) - len(s.MissingMandatorySteps)
	return n
}

func collectEvidence(s Signals, checklist models.PropositionChecklist) []string {
	var out []string
	if s.Verification.HasRelationSentence {
		out = append(out, "relation_evidence")
	}
	if s.Verification.HasPolaritySentence {
		out = append(out, "polarity_evidence")
	}
	if s.Verification.HasHookIntersectionSentence {
		out = append(out, "hook_intersection_evidence")
	}
	if s.Verification.HasRoleSentence {
		out = append(out, "role_evidence")
	}
	if s.Verification.HasChainSentence {
		out = append(out, "chain_evidence")
	}
	return out
}
