package scorer

import "strings"

// Config tunes the scorer's lexical/axis blend.
//
// TODO: the keyword-pack/canonical-lexical-profile weight split is not
// formally specified and is known to vary with flags upstream; these
// weights are tuneable rather than hard-coded for that reason.
type Config struct {
	KeywordWeight     float64
	MustIncludeWeight float64
	AxisWeight        float64
	ContradictionPenalty float64
}

func DefaultConfig() Config {
	return Config{
		KeywordWeight:        0.30,
		MustIncludeWeight:    0.30,
		AxisWeight:           0.40,
		ContradictionPenalty: 0.35,
	}
}

// candidateText is the text the lexical profile is matched against.
type candidateText struct {
	text string
}

func textOf(title, snippet, detailText string) candidateText {
	return candidateText{text: strings.ToLower(strings.Join([]string{title, snippet, detailText}, " "))}
}

// Score blends classical lexical match (must-include/strict-variant tokens)
// with proposition axis coverage (checklist tokens), penalized for any
// contradiction-term hit (spec.md §4.6).
func Score(title, snippet, detailText string, profile LexicalProfile, cfg Config) float64 {
	ct := textOf(title, snippet, detailText)

	mustScore := matchFraction(ct.text, profile.MustIncludeTokens)
	keywordScore := matchFraction(ct.text, profile.StrictVariantTokens)
	axisScore := matchFraction(ct.text, profile.ChecklistTokens)

	score := cfg.MustIncludeWeight*mustScore + cfg.KeywordWeight*keywordScore + cfg.AxisWeight*axisScore

	if matchFraction(ct.text, profile.ContradictionTokens) > 0 {
		score -= cfg.ContradictionPenalty
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
