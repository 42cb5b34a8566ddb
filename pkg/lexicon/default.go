package lexicon

// DefaultLexicon is the compiled-in seed, shipped so the service works before any
// operator-supplied TOML override is loaded. It covers the statutory families and
// procedural vocabulary named in spec.md's seed scenarios (S1-S6).
func DefaultLexicon() Lexicon {
	return Lexicon{
		NoisePatterns: []string{
			`^\s*find cases? where\s+`,
			`^\s*please show( me)?\s+`,
			`^\s*show me\s+`,
			`^\s*i (want|need) (to find|cases about)\s+`,
			`^\s*search for\s+`,
			`^\s*can you (find|show)\s+`,
			`\s*find (me )?(some )?(relevant )?(case ?law|judgments?|precedents?)\s*$`,
		},

		Domains: map[string][]string{
			"criminal": {"criminal appeal", "criminal proceeding", "fir", "accused", "prosecution"},
			"civil":    {"civil suit", "civil nature", "civil dispute", "decree"},
			"family":   {"maintenance", "divorce", "custody"},
			"service":  {"departmental inquiry", "disciplinary proceeding", "service matter"},
		},

		Issues: map[string][]string{
			"limitation":      {"time barred", "time-barred", "delay condonation", "condonation of delay"},
			"quashing":        {"quash", "quashed", "quashing"},
			"sanction":        {"sanction to prosecute", "prior sanction", "sanction for prosecution"},
			"bail":            {"bail", "anticipatory bail"},
			"interplay":       {"read with", "interplay"},
		},

		Statutes: map[string][]string{
			"ipc":            {"indian penal code", "ipc"},
			"crpc":           {"code of criminal procedure", "crpc", "cr.p.c"},
			"cpc":            {"code of civil procedure", "cpc"},
			"limitation_act": {"limitation act"},
			"pc_act":         {"prevention of corruption act", "p.c. act", "pc act"},
		},

		Procedures: map[string][]string{
			"appeal":       {"appeal", "appellate"},
			"revision":     {"revision petition", "criminal revision"},
			"writ":         {"writ petition", "habeas corpus"},
			"application":  {"application", "petition"},
		},

		Actors: map[string][]string{
			"state":      {"state of", "union of india", "state government"},
			"appellant":  {"appellant"},
			"respondent": {"respondent"},
			"accused":    {"accused"},
			"complainant": {"complainant"},
		},

		Anchors: map[string][]string{
			"landmark": {"constitution bench", "three judge bench", "larger bench"},
		},

		HookFamilies: map[string][]string{
			"pc_act":         {"prevention of corruption act", "pc act"},
			"crpc":           {"code of criminal procedure", "crpc", "section 482"},
			"ipc":            {"indian penal code", "ipc"},
			"cpc":            {"code of civil procedure", "cpc"},
			"limitation_act": {"limitation act", "section 5 limitation act"},
		},

		PolaritySynonyms: map[string][]string{
			"required":     {"sanction required", "prior sanction", "cannot proceed without sanction"},
			"not_required": {"sanction not required", "without sanction"},
			"allowed":      {"allowed", "granted", "condoned"},
			"refused":      {"refused", "rejected", "not condoned"},
			"dismissed":    {"dismissed", "time barred", "time-barred"},
			"quashed":      {"quashed"},
		},

		ContradictionTerms: map[string][]string{
			"required":  {"sanction not required", "without sanction"},
			"refused":   {"condoned", "allowed"},
			"allowed":   {"refused", "rejected", "not condoned"},
			"dismissed": {"allowed", "condoned"},
		},

		KeywordPacks: map[string][]string{
			"browse":    {"supreme court judgment", "high court judgment", "landmark ruling"},
			"revolving": {"case law", "precedent", "judgment"},
		},

		OrgPatterns: []string{
			`state of [a-z][a-z ]+`,
			`union of india`,
			`[a-z][a-z ]+ department`,
			`[a-z][a-z ]+ corporation`,
		},
		PersonPatterns: []string{
			`\b(mr|mrs|ms|dr|justice|j\.)\s+[a-z][a-z.]+\b`,
		},
		SectionPatterns: []string{
			`\bsection\s+\d+[a-z]?\b`,
			`\barticle\s+\d+[a-z]?\b`,
		},
		CitationPatterns: []string{
			`\bair\s+\d{4}\s+sc\s+\d+\b`,
			`\b\d{4}\s+scc\s+\d+\b`,
		},
	}
}

// DefaultCompiled returns the compiled-in default lexicon, ready to use.
func DefaultCompiled() *Compiled {
	return Build(DefaultLexicon())
}
