// Package lexicon is the curated legal keyword/phrase store (SPEC_FULL.md C13):
// data, not code, loaded from TOML at startup and hot-reloadable via fsnotify.
// Compiled regex tables built once at load time are exposed read-only so every
// matcher in the pipeline (intent, variant, gate) shares one tokenizer/lookup path.
package lexicon

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// Lexicon is the raw, TOML-shaped data. Every field is a label -> phrase-list map
// except where noted.
type Lexicon struct {
	NoisePatterns []string `toml:"noise_patterns"`

	Domains    map[string][]string `toml:"domains"`
	Issues     map[string][]string `toml:"issues"`
	Statutes   map[string][]string `toml:"statutes"`
	Procedures map[string][]string `toml:"procedures"`
	Actors     map[string][]string `toml:"actors"`
	Anchors    map[string][]string `toml:"anchors"`

	HookFamilies      map[string][]string `toml:"hook_families"`
	PolaritySynonyms  map[string][]string `toml:"polarity_synonyms"`
	ContradictionTerms map[string][]string `toml:"contradiction_terms"`

	KeywordPacks map[string][]string `toml:"keyword_packs"`

	OrgPatterns     []string `toml:"org_patterns"`
	PersonPatterns  []string `toml:"person_patterns"`
	SectionPatterns []string `toml:"section_patterns"`
	CitationPatterns []string `toml:"citation_patterns"`
}

// Compiled holds the Lexicon plus its once-compiled regex tables, read-only after Build.
type Compiled struct {
	Raw Lexicon

	NoiseRE []*regexp.Regexp

	DomainRE    map[string][]*regexp.Regexp
	IssueRE     map[string][]*regexp.Regexp
	StatuteRE   map[string][]*regexp.Regexp
	ProcedureRE map[string][]*regexp.Regexp
	ActorRE     map[string][]*regexp.Regexp
	AnchorRE    map[string][]*regexp.Regexp

	OrgRE      []*regexp.Regexp
	PersonRE   []*regexp.Regexp
	SectionRE  []*regexp.Regexp
	CitationRE []*regexp.Regexp
}

func compileAll(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(p)))
	}
	return out
}

func compileGroup(groups map[string][]string) map[string][]*regexp.Regexp {
	out := make(map[string][]*regexp.Regexp, len(groups))
	for label, phrases := range groups {
		out[label] = compileAll(phrases)
	}
	return out
}

// Build compiles a raw Lexicon into read-only regex tables.
func Build(l Lexicon) *Compiled {
	c := &Compiled{Raw: l}
	c.NoiseRE = compilePatternsAsRegex(l.NoisePatterns)
	c.DomainRE = compileGroup(l.Domains)
	c.IssueRE = compileGroup(l.Issues)
	c.StatuteRE = compileGroup(l.Statutes)
	c.ProcedureRE = compileGroup(l.Procedures)
	c.ActorRE = compileGroup(l.Actors)
	c.AnchorRE = compileGroup(l.Anchors)
	c.OrgRE = compilePatternsAsRegex(l.OrgPatterns)
	c.PersonRE = compilePatternsAsRegex(l.PersonPatterns)
	c.SectionRE = compilePatternsAsRegex(l.SectionPatterns)
	c.CitationRE = compilePatternsAsRegex(l.CitationPatterns)
	return c
}

// compilePatternsAsRegex treats each entry as a ready-made regex fragment (used for
// noise/org/person/section/citation patterns, which are genuine regexes, not literals).
func compilePatternsAsRegex(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// Load reads a TOML lexicon file and compiles it.
func Load(path string) (*Compiled, error) {
	var l Lexicon
	if _, err := toml.DecodeFile(path, &l); err != nil {
		return nil, fmt.Errorf("lexicon: decode %s: %w", path, err)
	}
	return Build(l), nil
}

// Store holds the active Compiled lexicon behind a pointer swap, so readers never
// block on a reload and a reload never mutates data a reader already holds.
type Store struct {
	mu      sync.RWMutex
	current *Compiled
	watcher *fsnotify.Watcher
}

// NewStore seeds the store with an initial compiled lexicon (typically DefaultCompiled()).
func NewStore(initial *Compiled) *Store {
	return &Store{current: initial}
}

// Current returns the active compiled lexicon.
func (s *Store) Current() *Compiled {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) replace(c *Compiled) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}

// WatchFile hot-reloads the store whenever path changes on disk. onErr (optional)
// receives reload failures so the caller can log them without tearing the process down.
func (s *Store) WatchFile(path string, onErr func(error)) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("lexicon: watch target missing: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("lexicon: create watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return fmt.Errorf("lexicon: watch %s: %w", path, err)
	}
	s.watcher = w

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				c, err := Load(path)
				if err != nil {
					if onErr != nil {
						onErr(err)
					}
					continue
				}
				s.replace(c)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if onErr != nil {
					onErr(err)
				}
			}
		}
	}()
	return nil
}

// Close stops the file watcher, if any was started.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

// MatchAny reports whether any regex in the table matches text.
func MatchAny(table []*regexp.Regexp, text string) bool {
	for _, re := range table {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchLabels returns every label in a group table whose phrase list matches text.
func MatchLabels(groups map[string][]*regexp.Regexp, text string) []string {
	var hits []string
	for label, res := range groups {
		for _, re := range res {
			if re.MatchString(text) {
				hits = append(hits, label)
				break
			}
		}
	}
	return hits
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and trims ends.
func NormalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
