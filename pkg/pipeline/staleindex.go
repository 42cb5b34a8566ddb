package pipeline

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"casesearch/pkg/cache"
	"casesearch/pkg/models"
)

// SignatureLevel is one of the four decreasing-specificity buckets the
// stale-fallback recall store keys a response under (spec.md §4.8 step 8).
type SignatureLevel string

const (
	SignatureExact  SignatureLevel = "exact"
	SignatureFull   SignatureLevel = "full"
	SignatureMedium SignatureLevel = "medium"
	SignatureBroad  SignatureLevel = "broad"
)

var signatureLevels = []SignatureLevel{SignatureExact, SignatureFull, SignatureMedium, SignatureBroad}

const staleFallbackTTL = 24 * time.Hour

// StaleIndex is the pipeline's "similarity-indexed prior response" recall
// store: a thin layer over the shared Cache that writes one entry per
// signature level, then on lookup walks from the most specific level to the
// broadest, accepting the first hit whose token-overlap similarity with the
// current query clears the configured floor.
type StaleIndex struct {
	c      cache.Cache
	recall *OpenSearchRecall
}

func NewStaleIndex(c cache.Cache) *StaleIndex {
	return &StaleIndex{c: c}
}

// SetOpenSearchRecall wires the optional OpenSearch-backed similarity index.
// When set, Lookup tries it first (a match query tolerates near-miss
// phrasing that the cache levels' exact signature buckets would not), and
// falls back to the cache levels on miss or when it's nil.
func (s *StaleIndex) SetOpenSearchRecall(r *OpenSearchRecall) {
	s.recall = r
}

type staleEntry struct {
	Response models.SearchResponse `json:"response"`
	Tokens   []string              `json:"tokens"`
}

// Put persists resp under every signature level derived from intent, so a
// later, related-but-not-identical query can still recall it.
func (s *StaleIndex) Put(ctx context.Context, intent models.IntentProfile, resp models.SearchResponse) {
	if s == nil || s.c == nil {
		return
	}
	tokens := signatureTokens(intent)
	entry := staleEntry{Response: resp, Tokens: tokens}
	for _, level := range signatureLevels {
		key := staleKey(level, intent)
		_ = s.c.SetJSON(ctx, key, entry, staleFallbackTTL)
	}
	if s.recall != nil {
		s.recall.Put(ctx, SignatureFull, strings.Join(tokens, " "), resp)
	}
}

// Lookup first tries the OpenSearch recall when one is wired and returns its
// top hit without a similarity check. Otherwise it walks signature levels from
// most to least specific, returning the first entry whose token-overlap
// similarity with intent clears minSimilarity.
func (s *StaleIndex) Lookup(ctx context.Context, intent models.IntentProfile, minSimilarity float64) (models.SearchResponse, SignatureLevel, bool) {
	if s == nil || s.c == nil {
		return models.SearchResponse{}, "", false
	}
	queryTokens := signatureTokens(intent)
	if s.recall != nil {
		if resp, level, ok := s.recall.Lookup(ctx, strings.Join(queryTokens, " ")); ok {
			return resp, level, true
		}
	}
	for _, level := range signatureLevels {
		var entry staleEntry
		if err := s.c.GetJSON(ctx, staleKey(level, intent), &entry); err != nil {
			continue
		}
		if jaccardSimilarity(queryTokens, entry.Tokens) >= minSimilarity {
			return entry.Response, level, true
		}
	}
	return models.SearchResponse{}, "", false
}

// staleKey derives the cache key for one signature level. Exact keys on the
// full cleaned query plus every filter; medium keys on the sorted issues and
// statutes; broad collapses down to the sorted domains only, so
// distinct-but-related queries still collide into the same bucket.
func staleKey(level SignatureLevel, intent models.IntentProfile) string {
	var parts []string
	switch level {
	case SignatureExact:
		parts = []string{intent.CleanedQuery, string(intent.CourtHint), intent.DateWindow.FromDate, intent.DateWindow.ToDate}
	case SignatureFull:
		parts = []string{intent.CleanedQuery, string(intent.CourtHint)}
	case SignatureMedium:
		parts = append(append([]string{}, intent.Context.Issues...), intent.Context.Statutes...)
	case SignatureBroad:
		parts = append([]string{}, intent.Context.Domains...)
	}
	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "search:stale:" + string(level) + ":" + hex.EncodeToString(sum[:])
}

func signatureTokens(intent models.IntentProfile) []string {
	var tokens []string
	tokens = append(tokens, strings.Fields(strings.ToLower(intent.CleanedQuery))...)
	tokens = append(tokens, intent.Context.Domains...)
	tokens = append(tokens, intent.Context.Issues...)
	tokens = append(tokens, intent.Context.Statutes...)
	return tokens
}

func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[strings.ToLower(t)] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		lt := strings.ToLower(t)
		seen[lt] = true
		if set[lt] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
