package reasoner

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"casesearch/pkg/models"
)

const fingerprintLength = 16

// Fingerprint is the SHA-256 of the normalised cleaned query plus the sorted
// context arrays, truncated to fingerprintLength hex characters. Identical
// requests (even arriving with differently-ordered context slices) collapse
// to the same cache key.
func Fingerprint(cleanedQuery string, ctx models.ContextProfile) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(cleanedQuery)))
	b.WriteByte('|')
	writeSorted(&b, ctx.Domains)
	writeSorted(&b, ctx.Issues)
	writeSorted(&b, ctx.Statutes)
	writeSorted(&b, ctx.Procedures)
	writeSorted(&b, ctx.Actors)
	writeSorted(&b, ctx.Anchors)

	sum := sha256.Sum256([]byte(b.String()))
	hexSum := hex.EncodeToString(sum[:])
	if len(hexSum) > fingerprintLength {
		return hexSum[:fingerprintLength]
	}
	return hexSum
}

func writeSorted(b *strings.Builder, values []string) {
	sorted := append([]string{}, values...)
	sort.Strings(sorted)
	b.WriteString(strings.Join(sorted, ","))
	b.WriteByte('|')
}

// CacheKey builds the "reasoner:v2:{pass}:{fingerprint}[:{pass2SeedHash}]" key.
func CacheKey(pass models.ReasonerPass, fingerprint, pass2SeedHash string) string {
	key := "reasoner:v2:" + string(pass) + ":" + fingerprint
	if pass == models.ReasonerPassTwo && pass2SeedHash != "" {
		key += ":" + pass2SeedHash
	}
	return key
}

// Pass2SeedHash hashes the snippet set driving a pass-2 refinement, so two
// different snippet sets for the same fingerprint don't collide in cache.
func Pass2SeedHash(snippets []string) string {
	if len(snippets) == 0 {
		return ""
	}
	joined := strings.Join(snippets, "\x1f")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:8]
}
