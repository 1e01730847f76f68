package prescore

import (
	"sort"
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips accents, so "/Événement" matches the pattern "/evenement".
// Both paths and patterns go through it.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// matcher finds every pattern occurring in a text in one Aho-Corasick pass.
type matcher struct {
	ac       *ahocorasick.Matcher
	patterns []string
}

// newMatcher expects normalized patterns. A matcher with no patterns never matches.
func newMatcher(patterns []string) *matcher {
	m := &matcher{patterns: patterns}
	if len(patterns) > 0 {
		m.ac = ahocorasick.NewStringMatcher(patterns)
	}
	return m
}

// match returns the distinct indexes of the patterns found in text, ascending.
// MatchThreadSafe keeps a shared matcher usable from concurrent scorers.
func (m *matcher) match(text string) []int {
	if m == nil || m.ac == nil {
		return nil
	}

	hits := m.ac.MatchThreadSafe([]byte(text))
	if len(hits) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(hits))
	out := make([]int, 0, len(hits))
	for _, idx := range hits {
		if idx < 0 || idx >= len(m.patterns) {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// DomainPatterns holds the compiled category-specific patterns of one domain. Build it once per
// domain and reuse it for all of that domain's candidates. The zero value matches nothing.
type DomainPatterns struct {
	Category string
	m        *matcher
}

// NewDomainPatterns compiles the category patterns of a domain.
func NewDomainPatterns(category string, patterns []string) DomainPatterns {
	return DomainPatterns{Category: category, m: newMatcher(normalizePatterns(patterns))}
}

// Patterns returns the normalized patterns.
func (d DomainPatterns) Patterns() []string {
	if d.m == nil {
		return nil
	}
	return append([]string(nil), d.m.patterns...)
}
