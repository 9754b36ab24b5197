// Package namematch compares a claimant's business name with the name printed
// on a certificate.
//
// Both names are normalized the same way before comparison: Unicode NFKC and
// case folding, punctuation handling, whitespace collapsing and removal of a
// configured set of honorific prefixes and legal-form suffixes. Matching is
// symmetric and Normalize is idempotent.
package namematch

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	platformstrings "sadapurne/pkg/platform/strings"
)

// Method names the rule that decided a match.
type Method string

const (
	MethodExact       Method = "exact"
	MethodTokenSubset Method = "token_subset"
	MethodNone        Method = "none"
)

// Config is the affix allow-list and token threshold.
type Config struct {
	Prefixes       []string `toml:"prefixes"`
	Suffixes       []string `toml:"suffixes"`
	MinTokenLength int      `toml:"min_token_length"`
}

// DefaultConfig strips "Mr." and "M/s" from the front and "Pvt Ltd" from the back.
func DefaultConfig() Config {
	return Config{
		Prefixes:       []string{"Mr.", "M/s"},
		Suffixes:       []string{"Pvt Ltd"},
		MinTokenLength: 2,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.MinTokenLength < 1 {
		return fmt.Errorf("min_token_length must be at least 1, got %d", c.MinTokenLength)
	}
	for _, a := range slices.Concat(c.Prefixes, c.Suffixes) {
		if len(tokenize(a)) == 0 {
			return fmt.Errorf("affix %q is empty after normalization", a)
		}
	}
	return nil
}

// Result reports the decision together with both normalized names.
type Result struct {
	Matched  bool   `json:"matched"`
	Method   Method `json:"method"`
	Claimed  string `json:"claimed_normalized"`
	Document string `json:"document_normalized"`
}

// Matcher is safe for concurrent use.
type Matcher struct {
	prefixes       [][]string
	suffixes       [][]string
	minTokenLength int
}

// New builds a Matcher. Affixes are normalized once here.
func New(cfg Config) *Matcher {
	m := &Matcher{minTokenLength: max(cfg.MinTokenLength, 1)}
	for _, p := range platformstrings.DedupeAndTrimFold(cfg.Prefixes) {
		if t := tokenize(p); len(t) > 0 {
			m.prefixes = append(m.prefixes, t)
		}
	}
	for _, s := range platformstrings.DedupeAndTrimFold(cfg.Suffixes) {
		if t := tokenize(s); len(t) > 0 {
			m.suffixes = append(m.suffixes, t)
		}
	}
	return m
}

// Normalize returns the comparison form of name, or "" if nothing identifying remains.
func (m *Matcher) Normalize(name string) string {
	return strings.Join(m.stripAffixes(tokenize(name)), " ")
}

// Match compares the claimed name with the document name.
func (m *Matcher) Match(claimed, document string) Result {
	c := m.stripAffixes(tokenize(claimed))
	d := m.stripAffixes(tokenize(document))
	res := Result{
		Method:   MethodNone,
		Claimed:  strings.Join(c, " "),
		Document: strings.Join(d, " "),
	}
	if len(c) == 0 || len(d) == 0 {
		return res
	}
	if res.Claimed == res.Document {
		res.Matched, res.Method = true, MethodExact
		return res
	}
	if m.tokenSubset(c, d) {
		res.Matched, res.Method = true, MethodTokenSubset
	}
	return res
}

// tokenSubset holds when one token set contains the other and they share at
// least one token of minTokenLength runes or more.
func (m *Matcher) tokenSubset(a, b []string) bool {
	sa, sb := toSet(a), toSet(b)
	if !isSubset(sa, sb) && !isSubset(sb, sa) {
		return false
	}
	for t := range sa {
		if _, ok := sb[t]; ok && len([]rune(t)) >= m.minTokenLength {
			return true
		}
	}
	return false
}

func (m *Matcher) stripAffixes(tokens []string) []string {
	for {
		stripped := false
		for _, p := range m.prefixes {
			if hasPrefix(tokens, p) {
				tokens = tokens[len(p):]
				stripped = true
			}
		}
		for _, s := range m.suffixes {
			if hasSuffix(tokens, s) {
				tokens = tokens[:len(tokens)-len(s)]
				stripped = true
			}
		}
		if !stripped {
			return tokens
		}
	}
}

// tokenize applies Unicode and punctuation normalization and splits on whitespace.
func tokenize(s string) []string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	s = norm.NFKC.String(s)
	s = strings.Map(mapRune, s)
	return strings.Fields(s)
}

func mapRune(r rune) rune {
	switch r {
	case '.', '\'', '\u2019', '/':
		return -1
	}
	if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) {
		return ' '
	}
	return r
}

func hasPrefix(tokens, prefix []string) bool {
	return len(tokens) >= len(prefix) && slices.Equal(tokens[:len(prefix)], prefix)
}

func hasSuffix(tokens, suffix []string) bool {
	return len(tokens) >= len(suffix) && slices.Equal(tokens[len(tokens)-len(suffix):], suffix)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func isSubset(a, b map[string]struct{}) bool {
	for t := range a {
		if _, ok := b[t]; !ok {
			return false
		}
	}
	return true
}
