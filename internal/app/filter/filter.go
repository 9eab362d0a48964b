/*
Package filter implements the content filter applied to user-supplied text before fan-out.

The filter masks whole-word occurrences of any configured banned term with an
equal-length run of asterisks. Matching is case-insensitive and longest-match-first,
so a banned phrase always wins over a banned substring of it.
*/
package filter

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaskChar is the character each masked rune is replaced with.
const MaskChar = "*"

// DefaultTerms is the built-in banned-term list the relay ships with.
// It can be replaced wholesale via the BANNED_WORDS configuration.
var DefaultTerms = []string{
	"abuse", "trafficking", "prostitution", "escorting", "heroin", "cocaine",
	"methamphetamine", "fentanyl", "drugs", "weapons", "firearms", "explosives",
	"bombmaking", "terrorism", "extremism", "radicalization", "threats", "kidnapping",
	"arson", "fraud", "scam", "phishing", "ransomware", "malware", "hacking", "doxxing",
	"forgery", "counterfeit", "laundering", "bribery", "grooming", "rob them", "killing",
	"kill", "murder", "trafficking (people)", "escort",
}

// Filter holds the precompiled banned-term pattern. It is immutable after
// construction and safe for concurrent use.
type Filter struct {
	pattern *regexp.Regexp
}

// New builds a Filter from the given banned-term list.
// Terms are sorted longest-first before being joined into a single alternation, so
// the regexp engine prefers the longer phrase when terms overlap. Each match site is
// anchored on word boundaries and compared case-insensitively.
func New(terms []string) *Filter {
	if len(terms) == 0 {
		return &Filter{}
	}

	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	escaped := make([]string, len(sorted))
	for i, term := range sorted {
		escaped[i] = regexp.QuoteMeta(term)
	}

	pattern := regexp.MustCompile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)

	return &Filter{pattern: pattern}
}

// Sanitize returns text with every banned-term occurrence replaced by an
// equal-length asterisk sequence. Text without matches is returned unchanged.
func (f *Filter) Sanitize(text string) string {
	if f.pattern == nil || text == "" {
		return text
	}

	return f.pattern.ReplaceAllStringFunc(text, func(match string) string {
		return strings.Repeat(MaskChar, utf8.RuneCountInString(match))
	})
}
