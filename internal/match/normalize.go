// Package match provides the text normalization, domain extraction, and
// fuzzy similarity primitives used by the relationship scorers.
package match

import "strings"

// Legal-entity suffixes stripped from company names, in priority order.
// When several patterns match, the longest one wins so "corporation" is
// removed before "corp" gets a chance to leave " oration" behind.
var businessSuffixes = []string{
	"inc", "incorporated", "corp", "corporation", "ltd", "limited",
	"llc", "llp", "company", "co", "group", "holdings", "enterprises",
}

var suffixSeparators = []string{" ", ".", ",", "-"}

// Normalize canonicalizes a company name for comparison: lowercase, at most
// one trailing legal-entity suffix removed, punctuation flattened to spaces,
// whitespace collapsed. Because a single call strips a single suffix, names
// carrying stacked suffixes ("Acme Holdings Inc") are not fixed points:
// renormalizing the output strips the next suffix. Callers must compare
// once-normalized forms, never renormalize.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	normalized := strings.ToLower(name)
	normalized = stripBusinessSuffix(normalized)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// stripBusinessSuffix removes at most one trailing legal-entity suffix,
// considering every separator variant and keeping the longest match.
func stripBusinessSuffix(name string) string {
	best := ""
	for _, suffix := range businessSuffixes {
		for _, sep := range suffixSeparators {
			pattern := sep + suffix
			if strings.HasSuffix(name, pattern) && len(pattern) > len(best) {
				best = pattern
			}
		}
	}
	return strings.TrimSuffix(name, best)
}
