package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "ACME", "acme"},
		{"strips inc with space", "Acme Inc", "acme"},
		{"strips suffix with dot", "Acme.Inc", "acme"},
		{"strips suffix with comma", "Acme,Inc", "acme"},
		{"strips suffix with dash", "Acme-Inc", "acme"},
		{"longest suffix wins", "Acme Corporation", "acme"},
		{"only one suffix removed", "Acme Holdings Inc", "acme holdings"},
		{"suffix in the middle stays", "Co Op Services", "co op services"},
		{"punctuation becomes space", "Acme & Sons, Ltd.", "acme sons ltd"},
		{"collapses whitespace", "  Acme   Widgets  ", "acme widgets"},
		{"digits survive", "Area 51 LLC", "area 51"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeStripsOneSuffixPerCall(t *testing.T) {
	// One suffix per call: stacked suffixes peel off one at a time, so the
	// output of one call is not always a fixed point of the next.
	first := Normalize("Acme Holdings Inc")
	assert.Equal(t, "acme holdings", first)
	assert.Equal(t, "acme", Normalize(first))
}

func TestNormalizeFixedPoints(t *testing.T) {
	// Names without stacked suffixes normalize to a stable form.
	inputs := []string{
		"", "Acme Inc", "Carlos Reyes", "ACME-CORP",
		"Big Box Holdings", "a b c", "Ümlaut GmbH & Co",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
