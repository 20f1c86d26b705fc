package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"acme", "Carlos Reyes", "Big Box Holdings", "a"} {
		assert.Equal(t, 1.0, Similarity(s, s), "input %q", s)
	}
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "anything"))
	assert.Equal(t, 0.0, Similarity("anything", ""))
	assert.Equal(t, 0.0, Similarity("", ""))
	// normalizes to empty
	assert.Equal(t, 0.0, Similarity("&&&", "acme"))
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Carlos Reyes", "carlosreyeszumba"},
		{"Acme Inc", "Acme Corporation"},
		{"RingCentral", "ring central communications"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "pair %v", p)
	}
}

func TestSimilarityNormalizesFirst(t *testing.T) {
	// suffix differences disappear before comparison
	assert.Equal(t, 1.0, Similarity("Acme Inc", "acme"))
	assert.Equal(t, 1.0, Similarity("ACME, LLC", "Acme Corp"))
}

func TestSimilarityMatchingBlocksRatio(t *testing.T) {
	// "carlos reyes" (12) vs "carlosreyeszumba" (16): blocks "carlos" (6)
	// and "reyes" (5) match, so the ratio is 2*11/28.
	got := Similarity("Carlos Reyes", "carlosreyeszumba")
	assert.InDelta(t, 22.0/28.0, got, 1e-9)

	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}
