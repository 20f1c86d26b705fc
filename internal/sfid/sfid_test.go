package sfid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo18(t *testing.T) {
	t.Run("produces 18 characters preserving the original 15", func(t *testing.T) {
		id := "001xx000003DGg2"
		out := To18(id)

		assert.Len(t, out, 18)
		assert.Equal(t, id, out[:15])
	})

	t.Run("checksum is deterministic", func(t *testing.T) {
		id := "001xx000003DGg2"
		assert.Equal(t, To18(id), To18(id))
	})

	t.Run("uppercase positions change the suffix", func(t *testing.T) {
		a := To18("001xx000003DGg2")
		b := To18("001XX000003DGg2")
		assert.Equal(t, a[:15], "001xx000003DGg2")
		assert.NotEqual(t, a[15:], b[15:])
	})

	t.Run("non-15-character input passes through", func(t *testing.T) {
		assert.Equal(t, "abc", To18("abc"))
		already := To18("001xx000003DGg2")
		assert.Equal(t, already, To18(already))
	})
}

func TestTo15(t *testing.T) {
	id15 := "001xx000003DGg2"
	id18 := To18(id15)

	assert.Equal(t, id15, To15(id18))
	assert.Equal(t, id15, To15(id15))
	assert.Equal(t, "xyz", To15("xyz"))
}

func TestSameEntity(t *testing.T) {
	id15 := "001xx000003DGg2"
	id18 := To18(id15)

	assert.True(t, SameEntity(id15, id15))
	assert.True(t, SameEntity(id15, id18))
	assert.True(t, SameEntity(id18, id15))
	assert.True(t, SameEntity(" "+id18+" ", id15))

	assert.False(t, SameEntity(id15, "001xx000003DGg3"))
	assert.False(t, SameEntity("", id15))
	assert.False(t, SameEntity(id15, ""))
	assert.False(t, SameEntity("", ""))
}
