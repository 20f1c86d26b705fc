package baddomain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields empty set without error", func(t *testing.T) {
		set, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("parses two-column csv with BOM and noise", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.csv")
		content := "\ufeffbad_domains,notes\ngmail.com,free mail\n\"yahoo.com\",\n,blank row\nHOTMAIL.COM\t,tabs\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 3, set.Len())
		assert.True(t, set.Contains("gmail.com"))
		assert.True(t, set.Contains("yahoo.com"))
		assert.True(t, set.Contains("hotmail.com"))
	})

	t.Run("rejects file without the expected header", func(t *testing.T) {
		_, err := parse(strings.NewReader("domains\ngmail.com\n"))
		assert.Error(t, err)
	})
}

func TestRepair(t *testing.T) {
	set := NewSet("gmail.com", "ringcentral.com", "badsite.com")

	t.Run("member returned as-is", func(t *testing.T) {
		assert.Equal(t, "gmail.com", set.Repair("gmail.com"))
	})

	t.Run("trailing garbage stripped", func(t *testing.T) {
		assert.Equal(t, "gmail.com", set.Repair("gmail.comno"))
		assert.Equal(t, "gmail.com", set.Repair("gmail.com123"))
	})

	t.Run("long garbage tld repaired through substitution", func(t *testing.T) {
		// too long for the trailing-garbage rule, caught by the
		// invalid-tld rule instead
		assert.Equal(t, "gmail.com", set.Repair("gmail.comnonono"))
	})

	t.Run("subdomain of a member collapses", func(t *testing.T) {
		assert.Equal(t, "ringcentral.com", set.Repair("test.ringcentral.com"))
		assert.Equal(t, "ringcentral.com", set.Repair("a.b.ringcentral.com"))
	})

	t.Run("invalid tld repaired against the set", func(t *testing.T) {
		assert.Equal(t, "badsite.com", set.Repair("badsite.comabc"))
		assert.Equal(t, "badsite.com", set.Repair("badsite.fakery"))
	})

	t.Run("valid short tlds never rewritten", func(t *testing.T) {
		assert.Equal(t, "badsite.io", set.Repair("badsite.io"))
		assert.Equal(t, "badsite.xyz", set.Repair("badsite.xyz"))
		assert.Equal(t, "badsite.co", set.Repair("badsite.co"))
	})

	t.Run("unknown domain unchanged", func(t *testing.T) {
		assert.Equal(t, "example.org", set.Repair("example.org"))
		assert.Equal(t, "", set.Repair(""))
	})
}

func TestRepairDeterministicWithOverlaps(t *testing.T) {
	set := NewSet("mail.example.com", "example.com")
	for i := 0; i < 50; i++ {
		assert.Equal(t, "mail.example.com", set.Repair("x.mail.example.com"))
	}
}

func TestIsBad(t *testing.T) {
	set := NewSet("gmail.com")

	assert.True(t, set.IsBad("gmail.com"))
	assert.True(t, set.IsBad("gmail.comno"))
	assert.False(t, set.IsBad("example.com"))
	assert.False(t, set.IsBad(""))

	empty := NewSet()
	assert.False(t, empty.IsBad("gmail.com"))
}
