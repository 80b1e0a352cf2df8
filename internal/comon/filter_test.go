package comon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Decide(t *testing.T) {
	t.Run("no filter observes everything", func(t *testing.T) {
		var f Filter
		assert.Equal(t, NoFilter, f.Kind())
		assert.True(t, f.Decide(clsidShellLink))
		assert.True(t, f.Decide(clsidTaskbar))
	})

	t.Run("including observes only the set", func(t *testing.T) {
		f := NewIncludingFilter(clsidShellLink)
		assert.True(t, f.Decide(clsidShellLink))
		assert.False(t, f.Decide(clsidTaskbar))
	})

	t.Run("excluding observes everything but the set", func(t *testing.T) {
		f := NewExcludingFilter(clsidShellLink)
		assert.False(t, f.Decide(clsidShellLink))
		assert.True(t, f.Decide(clsidTaskbar))
	})
}

func TestParseFilter(t *testing.T) {
	guid1 := clsidShellLink.String()
	guid2 := clsidTaskbar.String()

	t.Run("flag after GUIDs", func(t *testing.T) {
		f := ParseFilter([]string{guid1, guid2, "-i"})
		assert.Equal(t, IncludingFilter, f.Kind())
		assert.ElementsMatch(t, []string{guid1, guid2}, clsidStrings(f))
	})

	t.Run("flag before GUIDs", func(t *testing.T) {
		// The scan is right-to-left: the GUIDs are collected before the
		// flag is reached, so the set is identical to the flag-last
		// ordering.
		f := ParseFilter([]string{"-e", guid1, guid2})
		assert.Equal(t, ExcludingFilter, f.Kind())
		assert.ElementsMatch(t, []string{guid1, guid2}, clsidStrings(f))
	})

	t.Run("both orderings collect the same set", func(t *testing.T) {
		flagFirst := ParseFilter([]string{"-i", guid1, guid2})
		flagLast := ParseFilter([]string{guid1, guid2, "-i"})
		assert.Equal(t, flagFirst.Kind(), flagLast.Kind())
		assert.Equal(t, flagFirst.CLSIDs(), flagLast.CLSIDs())
	})

	t.Run("no flag with GUIDs defaults to including", func(t *testing.T) {
		f := ParseFilter([]string{guid1})
		assert.Equal(t, IncludingFilter, f.Kind())
		assert.True(t, f.Decide(clsidShellLink))
		assert.False(t, f.Decide(clsidTaskbar))
	})

	t.Run("no flag and no GUIDs yields no filter", func(t *testing.T) {
		assert.Equal(t, NoFilter, ParseFilter(nil).Kind())
		assert.Equal(t, NoFilter, ParseFilter([]string{}).Kind())
		assert.Equal(t, NoFilter, ParseFilter([]string{"junk", "more junk"}).Kind())
	})

	t.Run("unparseable tokens are skipped", func(t *testing.T) {
		f := ParseFilter([]string{"junk", guid1, "also-junk", "-i"})
		require.Equal(t, IncludingFilter, f.Kind())
		assert.Len(t, f.CLSIDs(), 1)
	})

	t.Run("rightmost flag wins", func(t *testing.T) {
		// The scan runs right-to-left, so with conflicting flags the
		// trailing one fixes the variant.
		f := ParseFilter([]string{guid1, "-e", guid2, "-i"})
		assert.Equal(t, IncludingFilter, f.Kind())
		assert.ElementsMatch(t, []string{guid1, guid2}, clsidStrings(f))
	})

	t.Run("flag with no GUIDs keeps the variant over an empty set", func(t *testing.T) {
		f := ParseFilter([]string{"-i"})
		assert.Equal(t, IncludingFilter, f.Kind())
		assert.False(t, f.Decide(clsidShellLink))

		f = ParseFilter([]string{"-e"})
		assert.Equal(t, ExcludingFilter, f.Kind())
		assert.True(t, f.Decide(clsidShellLink))
	})
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "none", Filter{}.String())

	f := NewIncludingFilter(clsidShellLink)
	assert.Contains(t, f.String(), "including")
	assert.Contains(t, f.String(), clsidShellLink.String())
}

func clsidStrings(f Filter) []string {
	var out []string
	for _, c := range f.CLSIDs() {
		out = append(out, c.String())
	}
	return out
}
