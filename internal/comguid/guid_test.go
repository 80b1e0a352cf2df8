package comguid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("canonical form", func(t *testing.T) {
		g, err := Parse("00000000-0000-0000-c000-000000000046")
		require.NoError(t, err)
		assert.Equal(t, "{00000000-0000-0000-C000-000000000046}", g.String())
	})

	t.Run("braced registry form", func(t *testing.T) {
		g, err := Parse("{DDA52764-5A09-4B91-B0D2-AB3A93FB7A1F}")
		require.NoError(t, err)
		assert.Equal(t, "{DDA52764-5A09-4B91-B0D2-AB3A93FB7A1F}", g.String())
	})

	t.Run("urn form", func(t *testing.T) {
		g, err := Parse("urn:uuid:dda52764-5a09-4b91-b0d2-ab3a93fb7a1f")
		require.NoError(t, err)
		assert.Equal(t, "{DDA52764-5A09-4B91-B0D2-AB3A93FB7A1F}", g.String())
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		g, err := Parse("  {DDA52764-5A09-4B91-B0D2-AB3A93FB7A1F} ")
		require.NoError(t, err)
		assert.False(t, g.IsZero())
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, text := range []string{"", "-i", "not-a-guid", "{DDA52764-5A09}"} {
			_, err := Parse(text)
			assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", text)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	// Parsing the textual rendering of a GUID yields the original value.
	texts := []string{
		"{00000000-0000-0000-C000-000000000046}",
		"{DDA52764-5A09-4B91-B0D2-AB3A93FB7A1F}",
		"{FFFFFFFF-FFFF-FFFF-FFFF-FFFFFFFFFFFF}",
	}
	for _, text := range texts {
		g, err := Parse(text)
		require.NoError(t, err)

		back, err := Parse(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, back)
		assert.Equal(t, text, back.String())
	}
}

func TestCompare(t *testing.T) {
	low := MustParse("{00000000-0000-0000-0000-000000000001}")
	high := MustParse("{00000000-0000-0000-0000-000000000002}")

	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))
	assert.Equal(t, 0, low.Compare(low))
}

func TestGUIDAsMapKey(t *testing.T) {
	a := CLSID(MustParse("{DDA52764-5A09-4B91-B0D2-AB3A93FB7A1F}"))
	b, err := ParseCLSID("dda52764-5a09-4b91-b0d2-ab3a93fb7a1f")
	require.NoError(t, err)

	set := map[CLSID]struct{}{a: {}}
	_, ok := set[b]
	assert.True(t, ok, "same value parsed from different spellings must collide")
}

func TestIsZero(t *testing.T) {
	assert.True(t, GUID{}.IsZero())
	assert.False(t, MustParse("{00000000-0000-0000-C000-000000000046}").IsZero())
}
