package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Greater(t, c.Len(), 20)
	assert.Empty(t, c.Warnings(), "built-in catalog should load cleanly")

	wa, ok := c.Lookup("WhatsApp")
	require.True(t, ok)
	assert.Equal(t, "com.whatsapp", wa.PackageID)
	assert.Equal(t, "https://play.google.com/store/apps/details?id=com.whatsapp", wa.StoreURL)
	assert.Contains(t, wa.BrandColors, RGB{R: 37, G: 211, B: 102})
	assert.Contains(t, wa.Aliases, "ватсап")
	assert.Equal(t, 0, wa.Order)
}

func TestDefault_UniqueNames(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, e := range c.Entries() {
		key := strings.ToLower(e.Name)
		assert.False(t, seen[key], "duplicate name %s", e.Name)
		seen[key] = true
	}
}

func TestParse_DropsMalformedEntries(t *testing.T) {
	doc := `
[[app]]
name = "Alpha"
package = "com.alpha"
brand_colors = ["#112233", "not-a-color"]

[[app]]
package = "com.nameless"

[[app]]
name = "alpha"
package = "com.alpha.dup"

[[app]]
name = "  Beta  "
store_url = "https://example.com/beta"
`
	c, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "Alpha", c.At(0).Name)
	assert.Equal(t, "Beta", c.At(1).Name)
	assert.Equal(t, 1, c.At(1).Order)
	assert.Equal(t, []RGB{{R: 0x11, G: 0x22, B: 0x33}}, c.At(0).BrandColors)
	assert.Equal(t, "https://example.com/beta", c.At(1).StoreURL)

	warnings := c.Warnings()
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "not-a-color")
	assert.Contains(t, warnings[1], "missing canonical name")
	assert.Contains(t, warnings[2], "duplicate canonical name")
}

func TestParse_EmptyCatalog(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no entries", ""},
		{"only nameless entries", "[[app]]\npackage = \"com.x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.True(t, errors.Is(err, ErrEmptyCatalog), "got %v", err)
		})
	}
}

func TestParse_InvalidTOML(t *testing.T) {
	_, err := Parse(strings.NewReader("[[app]\nname ="))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyCatalog))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[app]]\nname = \"Solo\"\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	c, err := New([]Entry{{Name: "Google Maps"}})
	require.NoError(t, err)

	e, ok := c.Lookup("  google maps ")
	require.True(t, ok)
	assert.Equal(t, "Google Maps", e.Name)

	_, ok = c.Lookup("Maps")
	assert.False(t, ok)
}

func TestPopular(t *testing.T) {
	c, err := New([]Entry{
		{Name: "C", Popularity: 2},
		{Name: "Unranked"},
		{Name: "A", Popularity: 1},
		{Name: "B", Popularity: 2},
	})
	require.NoError(t, err)

	var names []string
	for _, e := range c.Popular() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"A", "C", "B"}, names)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c, err := New([]Entry{{Name: "Only"}})
	require.NoError(t, err)

	entries := c.Entries()
	entries[0].Name = "Changed"

	assert.Equal(t, "Only", c.At(0).Name)
}

func TestNew_CopiesInputSlices(t *testing.T) {
	aliases := []string{"one"}
	c, err := New([]Entry{{Name: "Only", Aliases: aliases}})
	require.NoError(t, err)

	aliases[0] = "mutated"
	assert.Equal(t, []string{"one"}, c.At(0).Aliases)
}

func TestEntry_Summary(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	e, ok := cat.Lookup("WhatsApp")
	require.True(t, ok)
	s := e.Summary()

	assert.Equal(t, "WhatsApp", s.Name)
	assert.Equal(t, "com.whatsapp", s.PackageID)
	assert.Equal(t, []string{"#25D366", "#075E54", "#128C7E"}, s.BrandColors)
	assert.Contains(t, s.Aliases, "ватсап")
	assert.Len(t, cat.Summaries(), cat.Len())
}
