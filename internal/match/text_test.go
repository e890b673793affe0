package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/app-finder-mcp/internal/catalog"
	"github.com/ironsheep/app-finder-mcp/internal/index"
)

func defaultIndex(t *testing.T) *index.Index {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return index.Build(cat)
}

func customIndex(t *testing.T, entries ...catalog.Entry) *index.Index {
	t.Helper()
	cat, err := catalog.New(entries)
	require.NoError(t, err)
	return index.Build(cat)
}

func byName(cands []Candidate) map[string]Candidate {
	m := make(map[string]Candidate, len(cands))
	for _, c := range cands {
		m[c.Entry.Name] = c
	}
	return m
}

func names(cands []Candidate) []string {
	var out []string
	for _, c := range cands {
		out = append(out, c.Entry.Name)
	}
	return out
}

func TestText_EmptyInput(t *testing.T) {
	idx := defaultIndex(t)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		assert.Empty(t, Text(text, idx, TextOptions{}), "%q", text)
	}
}

func TestText_ExactCanonicalNames(t *testing.T) {
	idx := defaultIndex(t)

	cands := Text("WhatsApp Telegram YouTube", idx, TextOptions{})

	assert.ElementsMatch(t, []string{"WhatsApp", "Telegram", "YouTube"}, names(cands))
	for _, c := range cands {
		assert.Equal(t, StrategyFullText, c.Strategy, c.Entry.Name)
		assert.Equal(t, SourceText, c.Source)
		assert.GreaterOrEqual(t, c.Confidence, 90, c.Entry.Name)
		assert.LessOrEqual(t, c.Confidence, 95, c.Entry.Name)
	}
}

func TestText_AliasBelowCanonical(t *testing.T) {
	idx := defaultIndex(t)

	alias := byName(Text("ватсап", idx, TextOptions{}))
	canonical := byName(Text("whatsapp", idx, TextOptions{}))

	require.Contains(t, alias, "WhatsApp")
	require.Contains(t, canonical, "WhatsApp")
	assert.Equal(t, StrategyFullText, alias["WhatsApp"].Strategy)
	assert.Equal(t, "ватсап", alias["WhatsApp"].Matched)
	assert.Equal(t, 90, alias["WhatsApp"].Confidence)
	assert.Equal(t, 95, canonical["WhatsApp"].Confidence)
	assert.Less(t, alias["WhatsApp"].Confidence, canonical["WhatsApp"].Confidence)
}

func TestText_FullTextWinsOverPartial(t *testing.T) {
	idx := defaultIndex(t)

	got := byName(Text("Google Maps", idx, TextOptions{}))

	require.Contains(t, got, "Google Maps")
	assert.Equal(t, StrategyFullText, got["Google Maps"].Strategy)
	assert.Equal(t, 95, got["Google Maps"].Confidence)

	// Other Google apps share only the "google" word.
	require.Contains(t, got, "Google Photos")
	assert.Equal(t, StrategyPartial, got["Google Photos"].Strategy)
	assert.Equal(t, 80, got["Google Photos"].Confidence)
}

func TestText_PartialMultiWord(t *testing.T) {
	idx := defaultIndex(t)

	got := byName(Text("Google Navigation Maps", idx, TextOptions{}))

	require.Contains(t, got, "Google Maps")
	c := got["Google Maps"]
	assert.Equal(t, StrategyPartial, c.Strategy)
	assert.Equal(t, 90, c.Confidence)
	assert.Equal(t, 2, c.Hits)
	assert.Contains(t, c.Evidence, "2 of 2 words")
}

func TestText_LineStrategyForSymbolKeys(t *testing.T) {
	idx := defaultIndex(t)

	got := byName(Text("Home\nDisney+\nSettings", idx, TextOptions{}))

	require.Contains(t, got, "Disney+")
	c := got["Disney+"]
	assert.Equal(t, StrategyLine, c.Strategy)
	assert.Equal(t, 85, c.Confidence)
	assert.Contains(t, c.Evidence, "line 2")
}

func TestText_Keyword(t *testing.T) {
	idx := defaultIndex(t)

	got := Text("whatsap", idx, TextOptions{})

	require.Len(t, got, 1)
	assert.Equal(t, "WhatsApp", got[0].Entry.Name)
	assert.Equal(t, StrategyKeyword, got[0].Strategy)
	assert.Equal(t, 60+7*3, got[0].Confidence)
}

func TestText_KeywordCappedAt95(t *testing.T) {
	idx := customIndex(t, catalog.Entry{Name: "Zoom", Keywords: []string{"videoconferencing"}})

	got := Text("videoconferencing", idx, TextOptions{})

	require.Len(t, got, 1)
	assert.Equal(t, 95, got[0].Confidence)
}

func TestText_ShortKeysNeedWordBoundaries(t *testing.T) {
	idx := customIndex(t,
		catalog.Entry{Name: "Telegram", Aliases: []string{"TG"}},
		catalog.Entry{Name: "Gmail", Keywords: []string{"gm"}},
	)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"alias alone", "TG", []string{"Telegram"}},
		{"alias between words", "open tg now", []string{"Telegram"}},
		{"alias inside word", "stgx", nil},
		{"keyword alone", "gm inbox", []string{"Gmail"}},
		{"keyword inside word", "gmx", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Text(tt.text, idx, TextOptions{})))
		})
	}
}

func TestText_FullTextBonuses(t *testing.T) {
	idx := customIndex(t, catalog.Entry{Name: "Snapchat", Aliases: []string{"chat"}})

	tests := []struct {
		name string
		text string
		want int
	}{
		{"single late occurrence", "zzzzzzzzzz zzzzzzzzzz chat", 80 + 5},
		{"two late occurrences", "zzzzzzzzzz zzzzzzzzzz chat chat", 80 + 10},
		{"early occurrence capped for alias", "chat zzzzzzzzzz zzzzzzzzzz", 90},
		{"canonical capped at 95", "snapchat snapchat snapchat snapchat", 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.text, idx, TextOptions{})
			require.Len(t, got, 1)
			assert.Equal(t, StrategyFullText, got[0].Strategy)
			assert.Equal(t, tt.want, got[0].Confidence)
		})
	}
}

func TestText_FullWidthInput(t *testing.T) {
	idx := defaultIndex(t)

	got := byName(Text("ＷｈａｔｓＡｐｐ", idx, TextOptions{}))

	require.Contains(t, got, "WhatsApp")
	assert.Equal(t, StrategyFullText, got["WhatsApp"].Strategy)
	assert.Contains(t, got["WhatsApp"].Evidence, "WhatsApp")
}

func TestText_Fuzzy(t *testing.T) {
	idx := defaultIndex(t)

	assert.Empty(t, Text("Telegran", idx, TextOptions{}))

	got := Text("Telegran", idx, TextOptions{Fuzzy: true})
	require.Len(t, got, 1)
	assert.Equal(t, "Telegram", got[0].Entry.Name)
	assert.Equal(t, StrategyFuzzy, got[0].Strategy)
	assert.Equal(t, 55, got[0].Confidence)
	assert.InDelta(t, 1, got[0].Distance, 0)
}

func TestFuzzyLimit(t *testing.T) {
	assert.Equal(t, 0, fuzzyLimit(4))
	assert.Equal(t, 1, fuzzyLimit(5))
	assert.Equal(t, 1, fuzzyLimit(7))
	assert.Equal(t, 2, fuzzyLimit(8))
}

func TestText_EvidenceExcerpt(t *testing.T) {
	idx := defaultIndex(t)

	got := byName(Text("Home\nWhatsApp\nTelegram", idx, TextOptions{}))

	require.Contains(t, got, "WhatsApp")
	assert.Contains(t, got["WhatsApp"].Evidence, `"Home WhatsApp Telegram"`)
	assert.NotContains(t, got["WhatsApp"].Evidence, "\n")
}

func TestExcerpt_TrimsLongContext(t *testing.T) {
	text := strings.Repeat("a", 40) + " WhatsApp " + strings.Repeat("b", 40)
	orig := []rune(text)

	got := excerpt(orig, 41, 49)

	assert.True(t, strings.HasPrefix(got, "..."), got)
	assert.True(t, strings.HasSuffix(got, "..."), got)
	assert.Contains(t, got, "WhatsApp")
	assert.Equal(t, "WhatsApp", excerpt([]rune("WhatsApp"), 0, 8))
}

func TestText_NoDuplicatesAndDeterministic(t *testing.T) {
	idx := defaultIndex(t)
	text := "WhatsApp whatsapp ватсап\nWA WhatsApp\nwhatsap Telegram TG телеграм"

	first := Text(text, idx, TextOptions{Fuzzy: true})
	second := Text(text, idx, TextOptions{Fuzzy: true})

	assert.Equal(t, first, second)
	seen := make(map[string]bool)
	for _, c := range first {
		assert.False(t, seen[c.Entry.Name], "duplicate %s", c.Entry.Name)
		seen[c.Entry.Name] = true
		assert.GreaterOrEqual(t, c.Confidence, 0)
		assert.LessOrEqual(t, c.Confidence, 100)
	}
}

func TestFindAll(t *testing.T) {
	tests := []struct {
		name string
		hay  string
		key  string
		want []int
	}{
		{"short key inside word", "aaaa", "aa", nil},
		{"long key substring", "xchatx chat", "chat", []int{1, 7}},
		{"short key boundary", "wa wax a-wa", "wa", []int{0, 9}},
		{"empty key", "abc", "", nil},
		{"key longer than hay", "ab", "abcd", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findAll([]rune(tt.hay), []rune(tt.key)))
		})
	}
}
