package supply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodpecker/puzzle"
)

const textCollection = `
https://lichess.org/training/orphan

(Mate in 2)
https://lichess.org/training/aaaaa
https://lichess.org/training/bbbbb
https://example.com/not-a-puzzle

Empty Category

Forks
https://lichess.org/training/ccccc/
`

func TestParseCollectionText(t *testing.T) {
	entries, err := ParseCollection(strings.NewReader(textCollection))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{ID: "aaaaa", Theme: "Mate in 2"},
		{ID: "bbbbb", Theme: "Mate in 2"},
		{ID: "ccccc", Theme: "Forks"},
	}, entries)
	assert.Equal(t, []string{"aaaaa", "bbbbb", "ccccc"}, IDs(entries))
}

func TestParseCollectionJSON(t *testing.T) {
	in := `{"version": "1.0", "name": "woodpecker", "categories": [
		{"name": "Pins", "puzzles": [{"id": "p1"}, {"id": ""}, {"id": "p2"}]},
		{"name": "", "puzzles": [{"id": "p3"}]}
	]}`
	entries, err := ParseCollection(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{ID: "p1", Theme: "Pins"},
		{ID: "p2", Theme: "Pins"},
		{ID: "p3", Theme: puzzle.Uncategorized},
	}, entries)

	_, err = ParseCollection(strings.NewReader(`{"categories": [`))
	assert.Error(t, err)
}

func TestParseCollectionEmpty(t *testing.T) {
	entries, err := ParseCollection(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestThemeCounts(t *testing.T) {
	got := ThemeCounts([]Entry{
		{ID: "1", Theme: "Pins"},
		{ID: "2", Theme: "Forks"},
		{ID: "3", Theme: "Pins"},
		{ID: "4", Theme: "Back rank"},
	})
	assert.Equal(t, []ThemeCount{{"Pins", 2}, {"Back rank", 1}, {"Forks", 1}}, got)
}
