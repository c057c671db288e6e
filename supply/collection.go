package supply

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/woodpecker/puzzle"
)

// TrainingURL prefixes puzzle lines in a text collection.
const TrainingURL = "https://lichess.org/training/"

// Entry is one puzzle of a collection.
type Entry struct {
	ID    string
	Theme string
}

// Collection is the JSON form of a puzzle collection.
type Collection struct {
	Version    string     `json:"version"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

type Category struct {
	Name    string `json:"name"`
	Puzzles []struct {
		ID string `json:"id"`
	} `json:"puzzles"`
}

// ParseCollection reads a collection in either form. JSON is detected by a
// leading '{'. In the text form every non-empty line that is not a link
// starts a category; enclosing parentheses of the name are dropped. Other
// links and training URLs before the first category are ignored.
func ParseCollection(r io.Reader) ([]Entry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	b = bytes.TrimSpace(bytes.TrimPrefix(b, []byte("\xef\xbb\xbf")))
	if len(b) > 0 && b[0] == '{' {
		return parseJSON(bytes.NewReader(b))
	}
	return parseText(bytes.NewReader(b))
}

func parseJSON(r io.Reader) ([]Entry, error) {
	var c Collection
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decoding collection")
	}
	var retVal []Entry
	for _, cat := range c.Categories {
		for _, p := range cat.Puzzles {
			if p.ID != "" {
				retVal = append(retVal, Entry{ID: p.ID, Theme: cleanCategory(cat.Name)})
			}
		}
	}
	return retVal, nil
}

func parseText(r io.Reader) ([]Entry, error) {
	var retVal []Entry
	var theme string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "http"):
			if !strings.HasPrefix(line, TrainingURL) || theme == "" {
				continue
			}
			id := strings.TrimRight(line, "/")
			id = id[strings.LastIndexByte(id, '/')+1:]
			if i := strings.IndexAny(id, "?#"); i >= 0 {
				id = id[:i]
			}
			if id != "" {
				retVal = append(retVal, Entry{ID: id, Theme: theme})
			}
		default:
			theme = cleanCategory(line)
		}
	}
	return retVal, errors.WithStack(s.Err())
}

func cleanCategory(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "(")
	s = strings.TrimSpace(strings.TrimSuffix(s, ")"))
	if s == "" {
		return puzzle.Uncategorized
	}
	return s
}

// IDs returns the ids of entries in order.
func IDs(entries []Entry) []string {
	retVal := make([]string, len(entries))
	for i, e := range entries {
		retVal[i] = e.ID
	}
	return retVal
}

// ThemeCount is the number of puzzles of one theme.
type ThemeCount struct {
	Theme string
	Count int
}

// ThemeCounts tallies entries per theme, most frequent first.
func ThemeCounts(entries []Entry) []ThemeCount {
	m := make(map[string]int)
	for _, e := range entries {
		m[e.Theme]++
	}
	retVal := make([]ThemeCount, 0, len(m))
	for k, v := range m {
		retVal = append(retVal, ThemeCount{k, v})
	}
	sort.Slice(retVal, func(i, j int) bool {
		if retVal[i].Count != retVal[j].Count {
			return retVal[i].Count > retVal[j].Count
		}
		return retVal[i].Theme < retVal[j].Theme
	})
	return retVal
}
