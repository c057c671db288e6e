package supply

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/woodpecker/game"
	"github.com/woodpecker/puzzle"
)

// DefaultLichessURL is the puzzle endpoint of the public Lichess API.
const DefaultLichessURL = "https://lichess.org/api/puzzle/"

// Lichess fetches puzzles from the Lichess API.
type Lichess struct {
	BaseURL string
	Client  *http.Client
}

func NewLichess() *Lichess {
	return &Lichess{BaseURL: DefaultLichessURL, Client: http.DefaultClient}
}

type lichessResponse struct {
	Game struct {
		PGN string `json:"pgn"`
	} `json:"game"`
	Puzzle struct {
		ID         string   `json:"id"`
		Solution   []string `json:"solution"`
		Themes     []string `json:"themes"`
		Rating     int      `json:"rating"`
		InitialPly int      `json:"initialPly"`
	} `json:"puzzle"`
}

// Fetch downloads the puzzle and replays its game up to the puzzle position.
func (l *Lichess) Fetch(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	if id == "" || strings.ContainsAny(id, "/?#") {
		return nil, errors.Errorf("invalid puzzle id %q", id)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(l.BaseURL, "/")+"/"+id, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("lichess answered %s for %s", resp.Status, id)
	}

	var r lichessResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&r); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", id)
	}
	return r.toPuzzle(id)
}

func (r *lichessResponse) toPuzzle(id string) (*puzzle.Puzzle, error) {
	// the puzzle starts after the opponent's move that follows initialPly
	pos, err := game.FromPGN(r.Game.PGN, r.Puzzle.InitialPly+1)
	if err != nil {
		return nil, errors.WithMessagef(err, "puzzle %s", id)
	}
	retVal := &puzzle.Puzzle{
		ID:          r.Puzzle.ID,
		FEN:         pos.String(),
		WhiteToMove: pos.Turn() == game.White,
		Solution:    r.Puzzle.Solution,
		Themes:      r.Puzzle.Themes,
		Rating:      r.Puzzle.Rating,
	}
	if retVal.ID == "" {
		retVal.ID = id
	}
	return retVal, nil
}
