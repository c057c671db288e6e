package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	woodpecker "github.com/woodpecker"
	"github.com/woodpecker/attempt"
	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
	"github.com/woodpecker/orient"
	"github.com/woodpecker/puzzle"
	"github.com/woodpecker/validate"
)

type keyMap struct {
	Move   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Reveal key.Binding
	Flip   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Reveal, k.Flip, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	Move:   key.NewBinding(key.WithKeys("m", ":"), key.WithHelp("m", "type a move")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Reveal: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "show solution")),
	Flip:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flip board")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type startMsg struct{}

type doneMsg struct{}

// model is the terminal front end. It is also the trainer's listener, so its
// fields change during Update only.
type model struct {
	ctx     context.Context
	trainer *woodpecker.Trainer

	board   board
	status  attempt.Status
	sound   attempt.Sound
	message string
	last    *attempt.Completion

	typing  bool
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
}

func newModel(ctx context.Context) *model {
	ti := textinput.New()
	ti.Placeholder = "e2e4"
	ti.CharLimit = 5
	ti.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		ctx:     ctx,
		board:   board{picked: move.NoSquare, check: move.NoSquare},
		input:   ti,
		spinner: sp,
		help:    help.New(),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return startMsg{} }, m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		m.trainer.Start(m.ctx)
	case taskMsg:
		msg()
	case doneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m, m.key(msg)
	}
	return m, nil
}

func (m *model) key(msg tea.KeyMsg) tea.Cmd {
	if m.typing {
		switch {
		case key.Matches(msg, keys.Submit):
			m.typing = false
			m.input.Blur()
			m.play(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return nil
		case key.Matches(msg, keys.Cancel):
			m.typing = false
			m.input.Blur()
			m.input.SetValue("")
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Move):
		m.typing = true
		return m.input.Focus()
	case key.Matches(msg, keys.Reveal):
		if err := m.trainer.Reveal(); err != nil {
			m.message = badStyle.Render(err.Error())
		}
	case key.Matches(msg, keys.Flip):
		m.board.o = m.trainer.Flip()
	}
	return nil
}

// Where the first square is drawn: below the title and inside the border.
const (
	boardTop  = 2
	boardLeft = 1
)

// mouse turns a press on a square and a release elsewhere into a drop.
func (m *model) mouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return
	}
	p := point(msg.X-boardLeft, msg.Y-boardTop, m.trainer.CellSize)
	switch msg.Action {
	case tea.MouseActionPress:
		m.board.picked = move.NoSquare
		if !m.trainer.Machine().Accepting() {
			return
		}
		sq, err := orient.PointToSquare(p, m.board.o, m.trainer.CellSize)
		if err != nil {
			return
		}
		if _, ok := m.board.pieces[sq]; ok {
			m.board.picked = sq
		}
	case tea.MouseActionRelease:
		origin := m.board.picked
		m.board.picked = move.NoSquare
		if !origin.Valid() {
			return
		}
		m.report(m.trainer.Drop(origin, p))
	}
}

func (m *model) play(s string) {
	mv, err := move.Decode(s)
	if err != nil {
		m.message = badStyle.Render(err.Error())
		return
	}
	m.report(m.trainer.Submit(mv))
}

func (m *model) report(res validate.Result, err error) {
	switch {
	case errors.Is(err, attempt.ErrNullMove):
	case errors.Is(err, attempt.ErrNotAccepting):
		m.message = statusStyle.Render("wait for your turn")
	case err != nil:
		m.message = badStyle.Render(err.Error())
	case !res.Valid:
		m.message = badStyle.Render("not the move")
	default:
		m.message = goodStyle.Render("correct")
	}
}

func (m *model) OnFrame(f attempt.Frame) {
	white, _ := puzzle.SideToMove(f.FEN)
	turn := game.Black
	if white {
		turn = game.White
	}
	m.board.pieces = f.Board
	m.board.highlight = f.Highlight()
	m.board.check = kingInCheck(f.Board, f.InCheck, turn)
	m.board.o = m.trainer.Orientation()
	m.sound = f.Sound
}

func (m *model) OnStatus(s attempt.Status) {
	if s.Epoch != m.status.Epoch {
		m.message = ""
	}
	m.status = s
}

func (m *model) OnCue(c attempt.Cue) {
	m.sound = c.Sound
	if c.Sound == attempt.FailureSound {
		fmt.Fprint(os.Stderr, "\a")
	}
}

func (m *model) OnComplete(c attempt.Completion) { m.last = &c }

func (m *model) overlay() string {
	switch m.status.Transition {
	case attempt.Loading:
		return m.spinner.View() + " loading puzzle"
	case attempt.Transitioning:
		return goodStyle.Render("solved!")
	case attempt.Resetting:
		return badStyle.Render("not quite, watch the solution")
	case attempt.AutoSolving:
		return statusStyle.Render("showing the solution")
	}
	if m.status.Setup != attempt.SetupComplete {
		return m.spinner.View() + " waiting for a puzzle"
	}
	if m.trainer.Machine().Accepting() {
		return fmt.Sprintf("%v to move", m.trainer.Puzzle().UserColor())
	}
	return statusStyle.Render("opponent is thinking")
}

func (m *model) View() string {
	var title string
	if p := m.trainer.Puzzle(); p != nil {
		title = fmt.Sprintf("%s  #%d  %s", titleStyle.Render(p.Category()), m.trainer.Served(), p.ID)
	} else {
		title = titleStyle.Render(m.trainer.Name)
	}

	lines := []string{title, m.board.View(m.trainer.CellSize), m.overlay()}
	if m.message != "" {
		lines = append(lines, m.message)
	}
	if m.sound != attempt.NoSound {
		lines = append(lines, statusStyle.Render("♪ "+m.sound.String()))
	}
	if m.last != nil {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("last: %s %v in %v", m.last.Puzzle.ID, m.last.Outcome, m.last.Duration.Round(time.Second))))
	}
	lines = append(lines, statusStyle.Render(m.trainer.Stats().Summary().String()))
	if m.typing {
		lines = append(lines, m.input.View())
	}
	lines = append(lines, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
