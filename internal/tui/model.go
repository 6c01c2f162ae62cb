// Package tui is a terminal front-end for the capture engine.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Garsondee/cutfield/internal/capture"
)

// FrameInterval is the wall-clock time between sim ticks.
const FrameInterval = time.Second / 30

// restartFrames is how many ticks the game-over banner stays up.
const restartFrames = 60

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type styles struct {
	open    lipgloss.Style
	claimed lipgloss.Style
	trail   lipgloss.Style
	player  lipgloss.Style
	enemy   lipgloss.Style
	title   lipgloss.Style
	over    lipgloss.Style
}

func newStyles() styles {
	return styles{
		open:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		claimed: lipgloss.NewStyle().Foreground(lipgloss.Color("31")),
		trail:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		player:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		enemy:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		over:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// Model is the bubbletea model. Like the Ebiten front-end it is the only
// caller of Tick and keeps a one-slot input intent.
type Model struct {
	session   *capture.Session
	intent    capture.Direction
	paused    bool
	restartIn int
	styles    styles

	// restartSession rebuilds the session; a failure halts the model.
	restartSession func() error
	halted         error
}

// New wraps a session for terminal play.
func New(s *capture.Session) *Model {
	return &Model{session: s, styles: newStyles(), restartSession: s.Restart}
}

func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

var keyDirections = map[string]capture.Direction{
	"up": capture.DirUp, "w": capture.DirUp, "k": capture.DirUp,
	"down": capture.DirDown, "s": capture.DirDown, "j": capture.DirDown,
	"left": capture.DirLeft, "a": capture.DirLeft, "h": capture.DirLeft,
	"right": capture.DirRight, "d": capture.DirRight, "l": capture.DirRight,
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if d, ok := keyDirections[key]; ok {
			m.intent = d
			return m, nil
		}
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
		case "r":
			m.restart()
		}
		return m, nil
	case tickMsg:
		m.step()
		return m, tickCmd()
	}
	return m, nil
}

// step runs one sim tick, or counts down the game-over banner.
func (m *Model) step() {
	if m.halted != nil {
		return
	}
	if m.session.Over() != nil {
		m.restartIn--
		if m.restartIn <= 0 {
			m.restart()
		}
		return
	}
	if m.paused {
		return
	}
	intent := m.intent
	m.intent = capture.DirNone
	if over := m.session.Tick(intent); over != nil {
		m.restartIn = restartFrames
	}
}

func (m *Model) restart() {
	if m.halted != nil {
		return
	}
	if err := m.restartSession(); err != nil {
		m.halted = fmt.Errorf("restart: %w", err)
		return
	}
	m.intent = capture.DirNone
	m.restartIn = 0
}

func (m *Model) View() string {
	snap := m.session.Snapshot()
	var b strings.Builder

	cfg := m.session.Config()
	b.WriteString(m.styles.title.Render(fmt.Sprintf("cutfield %s", cfg.ID)))
	fmt.Fprintf(&b, "  claimed %.1f%%  cuts %d  tick %d", snap.Claimed*100, m.session.Cuts(), snap.Tick)
	if m.paused {
		b.WriteString("  [paused]")
	}
	b.WriteByte('\n')

	b.WriteString(renderField(snap, m.styles))

	if m.halted != nil {
		b.WriteString(m.styles.over.Render("STOPPED"))
		fmt.Fprintf(&b, "  %v  (q to quit)\n", m.halted)
	} else if snap.Over != nil {
		b.WriteString(m.styles.over.Render("GAME OVER"))
		fmt.Fprintf(&b, "  %s\n", snap.Over)
	} else {
		b.WriteString("arrows/wasd/hjkl steer  p pause  r restart  q quit\n")
	}
	return b.String()
}

// fieldGlyphs builds the raw glyph matrix for a snapshot, one rune per cell.
func fieldGlyphs(snap capture.Snapshot) [][]rune {
	onTrail := snap.OnTrail()
	rows := make([][]rune, snap.Rows)
	for row := range rows {
		line := make([]rune, snap.Cols)
		for col := range line {
			switch {
			case onTrail[capture.Cell{Col: col, Row: row}]:
				line[col] = '+'
			case snap.At(col, row) == capture.CellClaimed:
				line[col] = '#'
			default:
				line[col] = '.'
			}
		}
		rows[row] = line
	}
	for _, e := range snap.Enemies {
		c := e.Cell()
		if c.Row >= 0 && c.Row < snap.Rows && c.Col >= 0 && c.Col < snap.Cols {
			rows[c.Row][c.Col] = 'o'
		}
	}
	p := snap.Player
	if p.Row >= 0 && p.Row < snap.Rows && p.Col >= 0 && p.Col < snap.Cols {
		rows[p.Row][p.Col] = '@'
	}
	return rows
}

// renderField draws the snapshot as styled text, one glyph per cell.
func renderField(snap capture.Snapshot, st styles) string {
	var b strings.Builder
	for _, line := range fieldGlyphs(snap) {
		for _, r := range line {
			var s lipgloss.Style
			switch r {
			case '#':
				s = st.claimed
			case '+':
				s = st.trail
			case 'o':
				s = st.enemy
			case '@':
				s = st.player
			default:
				s = st.open
			}
			b.WriteString(s.Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
