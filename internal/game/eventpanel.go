package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/cutfield/internal/capture"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 14
)

// PanelEntry is a single line in the event panel.
type PanelEntry struct {
	Tick     int
	Category string
	Message  string
}

// EventPanel is a ring buffer of recent engine events rendered on-screen.
type EventPanel struct {
	entries []PanelEntry
	head    int
	count   int
}

// NewEventPanel creates an event panel with a fixed capacity.
func NewEventPanel() *EventPanel {
	return &EventPanel{
		entries: make([]PanelEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (p *EventPanel) Add(tick int, category, msg string) {
	p.entries[p.head] = PanelEntry{
		Tick:     tick,
		Category: category,
		Message:  msg,
	}
	p.head = (p.head + 1) % logMaxEntries
	if p.count < logMaxEntries {
		p.count++
	}
}

// AddLog copies engine log entries into the panel.
func (p *EventPanel) AddLog(entries []capture.LogEntry) {
	for _, e := range entries {
		p.Add(e.Tick, e.Category, fmt.Sprintf("%s %s", e.Key, e.Value))
	}
}

// Recent returns entries in chronological order (oldest first).
func (p *EventPanel) Recent() []PanelEntry {
	result := make([]PanelEntry, p.count)
	for i := 0; i < p.count; i++ {
		idx := (p.head - p.count + i + logMaxEntries) % logMaxEntries
		result[i] = p.entries[idx]
	}
	return result
}

// categoryColor maps an event category to its marker colour.
func categoryColor(cat string) color.RGBA {
	switch cat {
	case capture.CatClaim:
		return colornames.Limegreen
	case capture.CatTrail:
		return colornames.Whitesmoke
	case capture.CatSession:
		return colornames.Orangered
	case capture.CatPlayer:
		return colornames.Gold
	default:
		return colornames.Slategray
	}
}

// Draw renders the panel on the right side of the screen.
func (p *EventPanel) Draw(screen *ebiten.Image, face text.Face, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 18, color.RGBA{R: 20, G: 26, B: 36, A: 255}, false)
	drawText(screen, face, "EVENTS", panelX+8, 3, colornames.White)
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+logPanelWidth), 18, 1.0, color.RGBA{R: 50, G: 70, B: 100, A: 200}, false)

	entries := p.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 26) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3

	y := 22
	for i, e := range visible {
		isRecent := i >= len(visible)-recent
		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 36, B: 48, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, categoryColor(e.Category), false)

		textCol := color.RGBA{R: 150, G: 156, B: 170, A: 255}
		if isRecent {
			textCol = colornames.White
		}
		line := fmt.Sprintf("%5d %s", e.Tick, e.Message)
		drawText(screen, face, line, panelX+12, y, textCol)
		y += logLineHeight
	}
}
