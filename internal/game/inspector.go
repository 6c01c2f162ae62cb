package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/cutfield/internal/capture"
)

// Inspector panel geometry, in screen pixels.
const (
	inspW     = 210
	inspPad   = 6
	inspLineH = 16
)

// Inspector holds the cell picked with the mouse.
type Inspector struct {
	selected capture.Cell
	active   bool
}

// handleInspectorClick selects the field cell under (mx, my). A click outside
// the field deselects. Returns true if a cell was hit.
func (g *Game) handleInspectorClick(mx, my int) bool {
	fx, fy := mx-g.offX, my-g.offY
	if fx < 0 || fy < 0 || fx >= g.fieldW || fy >= g.fieldH {
		g.inspector.active = false
		return false
	}
	g.inspector.selected = capture.Cell{Col: fx / cellPx, Row: fy / cellPx}
	g.inspector.active = true
	return true
}

// inspectCell describes one cell of a snapshot.
func inspectCell(snap capture.Snapshot, c capture.Cell) []string {
	state := snap.At(c.Col, c.Row).String()
	if snap.OnTrail()[c] {
		state = "trail"
	}
	lines := []string{
		fmt.Sprintf("cell (%d,%d)", c.Col, c.Row),
		"state " + state,
	}
	if snap.Player == c {
		lines = append(lines, "player here, heading "+snap.Heading.String())
	}
	cx, cy := c.Centre()
	best, bestD := -1, math.MaxFloat64
	for i, e := range snap.Enemies {
		if d := math.Hypot(e.X-cx, e.Y-cy); d < bestD {
			best, bestD = i, d
		}
	}
	if best >= 0 {
		lines = append(lines, fmt.Sprintf("nearest enemy %d at %.2f", best, bestD))
	} else {
		lines = append(lines, "no enemies")
	}
	return lines
}

func (g *Game) drawInspector(screen *ebiten.Image) {
	if !g.inspector.active {
		return
	}
	c := g.inspector.selected
	x, y := g.fieldPoint(float64(c.Col), float64(c.Row))
	vector.StrokeRect(screen, x, y, cellPx, cellPx, 1.5, color.RGBA{R: 255, G: 220, B: 60, A: 255}, false)

	lines := inspectCell(g.snap, c)
	px := g.offX + g.fieldW - inspW - inspPad
	py := g.offY + inspPad
	h := len(lines)*inspLineH + 2*inspPad
	vector.FillRect(screen, float32(px), float32(py), inspW, float32(h), color.RGBA{R: 10, G: 12, B: 16, A: 220}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, px+inspPad, py+inspPad+i*inspLineH)
	}
}
