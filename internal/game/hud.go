package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	hudLineH = 15
	hudPadX  = 6
	hudPadY  = 4
	hudCharW = 7 // basicfont.Face7x13 advance
)

// newHUDFace wraps the fixed 7x13 bitmap font for text/v2.
func newHUDFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}

// speedLabel formats the sim speed for the HUD.
func speedLabel(speed float64) string {
	switch speed {
	case 0:
		return "PAUSED"
	case 1, 2, 4:
		return fmt.Sprintf("%.0fx", speed)
	default:
		return fmt.Sprintf("%.1fx", speed)
	}
}

// hudLines builds the status and key legend shown bottom-left.
func (g *Game) hudLines() []string {
	cfg := g.session.Config()
	lines := []string{
		fmt.Sprintf("LEVEL %s  claimed %.1f%%  cuts %d", cfg.ID, g.snap.Claimed*100, g.session.Cuts()),
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedLabel(g.simSpeed)),
	}
	if g.showHUD {
		lines = append(lines,
			"arrows/WASD = steer",
			"R = restart  C = copy report",
			"click = inspect cell",
			"[H] toggle help",
		)
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	if g.halted != nil {
		lines = append(lines, "STOPPED: "+g.halted.Error())
	}
	return lines
}

// drawHUD renders the status box in the bottom-left corner of the field.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*hudCharW + hudPadX*2)
	boxH := float32(len(lines)*hudLineH + hudPadY*2)
	bx := float32(g.offX + 6)
	by := float32(g.offY+g.fieldH) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 12, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 80, B: 120, A: 180}, false)

	for i, line := range lines {
		drawText(screen, g.face, line, int(bx)+hudPadX, int(by)+hudPadY+i*hudLineH, colornames.White)
	}
}

// drawGameOver dims the field and shows the restart countdown.
func (g *Game) drawGameOver(screen *ebiten.Image) {
	ox, oy := float32(g.offX), float32(g.offY)
	vector.FillRect(screen, ox, oy, float32(g.fieldW), float32(g.fieldH), color.RGBA{R: 40, G: 0, B: 0, A: 120}, false)
	msg := "GAME OVER"
	sub := fmt.Sprintf("restarting in %.1fs", float64(g.restartIn)/float64(ebiten.TPS()))
	cx := g.offX + g.fieldW/2
	cy := g.offY + g.fieldH/2
	drawText(screen, g.face, msg, cx-len(msg)*hudCharW/2, cy-hudLineH, colornames.Red)
	drawText(screen, g.face, sub, cx-len(sub)*hudCharW/2, cy+2, colornames.White)
}
