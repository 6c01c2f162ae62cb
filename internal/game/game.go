package game

import (
	"fmt"
	"image/color"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/cutfield/internal/capture"
	"github.com/Garsondee/cutfield/internal/level"
)

// borderWidth is the pixel gap between the window edge and the field.
const borderWidth = 24

// cellPx is the on-screen size of one grid cell.
const cellPx = 10

// restartDelay is how long the game-over screen stays up, in frames.
const restartDelay = 120

// statusFrames is how long a transient HUD message stays up.
const statusFrames = 180

// reportEntries is how many log lines go into a copied report.
const reportEntries = 40

// simSpeeds are the selectable sim speed multipliers.
var simSpeeds = []float64{0, 0.5, 1, 2, 4}

// Game is the Ebiten front-end. It owns the session and is the only caller of
// Tick; drawing works from the snapshot taken after each update.
type Game struct {
	width  int
	height int
	fieldW int // field width in pixels
	fieldH int // field height in pixels
	offX   int // pixel offset from window left to field left
	offY   int // pixel offset from window top to field top

	session *capture.Session
	snap    capture.Snapshot
	panel   *EventPanel
	logSeen int // session log entries already copied to the panel

	// intent is the narrow input slot: the last direction pressed, consumed by
	// the next sim tick.
	intent capture.Direction

	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	showHUD     bool
	status      string
	statusTicks int
	restartIn   int // frames left on the game-over screen
	inspector   Inspector

	// restartSession rebuilds the session. If it fails the game halts and
	// the sim stops ticking.
	restartSession func() error
	halted         error

	background *ebiten.Image // nil when the level image failed to load
	maskImg    *ebiten.Image // one pixel per cell, scaled up on draw
	maskPix    []byte
	face       text.Face
}

// New builds the front-end for one level.
func New(cfg level.Config, opts ...capture.Option) (*Game, error) {
	s, err := capture.NewSession(cfg, opts...)
	if err != nil {
		return nil, err
	}
	snap := s.Snapshot()
	g := &Game{
		fieldW:   snap.Cols * cellPx,
		fieldH:   snap.Rows * cellPx,
		offX:     borderWidth,
		offY:     borderWidth,
		session:  s,
		snap:     snap,
		panel:    NewEventPanel(),
		simSpeed: 1.0,
		showHUD:  true,
		maskImg:  ebiten.NewImage(snap.Cols, snap.Rows),
		maskPix:  make([]byte, 4*snap.Cols*snap.Rows),
		face:     newHUDFace(),
	}
	g.restartSession = s.Restart
	g.width = borderWidth + g.fieldW + borderWidth + logPanelWidth
	g.height = borderWidth + g.fieldH + borderWidth

	bg, err := loadBackground(cfg.Image)
	if err != nil {
		log.Printf("background: %v (drawing plain field)", err)
	}
	g.background = bg
	g.refresh()
	return g, nil
}

// WindowSize returns the window size the game lays out for.
func (g *Game) WindowSize() (int, int) { return g.width, g.height }

func (g *Game) Update() error {
	// Input is handled every frame regardless of sim speed.
	g.handleInput()

	if g.statusTicks > 0 {
		g.statusTicks--
		if g.statusTicks == 0 {
			g.status = ""
		}
	}

	if g.halted != nil {
		return nil
	}
	if g.session.Over() != nil {
		g.countdownRestart()
		return nil
	}

	if g.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		intent := g.intent
		g.intent = capture.DirNone
		if over := g.session.Tick(intent); over != nil {
			g.restartIn = restartDelay
			g.tickAccum = 0
			break
		}
	}
	g.refresh()
	return nil
}

// refresh takes the render snapshot and tails the session log into the panel.
func (g *Game) refresh() {
	g.snap = g.session.Snapshot()
	sl := g.session.Log()
	g.panel.AddLog(sl.Since(g.logSeen))
	g.logSeen = sl.Len()
}

// countdownRestart runs the game-over screen down and restarts at zero.
func (g *Game) countdownRestart() {
	g.restartIn--
	if g.restartIn <= 0 {
		g.restart()
	}
}

// restart is the game-over policy: replay the same level from scratch. A
// failed rebuild is logged once and halts the game.
func (g *Game) restart() {
	if g.halted != nil {
		return
	}
	if err := g.restartSession(); err != nil {
		g.halted = fmt.Errorf("restart: %w", err)
		log.Print(g.halted)
		return
	}
	g.logSeen = 0
	g.intent = capture.DirNone
	g.restartIn = 0
	g.tickAccum = 0
	g.refresh()
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTicks = statusFrames
}

// copyReport puts the session report on the system clipboard.
func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.session.Report(reportEntries)); err != nil {
		log.Printf("clipboard: %v", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus("report copied to clipboard")
}

// directionKeys maps steering keys to intents. Arrows and WASD both steer.
var directionKeys = []struct {
	key ebiten.Key
	dir capture.Direction
}{
	{ebiten.KeyArrowUp, capture.DirUp},
	{ebiten.KeyW, capture.DirUp},
	{ebiten.KeyArrowDown, capture.DirDown},
	{ebiten.KeyS, capture.DirDown},
	{ebiten.KeyArrowLeft, capture.DirLeft},
	{ebiten.KeyA, capture.DirLeft},
	{ebiten.KeyArrowRight, capture.DirRight},
	{ebiten.KeyD, capture.DirRight},
}

// intentFromKeys returns the last steering key in table order for which
// pressed is true, or DirNone.
func intentFromKeys(pressed func(ebiten.Key) bool) capture.Direction {
	d := capture.DirNone
	for _, k := range directionKeys {
		if pressed(k.key) {
			d = k.dir
		}
	}
	return d
}

// slowerSpeed returns the next lower sim speed.
func slowerSpeed(cur float64) float64 {
	for i, s := range simSpeeds {
		if s >= cur && i > 0 {
			return simSpeeds[i-1]
		}
	}
	return cur
}

// fasterSpeed returns the next higher sim speed.
func fasterSpeed(cur float64) float64 {
	for _, s := range simSpeeds {
		if s > cur {
			return s
		}
	}
	return cur
}

// handleInput processes steering and edge-triggered toggles.
func (g *Game) handleInput() {
	if d := intentFromKeys(inpututil.IsKeyJustPressed); d != capture.DirNone {
		g.intent = d
	}

	// P=pause/resume, ,=slower, .=faster.
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.simSpeed = slowerSpeed(g.simSpeed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.simSpeed = fasterSpeed(g.simSpeed)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
		if g.halted == nil {
			g.setStatus("restarted")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleInspectorClick(ebiten.CursorPosition())
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background outside the field.
	screen.Fill(color.RGBA{R: 8, G: 9, B: 12, A: 255})

	ox, oy := float32(g.offX), float32(g.offY)
	fw, fh := float32(g.fieldW), float32(g.fieldH)

	// Claimed ground reveals the level image.
	if g.background != nil {
		b := g.background.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(g.fieldW)/float64(b.Dx()), float64(g.fieldH)/float64(b.Dy()))
		op.GeoM.Translate(float64(g.offX), float64(g.offY))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(g.background, op)
	} else {
		vector.FillRect(screen, ox, oy, fw, fh, colornames.Steelblue, false)
	}

	// Open ground is masked out, one mask pixel per cell.
	writeMask(g.maskPix, g.snap.Cells)
	g.maskImg.WritePixels(g.maskPix)
	mop := &ebiten.DrawImageOptions{}
	mop.GeoM.Scale(cellPx, cellPx)
	mop.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.maskImg, mop)

	g.drawTrail(screen)
	g.drawPlayer(screen)
	g.drawEnemies(screen)
	g.drawInspector(screen)

	// Field frame.
	vector.StrokeRect(screen, ox-1, oy-1, fw+2, fh+2, 2.0, colornames.White, false)

	logX := g.offX + g.fieldW + g.offX
	g.panel.Draw(screen, g.face, logX, g.height)
	g.drawHUD(screen)

	if g.session.Over() != nil && g.halted == nil {
		g.drawGameOver(screen)
	}
}

// cellCentre returns the screen position of a cell centre.
func (g *Game) cellCentre(c capture.Cell) (float32, float32) {
	x, y := c.Centre()
	return g.fieldPoint(x, y)
}

// fieldPoint converts continuous field units to screen pixels.
func (g *Game) fieldPoint(x, y float64) (float32, float32) {
	return float32(g.offX) + float32(x*cellPx), float32(g.offY) + float32(y*cellPx)
}

func (g *Game) drawTrail(screen *ebiten.Image) {
	if !g.snap.Cutting || len(g.snap.Trail) == 0 {
		return
	}
	first := g.snap.Trail[0]
	px, py := g.cellCentre(first)
	for _, c := range g.snap.Trail[1:] {
		x, y := g.cellCentre(c)
		vector.StrokeLine(screen, px, py, x, y, 2.0, colornames.White, false)
		px, py = x, y
	}
	for _, c := range g.snap.Trail {
		x, y := g.cellCentre(c)
		vector.FillRect(screen, x-1, y-1, 2, 2, colornames.White, false)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	x, y := g.cellCentre(g.snap.Player)
	vector.FillCircle(screen, x, y, cellPx*0.5, colornames.Lime, true)
}

func (g *Game) drawEnemies(screen *ebiten.Image) {
	for _, e := range g.snap.Enemies {
		x, y := g.fieldPoint(e.X, e.Y)
		vector.FillCircle(screen, x, y, float32(e.Radius*cellPx), colornames.Red, true)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Title returns the window title for the current level.
func (g *Game) Title() string {
	return fmt.Sprintf("cutfield - %s", g.session.Config().ID)
}
