package capture

import (
	"fmt"
	"math"
)

// trailHalfWidth is the trail's collision half-width in cell units.
const trailHalfWidth = 0.5

// DefaultCollisionThreshold is the combined enemy and trail radius.
const DefaultCollisionThreshold = enemyRadius + trailHalfWidth

// GameOver is the terminal signal raised when an enemy touches the live trail.
// It is an expected outcome, not an error.
type GameOver struct {
	Tick     int
	Enemy    int     // index into the session's enemy list
	Cell     Cell    // trail cell that was touched
	Distance float64 // enemy centre to trail cell centre
}

func (g *GameOver) String() string {
	return fmt.Sprintf("enemy %d hit trail at (%d,%d) on tick %d (d=%.2f)",
		g.Enemy, g.Cell.Col, g.Cell.Row, g.Tick, g.Distance)
}

// CheckCollisions returns a GameOver if any enemy is closer than threshold to
// any live trail cell centre. It is a no-op while the tracker is idle.
func CheckCollisions(t *Tracker, enemies []Enemy, threshold float64) *GameOver {
	if !t.Cutting() {
		return nil
	}
	for i := range enemies {
		e := &enemies[i]
		for _, c := range t.trail {
			cx, cy := c.Centre()
			d := math.Hypot(cx-e.X, cy-e.Y)
			if d < threshold {
				return &GameOver{Enemy: i, Cell: c, Distance: d}
			}
		}
	}
	return nil
}
