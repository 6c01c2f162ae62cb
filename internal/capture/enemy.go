package capture

import (
	"math"
	"math/rand"
)

const (
	enemyRadius = 0.5 // cell units
	// baseEnemyVel is the slowest velocity component at enemySpeed 1.
	// Spawned components fall in [baseEnemyVel, 2*baseEnemyVel).
	baseEnemyVel = 0.25
)

// Enemy is a bouncing hazard with sub-cell position. Enemies ignore the grid
// and each other.
type Enemy struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Bounce records which axes reflected during one Advance.
type Bounce struct {
	X, Y bool
}

// Advance moves the enemy by velocity*speed inside [0,width]×[0,height] and
// reflects off the walls. Position is clamped so an enemy can never settle
// on or beyond a wall.
func (e *Enemy) Advance(width, height, speed float64) Bounce {
	e.X += e.VX * speed
	e.Y += e.VY * speed
	var b Bounce
	e.X, e.VX, b.X = reflect(e.X, e.VX, e.Radius, width)
	e.Y, e.VY, b.Y = reflect(e.Y, e.VY, e.Radius, height)
	return b
}

// reflect clamps p into [r, limit-r] and points v away from the wall touched.
func reflect(p, v, r, limit float64) (float64, float64, bool) {
	lo, hi := r, limit-r
	if hi < lo {
		// Field narrower than the enemy: pin to the centre line.
		return limit / 2, v, false
	}
	switch {
	case p <= lo:
		return lo, math.Abs(v), true
	case p >= hi:
		return hi, -math.Abs(v), true
	}
	return p, v, false
}

// SpawnEnemies places n enemies at random interior positions with random
// diagonal headings.
func SpawnEnemies(rng *rand.Rand, n, cols, rows int) []Enemy {
	out := make([]Enemy, 0, n)
	w, h := float64(cols), float64(rows)
	for i := 0; i < n; i++ {
		e := Enemy{
			X:      1 + enemyRadius + rng.Float64()*math.Max(0, w-2-2*enemyRadius),
			Y:      1 + enemyRadius + rng.Float64()*math.Max(0, h-2-2*enemyRadius),
			VX:     baseEnemyVel * (1 + rng.Float64()),
			VY:     baseEnemyVel * (1 + rng.Float64()),
			Radius: enemyRadius,
		}
		if rng.Intn(2) == 0 {
			e.VX = -e.VX
		}
		if rng.Intn(2) == 0 {
			e.VY = -e.VY
		}
		out = append(out, e)
	}
	return out
}

// Cell returns the grid cell under the enemy centre.
func (e *Enemy) Cell() Cell {
	return Cell{Col: int(math.Floor(e.X)), Row: int(math.Floor(e.Y))}
}
