package capture

import (
	"math"
	"math/rand"
	"testing"
)

func TestEnemy_ReflectsAtRightBoundary(t *testing.T) {
	const width, height = 10.0, 10.0
	e := Enemy{X: width - enemyRadius, Y: 5, VX: 0.3, VY: 0, Radius: enemyRadius}
	b := e.Advance(width, height, 1)
	if !b.X {
		t.Fatal("expected an X bounce at the right wall")
	}
	if e.VX >= 0 {
		t.Fatalf("vx=%f, want negative after right-wall bounce", e.VX)
	}
	if e.X < 0 || e.X > width {
		t.Fatalf("x=%f escaped [0,%f]", e.X, width)
	}
	// Next tick moves it away from the wall.
	prev := e.X
	e.Advance(width, height, 1)
	if e.X >= prev {
		t.Fatalf("enemy stuck at wall: x %f -> %f", prev, e.X)
	}
}

func TestEnemy_ReflectsAtLeftAndTop(t *testing.T) {
	e := Enemy{X: 0.6, Y: 0.6, VX: -0.5, VY: -0.5, Radius: enemyRadius}
	b := e.Advance(10, 10, 1)
	if !b.X || !b.Y {
		t.Fatalf("expected both axes to bounce, got %+v", b)
	}
	if e.VX <= 0 || e.VY <= 0 {
		t.Fatalf("velocity should point inward, got (%f,%f)", e.VX, e.VY)
	}
	if e.X != enemyRadius || e.Y != enemyRadius {
		t.Fatalf("position should clamp to radius, got (%f,%f)", e.X, e.Y)
	}
}

func TestEnemy_SpeedFactorScalesMotion(t *testing.T) {
	e := Enemy{X: 5, Y: 5, VX: 0.2, VY: -0.1, Radius: enemyRadius}
	e.Advance(10, 10, 2)
	if math.Abs(e.X-5.4) > 1e-9 || math.Abs(e.Y-4.8) > 1e-9 {
		t.Fatalf("position=(%f,%f), want (5.4,4.8)", e.X, e.Y)
	}
}

func TestEnemy_NeverEscapesLongRun(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	enemies := SpawnEnemies(rng, 12, 40, 30)
	for tick := 0; tick < 5000; tick++ {
		for i := range enemies {
			e := &enemies[i]
			e.Advance(40, 30, 3.5)
			if e.X < 0 || e.X > 40 || e.Y < 0 || e.Y > 30 {
				t.Fatalf("tick %d enemy %d escaped: (%f,%f)", tick, i, e.X, e.Y)
			}
		}
	}
}

func TestSpawnEnemies_InsideInteriorWithSpeedRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	enemies := SpawnEnemies(rng, 50, 20, 15)
	if len(enemies) != 50 {
		t.Fatalf("spawned %d, want 50", len(enemies))
	}
	for i, e := range enemies {
		if e.X < 1 || e.X > 19 || e.Y < 1 || e.Y > 14 {
			t.Fatalf("enemy %d spawned outside the interior: (%f,%f)", i, e.X, e.Y)
		}
		for _, v := range []float64{e.VX, e.VY} {
			if v < 0 {
				v = -v
			}
			if v < baseEnemyVel || v >= 2*baseEnemyVel {
				t.Fatalf("enemy %d velocity component %f outside [%f,%f)", i, v, baseEnemyVel, 2*baseEnemyVel)
			}
		}
	}
}
