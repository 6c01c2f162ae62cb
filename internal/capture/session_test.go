package capture

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/Garsondee/cutfield/internal/level"
)

// dumpLog prints the session's event log to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, s *Session) {
	t.Helper()
	if s.Log().Len() == 0 {
		t.Log("(no log entries)")
		return
	}
	t.Log("\n" + s.Log().Dump())
}

func testLevel(enemies int) level.Config {
	return level.Config{ID: "test", Image: "", PlayerSpeed: 1, EnemySpeed: 1, Enemies: enemies}
}

func newTestSession(t *testing.T, cfg level.Config, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(cfg, opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// walkL drives the 10x10 scenario cut: up column 1, right along row 2, down column 5.
func walkL(s *Session) *GameOver {
	if over := s.Walk(DirUp, 7); over != nil {
		return over
	}
	if over := s.Walk(DirRight, 4); over != nil {
		return over
	}
	return s.Walk(DirDown, 7)
}

// --- Scenario: L-shaped cut on a 10x10 field ---

func TestScenario_LCutCapturesEnclosedRectangle(t *testing.T) {
	s := newTestSession(t, testLevel(0), WithFieldSize(10, 10), WithPlayerStart(1, 9))

	if over := s.Walk(DirUp, 1); over != nil {
		t.Fatalf("unexpected game over: %s", over)
	}
	if !s.Cutting() || s.Player().Pos != (Cell{1, 8}) {
		t.Fatalf("stepping onto (1,8) should start a cut, pos=%v cutting=%v", s.Player().Pos, s.Cutting())
	}
	s.Walk(DirUp, 6)
	s.Walk(DirRight, 4)
	s.Walk(DirDown, 6)
	if !s.Cutting() || s.Cuts() != 0 {
		t.Fatal("cut should still be open one cell above the border")
	}
	s.Walk(DirDown, 1)
	dumpLog(t, s)

	if s.Cutting() {
		t.Fatal("reaching the bottom border should close the cut")
	}
	if s.Cuts() != 1 || s.CellsGained() != 35 {
		t.Fatalf("cuts=%d gained=%d, want 1 and 35", s.Cuts(), s.CellsGained())
	}
	for row := 2; row <= 9; row++ {
		for col := 1; col <= 5; col++ {
			if s.grid.State(col, row) != CellClaimed {
				t.Fatalf("cell (%d,%d) inside the cut should be claimed", col, row)
			}
		}
	}
	if open := s.grid.Count(CellOpen); open != 29 {
		t.Fatalf("open cells=%d, want 29 (larger outer area stays open)", open)
	}
	claims := s.Log().Filter(CatClaim, "cells")
	if len(claims) != 1 || claims[0].NumVal != 35 {
		t.Fatalf("expected one claim entry of 35 cells, got %v", claims)
	}
}

// --- Scenario: the pocket holding an enemy stays open ---

func TestScenario_EnemyPocketStaysOpen(t *testing.T) {
	s := newTestSession(t, testLevel(0),
		WithFieldSize(10, 10),
		WithPlayerStart(1, 9),
		WithEnemy(3.5, 5.5, 0, 0),
	)
	if over := walkL(s); over != nil {
		t.Fatalf("unexpected game over: %s", over)
	}
	dumpLog(t, s)
	if s.grid.State(3, 5) != CellOpen {
		t.Fatal("enemy pocket should stay open")
	}
	if s.grid.State(8, 8) != CellClaimed || s.grid.State(1, 1) != CellClaimed {
		t.Fatal("enemy-free side should be captured")
	}
	if open := s.grid.Count(CellOpen); open != 18 {
		t.Fatalf("open cells=%d, want 18", open)
	}
}

// --- Scenario: zero enemies never end the game ---

func TestScenario_ZeroEnemiesNeverGameOver(t *testing.T) {
	s := newTestSession(t, testLevel(0), WithSeed(99))
	rng := rand.New(rand.NewSource(99))
	dirs := []Direction{DirUp, DirDown, DirLeft, DirRight}
	intent := DirUp
	maxTrail := 0
	for tick := 0; tick < 20000; tick++ {
		if tick%7 == 0 {
			intent = dirs[rng.Intn(len(dirs))]
		}
		if over := s.Tick(intent); over != nil {
			t.Fatalf("tick %d: game over with no enemies: %s", tick, over)
		}
		if n := s.tracker.Len(); n > maxTrail {
			maxTrail = n
		}
	}
	t.Logf("cuts=%d claimed=%.1f%% longest trail=%d", s.Cuts(), s.ClaimedFraction()*100, maxTrail)
	if maxTrail == 0 {
		t.Fatal("random pilot never cut; the scenario exercised nothing")
	}
}

// --- Scenario: trail hugging the boundary does not close ---

func TestScenario_TrailAlongBoundaryStaysCutting(t *testing.T) {
	s := newTestSession(t, testLevel(0), WithFieldSize(10, 10), WithPlayerStart(1, 9))
	s.Walk(DirUp, 8)    // (1,1), one cell inside the top border
	s.Walk(DirRight, 6) // runs beside the border along row 1
	if !s.Cutting() {
		t.Fatal("trail beside the border must stay cutting")
	}
	if s.Cuts() != 0 || s.grid.Count(CellOpen) != 64 {
		t.Fatalf("no classification expected, cuts=%d open=%d", s.Cuts(), s.grid.Count(CellOpen))
	}
}

func TestSession_BlockedAtEdge(t *testing.T) {
	s := newTestSession(t, testLevel(0), WithFieldSize(10, 10))
	if s.Player().Pos != (Cell{0, 9}) {
		t.Fatalf("default start=%v, want bottom-left (0,9)", s.Player().Pos)
	}
	s.Tick(DirLeft)
	if s.Player().Pos != (Cell{0, 9}) || s.Player().Heading != DirNone {
		t.Fatalf("move off-grid should be refused and stop the player, got %+v", s.Player())
	}
	if len(s.Log().Filter(CatPlayer, "blocked")) != 1 {
		t.Fatal("blocked move should be logged")
	}
}

func TestSession_ClosingTickSkipsCollision(t *testing.T) {
	// Enemy parked on the border cell where the cut closes.
	s := newTestSession(t, testLevel(0),
		WithFieldSize(10, 10),
		WithPlayerStart(1, 9),
		WithEnemy(5.5, 9.5, 0, 0),
	)
	if over := walkL(s); over != nil {
		dumpLog(t, s)
		t.Fatalf("closing onto claimed ground must clear the trail before the collision check: %s", over)
	}
	if s.Cuts() != 1 {
		t.Fatalf("cuts=%d, want 1", s.Cuts())
	}
}

func TestSession_EnemyOnTrailEndsGame(t *testing.T) {
	s := newTestSession(t, testLevel(0),
		WithFieldSize(10, 10),
		WithPlayerStart(1, 9),
		WithEnemy(1.5, 5.5, 0, 0),
	)
	over := s.Walk(DirUp, 7)
	dumpLog(t, s)
	if over == nil {
		t.Fatal("expected game over when the trail runs through an enemy")
	}
	if over.Cell != (Cell{1, 5}) || over.Enemy != 0 {
		t.Fatalf("unexpected signal %+v", over)
	}
	tick := s.TickCount()
	if again := s.Tick(DirUp); again != over {
		t.Fatal("ticks after game over should return the same signal")
	}
	if s.TickCount() != tick {
		t.Fatal("ticks after game over must not advance state")
	}
	if len(s.Log().Filter(CatSession, "game_over")) != 1 {
		t.Fatal("game over should be logged once")
	}
}

func TestSession_PlayerSpeedIsTicksPerMove(t *testing.T) {
	cfg := testLevel(0)
	cfg.PlayerSpeed = 3
	s := newTestSession(t, cfg, WithFieldSize(10, 10), WithPlayerStart(1, 9))
	s.Tick(DirUp)
	s.Tick(DirNone)
	if s.Player().Pos != (Cell{1, 9}) {
		t.Fatal("player should not move before the third tick")
	}
	s.Tick(DirNone)
	if s.Player().Pos != (Cell{1, 8}) {
		t.Fatalf("player should move on the third tick, at %v", s.Player().Pos)
	}
}

func TestNewSession_Errors(t *testing.T) {
	_, err := NewSession(level.Config{ID: "bad", PlayerSpeed: 0})
	if !errors.Is(err, level.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewSession(testLevel(1), WithFieldSize(2, 2)); !errors.Is(err, ErrFieldTooSmall) {
		t.Fatalf("expected ErrFieldTooSmall, got %v", err)
	}
	if _, err := NewSession(testLevel(1), WithFieldSize(10, 10), WithPlayerStart(4, 4)); !errors.Is(err, ErrBadStart) {
		t.Fatalf("expected ErrBadStart, got %v", err)
	}
	if _, err := NewSession(testLevel(1), WithPlayerStart(-1, 0)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSession_SpawnsLevelEnemies(t *testing.T) {
	s := newTestSession(t, testLevel(4), WithSeed(5))
	if n := len(s.Snapshot().Enemies); n != 4 {
		t.Fatalf("spawned %d enemies, want 4", n)
	}
	s = newTestSession(t, testLevel(4), WithNoEnemies())
	if n := len(s.Snapshot().Enemies); n != 0 {
		t.Fatalf("WithNoEnemies left %d enemies", n)
	}
}

func TestSession_DeterministicForSeed(t *testing.T) {
	a := newTestSession(t, testLevel(3), WithSeed(42))
	b := newTestSession(t, testLevel(3), WithSeed(42))
	for i := 0; i < 300; i++ {
		d := []Direction{DirUp, DirRight, DirDown, DirLeft}[(i/20)%4]
		oa, ob := a.Tick(d), b.Tick(d)
		if (oa == nil) != (ob == nil) {
			t.Fatalf("tick %d: sessions diverged on game over", i)
		}
	}
	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa.Enemies {
		if sa.Enemies[i] != sb.Enemies[i] {
			t.Fatalf("enemy %d diverged: %+v vs %+v", i, sa.Enemies[i], sb.Enemies[i])
		}
	}
	if sa.Player != sb.Player || sa.Claimed != sb.Claimed {
		t.Fatal("player or grid diverged for the same seed and inputs")
	}
}

func TestSession_SnapshotIsolation(t *testing.T) {
	s := newTestSession(t, testLevel(1), WithFieldSize(10, 10), WithPlayerStart(1, 9), WithEnemy(8, 8, 0, 0))
	s.Walk(DirUp, 2)
	snap := s.Snapshot()
	if !snap.Cutting || len(snap.Trail) != 2 {
		t.Fatalf("snapshot should show the live cut, got cutting=%v trail=%v", snap.Cutting, snap.Trail)
	}
	if !snap.OnTrail()[Cell{1, 7}] {
		t.Fatal("OnTrail should contain (1,7)")
	}
	snap.Cells[5*10+5] = CellClaimed
	snap.Trail[0] = Cell{0, 0}
	snap.Enemies[0].X = 0
	if s.grid.State(5, 5) != CellOpen || s.tracker.Trail()[0] != (Cell{1, 8}) || s.enemies[0].X != 8 {
		t.Fatal("mutating a snapshot leaked into the session")
	}
	if snap.At(-1, 3) != CellClaimed {
		t.Fatal("snapshot off-grid reads should be claimed")
	}
}

func TestSession_RestartKeepsOptions(t *testing.T) {
	s := newTestSession(t, testLevel(0),
		WithFieldSize(10, 10),
		WithPlayerStart(1, 9),
		WithEnemy(1.5, 5.5, 0, 0),
	)
	first := s.ID()
	if s.Walk(DirUp, 7) == nil {
		t.Fatal("setup: expected game over")
	}
	if err := s.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if s.Over() != nil || s.TickCount() != 0 || s.ClaimedFraction() != 0 {
		t.Fatal("restart should produce a fresh session")
	}
	if s.ID() == first {
		t.Fatal("restart should assign a new session id")
	}
	if s.Player().Pos != (Cell{1, 9}) || len(s.Snapshot().Enemies) != 1 {
		t.Fatal("restart should keep the original options")
	}
	if s.Walk(DirUp, 7) == nil {
		t.Fatal("restarted session should replay the same layout")
	}
}

func TestSession_Report(t *testing.T) {
	s := newTestSession(t, testLevel(0), WithFieldSize(10, 10), WithPlayerStart(1, 9))
	walkL(s)
	r := s.Report(5)
	for _, want := range []string{"level=test", "cuts=1", "gained=35", s.ID().String()} {
		if !strings.Contains(r, want) {
			t.Fatalf("report missing %q:\n%s", want, r)
		}
	}
}

func TestSession_CollisionThresholdOverride(t *testing.T) {
	opts := []Option{
		WithFieldSize(10, 10),
		WithPlayerStart(1, 9),
		WithEnemy(3.5, 5.5, 0, 0),
	}
	s := newTestSession(t, testLevel(0), opts...)
	if over := s.Walk(DirUp, 7); over != nil {
		dumpLog(t, s)
		t.Fatalf("enemy two cells away should not hit at the default threshold: %s", over)
	}

	wide := newTestSession(t, testLevel(0), append(opts, WithCollisionThreshold(2.5))...)
	over := wide.Walk(DirUp, 7)
	dumpLog(t, wide)
	if over == nil {
		t.Fatal("expected game over with a 2.5 cell threshold")
	}
	if over.Cell != (Cell{1, 6}) {
		t.Fatalf("first hit at %v, want (1,6)", over.Cell)
	}
}

func TestSession_RunUntil(t *testing.T) {
	up := func(*Session) Direction { return DirUp }
	cut := func(s *Session) bool { return s.Cuts() >= 1 }

	s := newTestSession(t, testLevel(0), WithFieldSize(10, 10), WithPlayerStart(1, 9))
	if tick := s.RunUntil(up, cut, 100); tick != 9 {
		dumpLog(t, s)
		t.Fatalf("cut closed at tick %d, want 9", tick)
	}

	s = newTestSession(t, testLevel(0), WithFieldSize(10, 10), WithPlayerStart(1, 9))
	if tick := s.RunUntil(up, cut, 5); tick != -1 {
		t.Fatalf("tick budget exhausted should give -1, got %d", tick)
	}

	s = newTestSession(t, testLevel(0), WithFieldSize(10, 10), WithPlayerStart(1, 9), WithEnemy(1.5, 5.5, 0, 0))
	if tick := s.RunUntil(up, cut, 100); tick != -1 || s.Over() == nil {
		t.Fatalf("game over should stop the run with -1, got %d", tick)
	}
}

func TestSession_EnemyOnTrailAtClosureDoesNotEndGame(t *testing.T) {
	// The enemy slides left along row 4 and lands on trail cell (1,4) at the
	// end of tick 8, one tick before the cut closes at (1,0).
	s := newTestSession(t, testLevel(0),
		WithFieldSize(10, 10),
		WithPlayerStart(1, 9),
		WithEnemy(9.5, 4.5, -1, 0),
	)
	up := func(*Session) Direction { return DirUp }
	tick := s.RunUntil(up, func(s *Session) bool { return s.Cuts() >= 1 }, 20)
	dumpLog(t, s)
	if tick != 9 || s.Over() != nil {
		t.Fatalf("cut should close on tick 9 without game over, tick=%d over=%v", tick, s.Over())
	}
	snap := s.Snapshot()
	if snap.At(1, 4) != CellClaimed {
		t.Fatal("the trail cell under the enemy should be claimed")
	}
	if s.CellsGained() != 8 {
		t.Fatalf("gained=%d, want 8 (trail only)", s.CellsGained())
	}
}
