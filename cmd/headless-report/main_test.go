package main

import (
	"math/rand"
	"testing"

	"github.com/Garsondee/cutfield/internal/capture"
	"github.com/Garsondee/cutfield/internal/level"
)

func TestSummarise(t *testing.T) {
	all := []runStats{
		{seed: 1, cuts: 4, gained: 100, claimed: 0.40, firstCutTick: 30, gameOverTick: -1},
		{seed: 2, cuts: 2, gained: 50, claimed: 0.60, firstCutTick: 50, gameOverTick: 200},
		{seed: 3, cuts: 0, gained: 0, claimed: 0.20, firstCutTick: -1, gameOverTick: 90},
	}
	ag := summarise(all)
	if ag.runs != 3 || ag.overCount != 2 {
		t.Fatalf("expected runs=3 overs=2, got runs=%d overs=%d", ag.runs, ag.overCount)
	}
	if ag.avgCuts != 2 || ag.avgGained != 50 {
		t.Fatalf("expected avg cuts=2 gained=50, got cuts=%.1f gained=%.1f", ag.avgCuts, ag.avgGained)
	}
	if ag.bestSeed != 2 {
		t.Fatalf("expected best seed 2, got %d", ag.bestSeed)
	}
	if len(ag.firstCutTick) != 2 {
		t.Fatalf("runs without a cut should be excluded, got %v", ag.firstCutTick)
	}
}

func TestMedianTickString(t *testing.T) {
	if got := medianTickString(nil); got != "n/a" {
		t.Fatalf("empty median=%q", got)
	}
	if got := medianTickString([]int{9, 1, 5}); got != "5" {
		t.Fatalf("odd median=%q, want 5", got)
	}
	if got := medianTickString([]int{4, 1}); got != "2.5" {
		t.Fatalf("even median=%q, want 2.5", got)
	}
}

func TestAutopilot_NeverReversesWhileMoving(t *testing.T) {
	cfg := level.Config{ID: "pilot", PlayerSpeed: 1, EnemySpeed: 1}
	s, err := capture.NewSession(cfg, capture.WithFieldSize(30, 20), capture.WithNoEnemies())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	p := &autopilot{rng: rand.New(rand.NewSource(7)), turnEvery: 1}
	prev := capture.DirNone
	for i := 0; i < 500; i++ {
		d := p.next(s)
		moving := s.Player().Heading != capture.DirNone
		if moving && prev != capture.DirNone && d == opposite(prev) {
			t.Fatalf("tick %d: pilot reversed %s -> %s", i, prev, d)
		}
		if d != capture.DirNone {
			prev = d
		}
		s.Tick(d)
	}
}

func TestRunAutopilot_Deterministic(t *testing.T) {
	cfg, err := level.Default().Find("level1")
	if err != nil {
		t.Fatalf("level1: %v", err)
	}
	rc := runConfig{ticks: 800, turnEvery: 10}
	_, a, err := runAutopilot(cfg, rc, 1, 99)
	if err != nil {
		t.Fatalf("run a: %v", err)
	}
	_, b, err := runAutopilot(cfg, rc, 1, 99)
	if err != nil {
		t.Fatalf("run b: %v", err)
	}
	if a != b {
		t.Fatalf("same seed should reproduce the run:\n%+v\n%+v", a, b)
	}
	t.Logf("seed 99: cuts=%d gained=%d claimed=%.1f%% over=%d", a.cuts, a.gained, a.claimed*100, a.gameOverTick)
	if a.gameOverTick < 0 && a.ticks != 800 {
		t.Fatalf("a surviving run should use every tick, got %d", a.ticks)
	}
	if a.claimed < 0 || a.claimed > 1 {
		t.Fatalf("claimed fraction out of range: %v", a.claimed)
	}
	if a.targetTick != -1 {
		t.Fatalf("no target set, targetTick=%d", a.targetTick)
	}
}

func TestRunAutopilot_StopsAtTarget(t *testing.T) {
	cfg := level.Config{ID: "calm", PlayerSpeed: 1, EnemySpeed: 1}
	rc := runConfig{ticks: 20000, turnEvery: 6, target: 0.02}
	s, rs, err := runAutopilot(cfg, rc, 1, 3)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	t.Logf("target reached at tick %d, claimed=%.1f%% cuts=%d", rs.targetTick, rs.claimed*100, rs.cuts)
	if rs.targetTick < 0 {
		t.Fatalf("zero-enemy run should reach 2%% claimed in %d ticks", rc.ticks)
	}
	if rs.targetTick != s.TickCount() || rs.claimed < rc.target {
		t.Fatalf("run should stop on the tick the target is met: target=%d ticks=%d claimed=%v",
			rs.targetTick, s.TickCount(), rs.claimed)
	}
	if rs.firstCutTick < 0 || rs.firstCutTick > rs.targetTick || rs.largestCut <= 0 {
		t.Fatalf("claim stats inconsistent: %+v", rs)
	}
}

func TestRunAutopilot_ThresholdOverride(t *testing.T) {
	cfg := level.Config{ID: "crowded", PlayerSpeed: 1, EnemySpeed: 1, Enemies: 4}
	base := runConfig{ticks: 3000, turnEvery: 8}
	wide := base
	wide.threshold = 200 // longer than the field diagonal: any live trail is hit at once

	_, rs, err := runAutopilot(cfg, wide, 1, 5)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rs.gameOverTick < 0 {
		t.Fatal("a field-wide threshold should end the run on the first cut")
	}
	if rs.cuts != 0 {
		t.Fatalf("no cut can close before the first hit, cuts=%d", rs.cuts)
	}
}
