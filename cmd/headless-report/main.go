package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/cutfield/internal/capture"
	"github.com/Garsondee/cutfield/internal/level"
)

type runStats struct {
	runIndex int
	seed     int64

	ticks        int
	cuts         int
	gained       int
	claimed      float64
	largestCut   int
	blocked      int
	firstCutTick int
	targetTick   int
	gameOverTick int
	overCause    string
}

// runConfig holds the per-run knobs shared by every run in a batch.
type runConfig struct {
	ticks     int
	turnEvery int
	threshold float64 // 0 keeps the engine default
	target    float64 // claimed fraction that ends a run early; 0 disables
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var levelID string
	var levelsPath string
	var turnEvery int
	var threshold float64
	var target float64
	var dumpLog bool

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&levelID, "level", "level1", "level id")
	flag.StringVar(&levelsPath, "levels", "", "levels.json path (default: built-in catalogue)")
	flag.IntVar(&turnEvery, "turn-every", 12, "autopilot: mean ticks between random turns")
	flag.Float64Var(&threshold, "threshold", 0, "enemy-to-trail collision distance in cells (0 = engine default)")
	flag.Float64Var(&target, "target", 0, "stop a run once this claimed fraction is reached (0 = run all ticks)")
	flag.BoolVar(&dumpLog, "log", false, "print each run's full event log")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if turnEvery <= 0 {
		fmt.Println("error: -turn-every must be > 0")
		return
	}
	if threshold < 0 {
		fmt.Println("error: -threshold must be >= 0")
		return
	}
	if target < 0 || target > 1 {
		fmt.Println("error: -target must be in [0,1]")
		return
	}

	cat := level.Default()
	if levelsPath != "" {
		var err error
		if cat, err = level.Load(levelsPath); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}
	cfg, err := cat.Find(levelID)
	if err != nil {
		fmt.Printf("error: %v (levels: %s)\n", err, strings.Join(cat.IDs(), ","))
		return
	}

	fmt.Printf("=== Headless Capture Report ===\n")
	fmt.Printf("level=%s runs=%d ticks=%d seed_base=%d seed_step=%d turn_every=%d threshold=%g target=%g\n\n",
		cfg.ID, runs, ticks, seedBase, seedStep, turnEvery, threshold, target)

	rc := runConfig{ticks: ticks, turnEvery: turnEvery, threshold: threshold, target: target}

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		s, stats, err := runAutopilot(cfg, rc, i+1, seed)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
		if dumpLog {
			fmt.Print(s.Log().Dump())
			fmt.Println()
		}
	}

	printAggregate(all)
}

// autopilot steers at random: it keeps its heading and turns, on average,
// every turnEvery ticks. It never reverses straight back onto its own path.
type autopilot struct {
	rng       *rand.Rand
	turnEvery int
	heading   capture.Direction
}

var pilotDirections = []capture.Direction{capture.DirUp, capture.DirDown, capture.DirLeft, capture.DirRight}

func opposite(d capture.Direction) capture.Direction {
	switch d {
	case capture.DirUp:
		return capture.DirDown
	case capture.DirDown:
		return capture.DirUp
	case capture.DirLeft:
		return capture.DirRight
	case capture.DirRight:
		return capture.DirLeft
	}
	return capture.DirNone
}

func (p *autopilot) next(s *capture.Session) capture.Direction {
	stopped := s.Player().Heading == capture.DirNone
	if !stopped && p.heading != capture.DirNone && p.rng.Intn(p.turnEvery) != 0 {
		return capture.DirNone
	}
	for {
		d := pilotDirections[p.rng.Intn(len(pilotDirections))]
		if d != opposite(p.heading) || stopped {
			p.heading = d
			return d
		}
	}
}

func runAutopilot(cfg level.Config, rc runConfig, runIndex int, seed int64) (*capture.Session, runStats, error) {
	opts := []capture.Option{capture.WithSeed(seed)}
	if rc.threshold > 0 {
		opts = append(opts, capture.WithCollisionThreshold(rc.threshold))
	}
	s, err := capture.NewSession(cfg, opts...)
	if err != nil {
		return nil, runStats{}, err
	}
	pilot := &autopilot{rng: rand.New(rand.NewSource(seed ^ 0x5eed)), turnEvery: rc.turnEvery} // #nosec G404 -- autopilot only
	reached := func(s *capture.Session) bool {
		return rc.target > 0 && s.ClaimedFraction() >= rc.target
	}
	targetTick := s.RunUntil(pilot.next, reached, rc.ticks)
	rs := collectStats(s, runIndex)
	rs.targetTick = targetTick
	return s, rs, nil
}

func collectStats(s *capture.Session, runIndex int) runStats {
	l := s.Log()
	rs := runStats{
		runIndex:     runIndex,
		seed:         s.Seed(),
		ticks:        s.TickCount(),
		cuts:         s.Cuts(),
		gained:       s.CellsGained(),
		claimed:      s.ClaimedFraction(),
		largestCut:   int(l.MaxNum(capture.CatClaim, "cells")),
		blocked:      l.CountCategory(capture.CatPlayer, "blocked"),
		firstCutTick: -1,
		targetTick:   -1,
		gameOverTick: -1,
	}
	if e, ok := l.FirstOf(capture.CatClaim, "cells"); ok {
		rs.firstCutTick = e.Tick
	}
	if over := s.Over(); over != nil {
		rs.gameOverTick = over.Tick
		rs.overCause = over.String()
	}
	return rs
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("ticks=%d cuts=%d gained=%d largest_cut=%d blocked=%d\n",
		rs.ticks, rs.cuts, rs.gained, rs.largestCut, rs.blocked)
	fmt.Printf("claimed=%.1f%% first_cut=%d target=%d game_over=%d\n",
		rs.claimed*100, rs.firstCutTick, rs.targetTick, rs.gameOverTick)
	if rs.overCause != "" {
		fmt.Printf("cause: %s\n", rs.overCause)
	}
	fmt.Println()
}

type aggregate struct {
	runs         int
	avgCuts      float64
	avgGained    float64
	avgClaimed   float64
	bestClaimed  float64
	bestSeed     int64
	overCount    int
	overTicks    []int
	firstCutTick []int
	targetTicks  []int
}

func summarise(all []runStats) aggregate {
	ag := aggregate{runs: len(all)}
	totalCuts, totalGained := 0, 0
	claimedSum := 0.0
	for _, rs := range all {
		totalCuts += rs.cuts
		totalGained += rs.gained
		claimedSum += rs.claimed
		if rs.claimed > ag.bestClaimed {
			ag.bestClaimed = rs.claimed
			ag.bestSeed = rs.seed
		}
		if rs.gameOverTick >= 0 {
			ag.overCount++
			ag.overTicks = append(ag.overTicks, rs.gameOverTick)
		}
		if rs.firstCutTick >= 0 {
			ag.firstCutTick = append(ag.firstCutTick, rs.firstCutTick)
		}
		if rs.targetTick >= 0 {
			ag.targetTicks = append(ag.targetTicks, rs.targetTick)
		}
	}
	ag.avgCuts = avg(totalCuts, len(all))
	ag.avgGained = avg(totalGained, len(all))
	if len(all) > 0 {
		ag.avgClaimed = claimedSum / float64(len(all))
	}
	return ag
}

func printAggregate(all []runStats) {
	ag := summarise(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d game_overs=%d survived=%d\n", ag.runs, ag.overCount, ag.runs-ag.overCount)
	fmt.Printf("avg_per_run: cuts=%.1f gained=%.1f claimed=%.1f%%\n", ag.avgCuts, ag.avgGained, ag.avgClaimed*100)
	fmt.Printf("avg_ticks: first_cut=%s target=%s (%d runs) game_over=%s median_game_over=%s\n",
		avgTickString(ag.firstCutTick), avgTickString(ag.targetTicks), len(ag.targetTicks),
		avgTickString(ag.overTicks), medianTickString(ag.overTicks))
	if ag.bestClaimed > 0 {
		fmt.Printf("best_run: seed=%d claimed=%.1f%%\n", ag.bestSeed, ag.bestClaimed*100)
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func medianTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return fmt.Sprintf("%d", sorted[n/2])
	}
	return fmt.Sprintf("%.1f", float64(sorted[n/2-1]+sorted[n/2])/2)
}
