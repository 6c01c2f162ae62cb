package capture

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/Garsondee/cutfield/internal/level"
)

// Default field size in cells.
const (
	DefaultCols = 80
	DefaultRows = 56
)

// ErrBadStart is returned when the player start is not on claimed ground.
var ErrBadStart = errors.New("player must start on claimed ground")

// Player is the cursor the user steers.
type Player struct {
	Pos         Cell
	Heading     Direction
	moveCounter int // ticks since the last move
}

// Session owns all mutable state for one level attempt. Only Tick mutates it;
// renderers read Snapshot.
type Session struct {
	id        uuid.UUID
	cfg       level.Config
	opts      []Option
	seed      int64
	rng       *rand.Rand
	cols      int
	rows      int
	threshold float64
	verbose   bool

	grid    *Grid
	player  Player
	tracker *Tracker
	enemies []Enemy
	log     *EventLog

	start       Cell
	startSet    bool
	explicit    []Enemy
	hasExplicit bool

	tick   int
	cuts   int
	gained int
	over   *GameOver
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra  optionKind = iota // field size, seed, verbose, threshold, applied first
	optEntity                   // player start, enemies, applied after the grid exists
)

// Option is a builder function applied to a Session during construction.
type Option struct {
	kind optionKind
	fn   func(*Session)
}

// WithFieldSize sets the grid dimensions in cells, border included.
func WithFieldSize(cols, rows int) Option {
	return Option{optInfra, func(s *Session) {
		s.cols = cols
		s.rows = rows
	}}
}

// WithSeed sets the RNG seed for deterministic enemy spawns.
func WithSeed(seed int64) Option {
	return Option{optInfra, func(s *Session) {
		s.seed = seed
	}}
}

// WithVerbose enables per-tick event logging.
func WithVerbose(v bool) Option {
	return Option{optInfra, func(s *Session) {
		s.verbose = v
	}}
}

// WithCollisionThreshold overrides the enemy-to-trail kill distance.
func WithCollisionThreshold(d float64) Option {
	return Option{optInfra, func(s *Session) {
		s.threshold = d
	}}
}

// WithPlayerStart places the player on the given (claimed) cell.
func WithPlayerStart(col, row int) Option {
	return Option{optEntity, func(s *Session) {
		s.start = Cell{Col: col, Row: row}
		s.startSet = true
	}}
}

// WithEnemy adds an enemy at (x, y) with velocity (vx, vy). Any WithEnemy
// replaces the random spawns from the level config.
func WithEnemy(x, y, vx, vy float64) Option {
	return Option{optEntity, func(s *Session) {
		s.explicit = append(s.explicit, Enemy{X: x, Y: y, VX: vx, VY: vy, Radius: enemyRadius})
		s.hasExplicit = true
	}}
}

// WithNoEnemies drops all enemies regardless of the level config.
func WithNoEnemies() Option {
	return Option{optEntity, func(s *Session) {
		s.explicit = nil
		s.hasExplicit = true
	}}
}

// NewSession validates cfg and builds a fresh session. On error no session is
// returned.
func NewSession(cfg level.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		id:        uuid.New(),
		cfg:       cfg,
		opts:      opts,
		seed:      1,
		cols:      DefaultCols,
		rows:      DefaultRows,
		threshold: DefaultCollisionThreshold,
		tracker:   NewTracker(),
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(s)
		}
	}
	grid, err := NewGrid(s.cols, s.rows)
	if err != nil {
		return nil, err
	}
	s.grid = grid
	s.rng = rand.New(rand.NewSource(s.seed)) // #nosec G404 -- gameplay only
	s.log = NewEventLog(s.verbose)
	for _, o := range opts {
		if o.kind == optEntity {
			o.fn(s)
		}
	}

	// Default start: bottom-left corner of the border.
	start := Cell{Col: 0, Row: s.rows - 1}
	if s.startSet {
		start = s.start
	}
	st, err := s.grid.Cell(start.Col, start.Row)
	if err != nil {
		return nil, fmt.Errorf("player start: %w", err)
	}
	if st != CellClaimed {
		return nil, fmt.Errorf("%w: (%d,%d) is %s", ErrBadStart, start.Col, start.Row, st)
	}
	s.player = Player{Pos: start}

	if s.hasExplicit {
		s.enemies = append([]Enemy(nil), s.explicit...)
	} else {
		s.enemies = SpawnEnemies(s.rng, cfg.Enemies, s.cols, s.rows)
	}

	s.log.Add(0, CatSession, "start",
		fmt.Sprintf("level=%s field=%dx%d enemies=%d seed=%d", cfg.ID, s.cols, s.rows, len(s.enemies), s.seed), 0)
	return s, nil
}

// Restart rebuilds the session from the same level and options with a fresh
// seed drawn from the current RNG. The session id changes.
func (s *Session) Restart() error {
	opts := append(s.opts[:len(s.opts):len(s.opts)], WithSeed(s.rng.Int63()))
	ns, err := NewSession(s.cfg, opts...)
	if err != nil {
		return err
	}
	ns.opts = s.opts
	*s = *ns
	return nil
}

// Tick advances the session one step in fixed order: heading, player move
// (with trail update and capture), collision check, enemies. It returns the
// GameOver signal once raised; later ticks are no-ops returning the same signal.
// DirNone keeps the last heading.
func (s *Session) Tick(intent Direction) *GameOver {
	if s.over != nil {
		return s.over
	}
	s.tick++

	// 1. Intent.
	if intent != DirNone {
		s.player.Heading = intent
	}

	// 2. Player move at the level's pace.
	s.player.moveCounter++
	if s.player.moveCounter >= s.cfg.PlayerSpeed {
		s.player.moveCounter = 0
		s.movePlayer()
	}

	// 3. Collision. A cut closed this tick already cleared the trail.
	if hit := CheckCollisions(s.tracker, s.enemies, s.threshold); hit != nil {
		hit.Tick = s.tick
		s.over = hit
		s.log.Add(s.tick, CatSession, "game_over", hit.String(), float64(s.tracker.Len()))
		return hit
	}

	// 4. Enemies.
	w, h := float64(s.cols), float64(s.rows)
	for i := range s.enemies {
		b := s.enemies[i].Advance(w, h, s.cfg.EnemySpeed)
		if b.X || b.Y {
			s.log.AddVerbose(s.tick, CatEnemy, "bounce",
				fmt.Sprintf("enemy %d at (%.2f,%.2f)", i, s.enemies[i].X, s.enemies[i].Y), float64(i))
		}
	}
	return nil
}

func (s *Session) movePlayer() {
	if s.player.Heading == DirNone {
		return
	}
	next := s.player.Pos.Step(s.player.Heading)
	if !s.grid.InBounds(next.Col, next.Row) {
		s.log.Add(s.tick, CatPlayer, "blocked",
			fmt.Sprintf("edge at (%d,%d) heading %s", s.player.Pos.Col, s.player.Pos.Row, s.player.Heading), 0)
		s.player.Heading = DirNone
		return
	}
	s.player.Pos = next

	wasCutting := s.tracker.Cutting()
	closed := s.tracker.Step(s.grid, next)
	if !wasCutting && s.tracker.Cutting() {
		s.log.Add(s.tick, CatTrail, "start", fmt.Sprintf("from (%d,%d)", next.Col, next.Row), 0)
	}
	if closed == nil {
		return
	}
	s.log.Add(s.tick, CatTrail, "close", fmt.Sprintf("%d cells", len(closed)), float64(len(closed)))
	n := Classify(s.grid, closed, s.enemyCells())
	s.cuts++
	s.gained += n
	frac := s.grid.ClaimedFraction()
	s.log.Add(s.tick, CatClaim, "cells", fmt.Sprintf("+%d (%.1f%% claimed)", n, frac*100), float64(n))
}

// enemyCells returns the cells under every enemy; they seed the exterior fill.
func (s *Session) enemyCells() []Cell {
	out := make([]Cell, 0, len(s.enemies))
	for i := range s.enemies {
		out = append(out, s.enemies[i].Cell())
	}
	return out
}

// Walk ticks with heading d until the player has moved cells cells, the
// player is blocked, or the game ends. It returns the GameOver, if any.
func (s *Session) Walk(d Direction, cells int) *GameOver {
	moved := 0
	for moved < cells {
		prev := s.player.Pos
		if over := s.Tick(d); over != nil {
			return over
		}
		if s.player.Pos != prev {
			moved++
			continue
		}
		if s.player.Heading == DirNone {
			return nil
		}
	}
	return nil
}

// RunUntil advances up to maxTicks, asking pilot for the intent each tick,
// and stops early once predicate holds. Returns the tick at which the
// predicate was satisfied, or -1.
func (s *Session) RunUntil(pilot func(*Session) Direction, predicate func(*Session) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Tick(pilot(s))
		if predicate(s) {
			return s.tick
		}
		if s.over != nil {
			return -1
		}
	}
	return -1
}

// ID returns the session's unique id.
func (s *Session) ID() uuid.UUID { return s.id }

// Config returns the level the session was built from.
func (s *Session) Config() level.Config { return s.cfg }

// Seed returns the RNG seed used for spawns.
func (s *Session) Seed() int64 { return s.seed }

// TickCount returns the number of ticks processed.
func (s *Session) TickCount() int { return s.tick }

// Over returns the game-over signal, or nil while the session is live.
func (s *Session) Over() *GameOver { return s.over }

// Log returns the session's event log.
func (s *Session) Log() *EventLog { return s.log }

// Player returns a copy of the player state.
func (s *Session) Player() Player { return s.player }

// Cutting reports whether a cut is in progress.
func (s *Session) Cutting() bool { return s.tracker.Cutting() }

// Cuts returns the number of completed cuts.
func (s *Session) Cuts() int { return s.cuts }

// CellsGained returns the number of cells claimed by cuts.
func (s *Session) CellsGained() int { return s.gained }

// ClaimedFraction returns the captured share of the interior.
func (s *Session) ClaimedFraction() float64 { return s.grid.ClaimedFraction() }
