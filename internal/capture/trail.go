package capture

// Direction is the player's movement intent.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the unit cell offset for d.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// TrailState is the tracker's state machine position.
type TrailState uint8

const (
	TrailIdle    TrailState = iota // on claimed ground, no cut in progress
	TrailCutting                   // laying trail through open ground
)

func (s TrailState) String() string {
	if s == TrailCutting {
		return "cutting"
	}
	return "idle"
}

// Tracker records the in-progress cut. The trail is non-empty iff the tracker
// is cutting. Revisiting a trail cell is allowed; there is no self-intersection
// check.
type Tracker struct {
	state TrailState
	trail []Cell
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// State returns the current state.
func (t *Tracker) State() TrailState { return t.state }

// Cutting reports whether a cut is in progress.
func (t *Tracker) Cutting() bool { return t.state == TrailCutting }

// Len returns the number of recorded trail cells.
func (t *Tracker) Len() int { return len(t.trail) }

// Trail returns a copy of the recorded cells in visit order.
func (t *Tracker) Trail() []Cell {
	out := make([]Cell, len(t.trail))
	copy(out, t.trail)
	return out
}

// Reset drops any cut in progress.
func (t *Tracker) Reset() {
	t.state = TrailIdle
	t.trail = t.trail[:0]
}

func (t *Tracker) record(c Cell) {
	t.trail = append(t.trail, c)
}

// Step advances the state machine for a player move onto to. When the move
// closes a cut, the complete trail (including the closing claimed cell) is
// returned and the tracker is back to idle. Callers must bounds-check to.
func (t *Tracker) Step(g *Grid, to Cell) []Cell {
	dest := g.State(to.Col, to.Row)
	switch t.state {
	case TrailIdle:
		if dest == CellOpen {
			t.Reset()
			t.state = TrailCutting
			t.record(to)
		}
		return nil
	case TrailCutting:
		t.record(to)
		if dest != CellClaimed {
			return nil
		}
		closed := t.Trail()
		t.Reset()
		return closed
	}
	return nil
}
