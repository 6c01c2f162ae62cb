package capture

// Snapshot is a read-only copy of everything a renderer needs after a tick.
// Mutating it never affects the session.
type Snapshot struct {
	Tick    int
	Cols    int
	Rows    int
	Cells   []CellState // row-major
	Player  Cell
	Heading Direction
	Cutting bool
	Trail   []Cell
	Enemies []Enemy
	Claimed float64 // interior fraction, 0..1
	Over    *GameOver
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	cells := make([]CellState, len(s.grid.Cells))
	copy(cells, s.grid.Cells)
	enemies := make([]Enemy, len(s.enemies))
	copy(enemies, s.enemies)
	snap := Snapshot{
		Tick:    s.tick,
		Cols:    s.grid.Cols,
		Rows:    s.grid.Rows,
		Cells:   cells,
		Player:  s.player.Pos,
		Heading: s.player.Heading,
		Cutting: s.tracker.Cutting(),
		Trail:   s.tracker.Trail(),
		Enemies: enemies,
		Claimed: s.grid.ClaimedFraction(),
	}
	if s.over != nil {
		over := *s.over
		snap.Over = &over
	}
	return snap
}

// At returns the cell state at (col, row); off-grid reads as claimed.
func (sn *Snapshot) At(col, row int) CellState {
	if col < 0 || col >= sn.Cols || row < 0 || row >= sn.Rows {
		return CellClaimed
	}
	return sn.Cells[row*sn.Cols+col]
}

// OnTrail returns a lookup set of the live trail cells.
func (sn *Snapshot) OnTrail() map[Cell]bool {
	out := make(map[Cell]bool, len(sn.Trail))
	for _, c := range sn.Trail {
		out[c] = true
	}
	return out
}
