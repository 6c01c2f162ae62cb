package capture

import (
	"errors"
	"fmt"
)

// CellState is the capture state of one grid cell.
type CellState uint8

const (
	CellOpen    CellState = iota // uncaptured interior
	CellClaimed                  // captured territory or outer wall
)

func (s CellState) String() string {
	switch s {
	case CellOpen:
		return "open"
	case CellClaimed:
		return "claimed"
	default:
		return fmt.Sprintf("CellState(%d)", uint8(s))
	}
}

var (
	// ErrOutOfRange is returned for any grid access outside cols×rows.
	ErrOutOfRange = errors.New("cell out of range")
	// ErrFieldTooSmall is returned when a grid has no interior.
	ErrFieldTooSmall = errors.New("field too small")
)

// minFieldSide leaves at least one interior cell inside the border.
const minFieldSide = 3

// Cell is an integer grid coordinate.
type Cell struct {
	Col int
	Row int
}

// Step returns the neighbouring cell in direction d.
func (c Cell) Step(d Direction) Cell {
	dc, dr := d.Delta()
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Centre returns the cell centre in continuous field units.
func (c Cell) Centre() (float64, float64) {
	return float64(c.Col) + 0.5, float64(c.Row) + 0.5
}

// Grid is the authoritative per-cell capture mask for one session.
type Grid struct {
	Cols  int
	Rows  int
	Cells []CellState // row-major: index = row*Cols + col
}

// NewGrid creates an all-open interior with a one-cell claimed border.
func NewGrid(cols, rows int) (*Grid, error) {
	if cols < minFieldSide || rows < minFieldSide {
		return nil, fmt.Errorf("%w: %dx%d (need at least %dx%d)", ErrFieldTooSmall, cols, rows, minFieldSide, minFieldSide)
	}
	g := &Grid{Cols: cols, Rows: rows, Cells: make([]CellState, cols*rows)}
	for col := 0; col < cols; col++ {
		g.Cells[col] = CellClaimed
		g.Cells[(rows-1)*cols+col] = CellClaimed
	}
	for row := 0; row < rows; row++ {
		g.Cells[row*cols] = CellClaimed
		g.Cells[row*cols+cols-1] = CellClaimed
	}
	return g, nil
}

// InBounds reports whether (col, row) lies within the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

func (g *Grid) index(col, row int) int { return row*g.Cols + col }

// Cell returns the state at (col, row), or ErrOutOfRange.
func (g *Grid) Cell(col, row int) (CellState, error) {
	if !g.InBounds(col, row) {
		return CellClaimed, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, col, row, g.Cols, g.Rows)
	}
	return g.Cells[g.index(col, row)], nil
}

// SetCell writes the state at (col, row), or returns ErrOutOfRange.
func (g *Grid) SetCell(col, row int, s CellState) error {
	if !g.InBounds(col, row) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, col, row, g.Cols, g.Rows)
	}
	g.Cells[g.index(col, row)] = s
	return nil
}

// State is the guarded read used on hot paths. Anything off-grid reads as wall.
func (g *Grid) State(col, row int) CellState {
	if !g.InBounds(col, row) {
		return CellClaimed
	}
	return g.Cells[g.index(col, row)]
}

// Count returns the number of cells in state s.
func (g *Grid) Count(s CellState) int {
	n := 0
	for _, c := range g.Cells {
		if c == s {
			n++
		}
	}
	return n
}

// interiorArea is the number of cells inside the border.
func (g *Grid) interiorArea() int {
	return (g.Cols - 2) * (g.Rows - 2)
}

// ClaimedFraction returns the captured share of the interior (border excluded), 0..1.
func (g *Grid) ClaimedFraction() float64 {
	area := g.interiorArea()
	if area <= 0 {
		return 0
	}
	open := g.Count(CellOpen)
	return float64(area-open) / float64(area)
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	cells := make([]CellState, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Cols: g.Cols, Rows: g.Rows, Cells: cells}
}

// Equal reports whether both grids have the same size and cell states.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.Cols != o.Cols || g.Rows != o.Rows {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}
