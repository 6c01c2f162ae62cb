package capture

// workOrder selects how the fill's work list is drained. The final partition
// is the same for every order; only the visitation sequence differs.
type workOrder uint8

const (
	orderStack workOrder = iota // LIFO
	orderQueue                  // FIFO
)

// workList is an explicit cell-index list so fill depth never touches the call stack.
type workList struct {
	items []int
	head  int
	order workOrder
}

func (w *workList) push(i int) { w.items = append(w.items, i) }

func (w *workList) empty() bool { return w.head >= len(w.items) }

func (w *workList) pop() int {
	if w.order == orderQueue {
		i := w.items[w.head]
		w.head++
		return i
	}
	last := len(w.items) - 1
	i := w.items[last]
	w.items = w.items[:last]
	return i
}

func (w *workList) reset() {
	w.items = w.items[:0]
	w.head = 0
}

// Classify reclassifies the area enclosed by a just-closed trail. Trail cells
// act as an impassable barrier. The exterior is every open cell 4-connected to
// an open seed cell; all other open cells and the trail itself become
// claimed. If no seed lands on reachable open ground, the largest open pocket
// is taken as the exterior. Returns the number of cells newly claimed.
//
// The session seeds with the cells under its enemies, so the side holding an
// enemy stays open. Classify runs on the closing move, which also clears the
// trail, so that tick's collision check sees no trail: an enemy sitting on
// the trail at the moment of closure does not end the game, and its cell is
// claimed along with the trail.
//
// An empty trail is a no-op.
func Classify(g *Grid, trail []Cell, seeds []Cell) int {
	return classify(g, trail, seeds, orderStack)
}

func classify(g *Grid, trail []Cell, seeds []Cell, order workOrder) int {
	if len(trail) == 0 {
		return 0
	}
	n := len(g.Cells)
	barrier := make([]bool, n)
	for _, c := range trail {
		if g.InBounds(c.Col, c.Row) {
			barrier[g.index(c.Col, c.Row)] = true
		}
	}
	passable := func(i int) bool {
		return !barrier[i] && g.Cells[i] == CellOpen
	}

	// label[i] is the 1-based pocket id of an open cell, 0 if unvisited.
	label := make([]int32, n)
	wl := &workList{order: order}

	fill := func(start int, id int32) int {
		wl.reset()
		label[start] = id
		wl.push(start)
		size := 0
		for !wl.empty() {
			i := wl.pop()
			size++
			col, row := i%g.Cols, i/g.Cols
			for _, d := range [4]Direction{DirUp, DirDown, DirLeft, DirRight} {
				dc, dr := d.Delta()
				nc, nr := col+dc, row+dr
				if !g.InBounds(nc, nr) {
					continue
				}
				j := g.index(nc, nr)
				if label[j] != 0 || !passable(j) {
					continue
				}
				label[j] = id
				wl.push(j)
			}
		}
		return size
	}

	// Multi-source pass: every seed shares pocket id 1.
	const exteriorID int32 = 1
	seeded := false
	for _, s := range seeds {
		if !g.InBounds(s.Col, s.Row) {
			continue
		}
		i := g.index(s.Col, s.Row)
		if !passable(i) {
			continue
		}
		seeded = true
		if label[i] == 0 {
			fill(i, exteriorID)
		}
	}

	exterior := exteriorID
	if !seeded {
		exterior = largestPocket(g, label, passable, fill)
	}

	claimed := 0
	for i := 0; i < n; i++ {
		if g.Cells[i] != CellOpen {
			continue
		}
		if barrier[i] || label[i] != exterior {
			g.Cells[i] = CellClaimed
			claimed++
		}
	}
	return claimed
}

// largestPocket labels every open pocket in row-major discovery order and
// returns the id of the biggest one. Ties go to the pocket found first.
func largestPocket(g *Grid, label []int32, passable func(int) bool, fill func(int, int32) int) int32 {
	var best, next int32
	bestSize := -1
	for i := range g.Cells {
		if label[i] != 0 || !passable(i) {
			continue
		}
		next++
		if size := fill(i, next); size > bestSize {
			best, bestSize = next, size
		}
	}
	return best
}
