package life

/*
	rollingBuffer advances the grid in place with a small buffer
	that holds the new states of the current and previous rows only.
	The previous row is written back as soon as the next row is calculated,
	the original first row is kept aside because the last row wraps onto it
*/
type rollingBuffer struct {
	ring  [2][]State
	first []State
}

func RollingBuffer() Engine { return &rollingBuffer{} }

func (rb *rollingBuffer) Name() string { return EngineRolling }

func (rb *rollingBuffer) resize(width int) {
	if len(rb.first) == width {
		return
	}
	rb.ring[0] = make([]State, width)
	rb.ring[1] = make([]State, width)
	rb.first = make([]State, width)
}

func (rb *rollingBuffer) advance(g *Grid) (s Summary, err error) {
	w, h := g.width, g.height
	rb.resize(w)
	copy(rb.first, g.cells[:w])

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cur := g.cells[g.index(x, y)]
			ns := NextState(cur, rb.neighbours(g, x, y))
			if ns == Alive {
				s.LiveCells++
			}
			s.Changed = s.Changed || ns != cur
			rb.ring[1][x] = ns
		}
		if y >= 1 {
			copy(g.cells[(y-1)*w:y*w], rb.ring[0])
		}
		rb.ring[0], rb.ring[1] = rb.ring[1], rb.ring[0]
	}
	copy(g.cells[(h-1)*w:], rb.ring[0])
	return
}

//neighbours counts like liveNeighbors, but row 0 is read from the saved copy
//once it has been overwritten (from row 2 on)
func (rb *rollingBuffer) neighbours(g *Grid, x int, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		ry := Wrap(y+dy, g.height)
		row := g.cells[ry*g.width : (ry+1)*g.width]
		if ry == 0 && y >= 2 {
			row = rb.first
		}
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if row[Wrap(x+dx, g.width)] == Alive {
				n++
			}
		}
	}
	return n
}
