package life

import "github.com/pkg/errors"

/*
	NextState applies Conway's rule (B3/S23) to one cell:
	a live cell with 2 or 3 live neighbours survives,
	a dead cell with exactly 3 live neighbours becomes alive,
	every other cell is dead in the next generation
*/
func NextState(s State, neighbours int) State {
	if neighbours == 3 || (s == Alive && neighbours == 2) {
		return Alive
	}
	return Dead
}

//Wrap maps i onto [0, n) with toroidal wrapping
func Wrap(i int, n int) int {
	return (i%n + n) % n
}

//LiveNeighbors counts the live cells among the 8 wrapped neighbours of x, y
func (g *Grid) LiveNeighbors(x int, y int) int {
	return liveNeighbors(g.cells, g.width, g.height, x, y)
}

//liveNeighbors counts on an arbitrary row-major buffer of the grid size
func liveNeighbors(cells []State, width int, height int, x int, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		row := Wrap(y+dy, height) * width
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if cells[row+Wrap(x+dx, width)] == Alive {
				n++
			}
		}
	}
	return n
}

//Advance computes the next generation from the current one and replaces it
//the new states are computed from the previous generation only
//on error the grid keeps the current generation
func (g *Grid) Advance() (Summary, error) {
	s, err := g.engine.advance(g)
	if err != nil {
		return Summary{Generation: g.generation}, errors.Wrapf(err, "advance %s", g.engine.Name())
	}
	g.generation++
	s.Generation = g.generation
	return s, nil
}
