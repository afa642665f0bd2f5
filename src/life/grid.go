package life

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/pkg/errors"
)

var (
	ErrOutOfRange  = errors.New("coordinates out of range")
	ErrInvalidSize = errors.New("invalid grid size")
)

//State is the state of a single cell
type State uint8

const (
	Dead State = iota
	Alive
)

func (s State) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

//Position is a grid coordinate, x grows to the right and y grows down
type Position struct {
	X int
	Y int
}

//Cell is the cell state together with its grid position
type Cell struct {
	Pos   Position
	State State
}

//Summary describes the result of one generation advance
type Summary struct {
	Generation int
	LiveCells  int
	Changed    bool
}

//Grid is a fixed-size toroidal Game of Life field
//cells are stored row-major, the index of (x, y) is y*width+x
//the Grid is not safe for concurrent use, the owner serialises access
type Grid struct {
	width      int
	height     int
	cells      []State
	next       []State
	running    bool
	generation int
	engine     Engine
}

//New creates the grid with all cells dead and the simulation paused
func New(width int, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "%dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]State, width*height),
		next:   make([]State, width*height),
		engine: DoubleBuffer(),
	}, nil
}

func (g *Grid) Width() int      { return g.width }
func (g *Grid) Height() int     { return g.height }
func (g *Grid) Generation() int { return g.generation }

//SetEngine replaces the advance strategy, nil restores the default one
func (g *Grid) SetEngine(e Engine) {
	if e == nil {
		e = DoubleBuffer()
	}
	g.engine = e
}

//Engine returns the current advance strategy
func (g *Grid) Engine() Engine {
	return g.engine
}

//Contains reports whether x, y is inside the grid
func (g *Grid) Contains(x int, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) index(x int, y int) int {
	return y*g.width + x
}

func (g *Grid) checkRange(x int, y int) error {
	if !g.Contains(x, y) {
		return errors.Wrapf(ErrOutOfRange, "cell (%d,%d) outside %dx%d grid", x, y, g.width, g.height)
	}
	return nil
}

//At returns the state at x, y, coordinates outside the grid read as Dead
func (g *Grid) At(x int, y int) State {
	if !g.Contains(x, y) {
		return Dead
	}
	return g.cells[g.index(x, y)]
}

//Toggle flips the cell at x, y
func (g *Grid) Toggle(x int, y int) error {
	if err := g.checkRange(x, y); err != nil {
		return errors.Wrap(err, "toggle")
	}
	i := g.index(x, y)
	if g.cells[i] == Alive {
		g.cells[i] = Dead
	} else {
		g.cells[i] = Alive
	}
	return nil
}

//Set sets the cell at x, y to s
func (g *Grid) Set(x int, y int, s State) error {
	if err := g.checkRange(x, y); err != nil {
		return errors.Wrap(err, "set")
	}
	g.cells[g.index(x, y)] = s
	return nil
}

//Settle makes every listed cell alive
//nothing is changed when any position is outside the grid
func (g *Grid) Settle(ps ...Position) error {
	for _, p := range ps {
		if err := g.checkRange(p.X, p.Y); err != nil {
			return errors.Wrap(err, "settle")
		}
	}
	for _, p := range ps {
		g.cells[g.index(p.X, p.Y)] = Alive
	}
	return nil
}

//Clear kills all cells and resets the generation counter
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Dead
	}
	g.generation = 0
}

//Randomize replaces the field with random cells, density is the probability of a live cell
//the same seed always gives the same field
func (g *Grid) Randomize(seed int64, density float64) {
	r := rand.New(rand.NewPCG(uint64(seed), 0))
	for i := range g.cells {
		if r.Float64() < density {
			g.cells[i] = Alive
		} else {
			g.cells[i] = Dead
		}
	}
}

func (g *Grid) Running() bool { return g.running }

func (g *Grid) SetRunning(running bool) {
	g.running = running
}

//ToggleRunning flips the running flag and returns the new value
func (g *Grid) ToggleRunning() bool {
	g.running = !g.running
	return g.running
}

//Walk calls cb for every cell, row by row
func (g *Grid) Walk(cb func(c Cell)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			cb(Cell{Pos: Position{X: x, Y: y}, State: g.cells[g.index(x, y)]})
		}
	}
}

//LiveCells counts the live cells
func (g *Grid) LiveCells() int {
	n := 0
	for _, s := range g.cells {
		if s == Alive {
			n++
		}
	}
	return n
}

//Hash returns the FNV-1a hash of the cell states
func (g *Grid) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, len(g.cells))
	for i, s := range g.cells {
		buf[i] = byte(s)
	}
	_, _ = h.Write(buf)
	return h.Sum64()
}

//Snapshot copies the current generation
func (g *Grid) Snapshot() Snapshot {
	cells := make([]State, len(g.cells))
	copy(cells, g.cells)
	return Snapshot{Width: g.width, Height: g.height, Generation: g.generation, Cells: cells}
}

//Snapshot is a read-only copy of one generation
type Snapshot struct {
	Width      int
	Height     int
	Generation int
	Cells      []State
}

//At returns the state at x, y, coordinates outside the snapshot read as Dead
func (s Snapshot) At(x int, y int) State {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return Dead
	}
	return s.Cells[y*s.Width+x]
}

//Row returns the states of row y
func (s Snapshot) Row(y int) []State {
	return s.Cells[y*s.Width : (y+1)*s.Width]
}

//LiveCells counts the live cells in the snapshot
func (s Snapshot) LiveCells() int {
	n := 0
	for _, c := range s.Cells {
		if c == Alive {
			n++
		}
	}
	return n
}
