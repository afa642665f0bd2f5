package life

import (
	"sort"

	"github.com/pkg/errors"
)

var ErrUnknownEngine = errors.New("unknown engine")

//Engine is a strategy for computing the next generation of a Grid
//all engines produce the same result, they differ in memory use and parallelism
type Engine interface {
	Name() string
	advance(g *Grid) (Summary, error)
}

const (
	EngineDouble   = "double"
	EngineRolling  = "rolling"
	EngineParallel = "parallel"
)

var engines = map[string]func(workers int) Engine{
	EngineDouble:   func(int) Engine { return DoubleBuffer() },
	EngineRolling:  func(int) Engine { return RollingBuffer() },
	EngineParallel: func(workers int) Engine { return Parallel(workers) },
}

//EngineByName returns a new engine, workers is used by the parallel engine only
func EngineByName(name string, workers int) (Engine, error) {
	f, ok := engines[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEngine, "%q", name)
	}
	return f(workers), nil
}

//EngineNames returns the sorted names accepted by EngineByName
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for k := range engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

/*
	doubleBuffer computes every cell into the second full buffer
	and then swaps the buffers, so the grid is replaced in one step
*/
type doubleBuffer struct{}

func DoubleBuffer() Engine { return doubleBuffer{} }

func (doubleBuffer) Name() string { return EngineDouble }

func (doubleBuffer) advance(g *Grid) (s Summary, err error) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := g.index(x, y)
			ns := NextState(g.cells[i], g.LiveNeighbors(x, y))
			if ns == Alive {
				s.LiveCells++
			}
			s.Changed = s.Changed || ns != g.cells[i]
			g.next[i] = ns
		}
	}
	g.cells, g.next = g.next, g.cells
	return
}
