package life

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

/*
	parallelEngine splits the field into row shards, each shard is calculated by its own goroutine
	into the second buffer; the buffers are swapped after all shards have finished
*/
type parallelEngine struct {
	workers int
	shards  []shard
}

//shard is the rows [y1, y2) calculated by one worker
type shard struct {
	y1        int
	y2        int
	liveCells int
	changed   bool
}

//Parallel returns the parallel engine, workers <= 0 means runtime.NumCPU()
func Parallel(workers int) Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &parallelEngine{workers: workers}
}

func (pe *parallelEngine) Name() string { return EngineParallel }

func (pe *parallelEngine) Workers() int { return pe.workers }

func (pe *parallelEngine) split(height int) {
	rowsPerWorker := (height + pe.workers - 1) / pe.workers
	pe.shards = pe.shards[:0]
	for y1 := 0; y1 < height; y1 += rowsPerWorker {
		pe.shards = append(pe.shards, shard{y1: y1, y2: min(y1+rowsPerWorker, height)})
	}
}

func (pe *parallelEngine) advance(g *Grid) (s Summary, err error) {
	pe.split(g.height)

	var eg errgroup.Group
	eg.SetLimit(pe.workers)
	for i := range pe.shards {
		sh := &pe.shards[i]
		eg.Go(func() error {
			return sh.calculate(g)
		})
	}
	//the buffers are only swapped when every shard is complete
	if err = eg.Wait(); err != nil {
		return s, err
	}

	for _, sh := range pe.shards {
		s.LiveCells += sh.liveCells
		s.Changed = s.Changed || sh.changed
	}
	g.cells, g.next = g.next, g.cells
	return
}

//calculate writes the next states of the shard rows into g.next
//a panic of the worker goroutine is returned as an error instead of crashing the process
func (sh *shard) calculate(g *Grid) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("rows [%d, %d): %v", sh.y1, sh.y2, r)
		}
	}()
	sh.liveCells, sh.changed = 0, false
	for y := sh.y1; y < sh.y2; y++ {
		for x := 0; x < g.width; x++ {
			idx := g.index(x, y)
			ns := NextState(g.cells[idx], g.LiveNeighbors(x, y))
			if ns == Alive {
				sh.liveCells++
			}
			sh.changed = sh.changed || ns != g.cells[idx]
			g.next[idx] = ns
		}
	}
	return nil
}
