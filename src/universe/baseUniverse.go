package universe

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"

	"lifegrid/src/life"
)

//Options represents the Universe's configurable options
type Options struct {
	Width          int
	Height         int
	Interval       time.Duration
	MaxSteps       int
	Engine         string
	Workers        int
	Seed           int64
	Density        float64
	StopWhenStable bool
	CycleWindow    int
	Advanced       map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Details       map[string]interface{} //advanced details (engine specific)
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

func (rs RunningState) String() string {
	switch rs {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefWidth              = 20
	DefHeight             = 20
	DefDensity            = 0.25
	DefCycleWindow        = 4
)

var DefaultUniverseOptions = Options{
	Width:       DefWidth,
	Height:      DefHeight,
	Interval:    DefSimulationInterval,
	Engine:      life.EngineDouble,
	Density:     DefDensity,
	CycleWindow: DefCycleWindow,
}

//BaseUniverse is the universe's engine, implements Universe interface
//every change of the grid is executed by the main loop goroutine,
//readers get copies taken under the area lock so they never see a half-advanced grid
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	area struct {
		grid *life.Grid
		sync.RWMutex
	}
	stateCh chan Status
	views   struct {
		list []Viewer
		sync.Mutex
	}
	history   []uint64 //recent grid hashes, touched by the main loop only
	reseeds   int64
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

//New creates the universe and starts its main loop
//stateCh is optional, when given every running state switch is written to it
func New(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	opts.Advanced = make(map[string]interface{})

	grid, err := life.New(opts.Width, opts.Height)
	if err != nil {
		return nil, errors.Wrap(err, "universe")
	}
	if opts.Engine == "" {
		opts.Engine = life.EngineDouble
	}
	engine, err := life.EngineByName(opts.Engine, opts.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "universe")
	}
	grid.SetEngine(engine)
	opts.Advanced["engine"] = engine.Name()
	if p, ok := engine.(interface{ Workers() int }); ok {
		opts.Advanced["workers"] = p.Workers()
	}

	u := &BaseUniverse{
		options:   opts,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
		stateCh:   stateCh,
	}
	u.area.grid = grid
	u.state.Details = map[string]interface{}{"engine": engine.Name()}
	go u.mainLoop()
	return u, nil
}

//Settle makes the listed cells alive, returns immediately
//positions are checked before the command is queued
func (u *BaseUniverse) Settle(ps []life.Position) error {
	for _, p := range ps {
		if err := u.checkRange(p.X, p.Y); err != nil {
			return errors.Wrap(err, "settle")
		}
	}
	u.enqueue(func() {
		u.area.Lock()
		_ = u.area.grid.Settle(ps...)
		u.area.Unlock()
		u.changedByUser()
	})
	return nil
}

//SettleWithRandomData replaces the field with random data when the simulation is not running
//every call uses the next seed after Options.Seed
func (u *BaseUniverse) SettleWithRandomData() {
	u.enqueue(func() {
		if u.area.grid.Running() {
			return
		}
		seed := u.options.Seed + u.reseeds
		u.reseeds++
		u.area.Lock()
		u.area.grid.Clear()
		u.area.grid.Randomize(seed, u.options.Density)
		u.area.Unlock()
		u.resetCounters()
		u.changedByUser()
	})
}

//InverseCell inverses the cell state at point x, y
//coordinates outside the field are rejected with life.ErrOutOfRange
func (u *BaseUniverse) InverseCell(x int, y int) error {
	if err := u.checkRange(x, y); err != nil {
		return errors.Wrap(err, "inverse cell")
	}
	u.enqueue(func() {
		u.area.Lock()
		_ = u.area.grid.Toggle(x, y)
		u.area.Unlock()
		u.changedByUser()
	})
	return nil
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
//the viewer is registered before it is listed, so it is never refreshed without its universe
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views.Lock()
	defer u.views.Unlock()
	v.Register(u)
	u.views.list = append(u.views.list, v)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Snapshot returns a copy of the current generation
func (u *BaseUniverse) Snapshot() life.Snapshot {
	u.area.RLock()
	defer u.area.RUnlock()
	return u.area.grid.Snapshot()
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.enqueue(u.run)
}

//Stop stops the universe simulation, returns immediately
func (u *BaseUniverse) Stop() {
	u.enqueue(u.stop)
}

//ToggleRunning starts a paused simulation and pauses a running one, returns immediately
func (u *BaseUniverse) ToggleRunning() {
	u.enqueue(func() {
		if u.area.grid.Running() {
			u.stop()
		} else {
			u.run()
		}
	})
}

//Step does one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.enqueue(u.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.enqueue(u.clear)
}

//Close stops the main loop and waits for it to exit
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() { close(u.closeCh) })
	<-u.done
}

//enqueue passes the command to the main loop, commands after Close are dropped
func (u *BaseUniverse) enqueue(cmd func()) {
	select {
	case u.controlCh <- cmd:
	case <-u.done:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for commands and cadence ticks and executes them
func (u *BaseUniverse) mainLoop() {
	defer close(u.done)

	var tick <-chan time.Time
	if u.options.Interval > 0 {
		ticker := time.NewTicker(u.options.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		//without an interval the running universe steps back-to-back
		if tick == nil && u.area.grid.Running() {
			select {
			case cmd := <-u.controlCh:
				cmd()
			case <-u.closeCh:
				return
			default:
				u.step()
			}
			continue
		}
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-tick:
			if u.area.grid.Running() {
				u.step()
			}
		case <-u.closeCh:
			return
		}
	}
}

func (u *BaseUniverse) checkRange(x int, y int) error {
	if x < 0 || y < 0 || x >= u.options.Width || y >= u.options.Height {
		return errors.Wrapf(life.ErrOutOfRange, "cell (%d,%d) outside %dx%d grid", x, y, u.options.Width, u.options.Height)
	}
	return nil
}

//changedByUser refreshes counters and views after a change not made by the simulation
func (u *BaseUniverse) changedByUser() {
	u.history = u.history[:0]
	u.area.RLock()
	live := u.area.grid.LiveCells()
	u.area.RUnlock()
	u.state.Lock()
	u.state.LiveCells = live
	u.state.Unlock()
	u.refreshView()
}

func (u *BaseUniverse) resetCounters() {
	u.state.Lock()
	u.state.IterationNum = 0
	u.state.IterationTime = 0
	u.state.Unlock()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

func (u *BaseUniverse) setRunning(running bool) {
	u.area.Lock()
	u.area.grid.SetRunning(running)
	u.area.Unlock()
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	u.history = u.history[:0]
	u.setRunning(true)
	u.switchRunningState(RunningStateRun)
	u.refreshView()
}

//stop pauses the universe running cycle
func (u *BaseUniverse) stop() {
	if !u.area.grid.Running() {
		return
	}
	u.setRunning(false)
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//finish pauses the universe when the boundary conditions are reached
func (u *BaseUniverse) finish() {
	u.setRunning(false)
	u.switchRunningState(RunningStateFinished)
}

//step advances the universe by one generation
func (u *BaseUniverse) step() {
	defer u.refreshView()

	rm := RunningStateManual
	if u.area.grid.Running() {
		rm = RunningStateRun
	}
	maxIter := u.options.MaxSteps
	if maxIter != 0 && u.area.grid.Generation() >= maxIter {
		u.finish()
		return
	}

	u.switchRunningState(RunningStateStep)
	start := time.Now()
	u.area.Lock()
	s, err := u.area.grid.Advance()
	var hash uint64
	if err == nil && u.options.StopWhenStable {
		hash = u.area.grid.Hash()
	}
	u.area.Unlock()
	if err != nil {
		log.Printf("step %d failed: %v", s.Generation+1, err)
		u.finish()
		return
	}

	u.state.Lock()
	u.state.IterationNum = s.Generation
	u.state.LiveCells = s.LiveCells
	u.state.IterationTime = time.Since(start)
	u.state.Unlock()

	finished := maxIter != 0 && s.Generation >= maxIter
	if u.options.StopWhenStable && (s.LiveCells == 0 || !s.Changed || u.repeats(hash)) {
		finished = true
	}
	if finished {
		u.finish()
	} else {
		u.switchRunningState(rm)
	}
}

//repeats reports whether hash is one of the last CycleWindow generations and records it
func (u *BaseUniverse) repeats(hash uint64) bool {
	if u.options.CycleWindow <= 0 {
		return false
	}
	for _, h := range u.history {
		if h == hash {
			return true
		}
	}
	u.history = append(u.history, hash)
	if len(u.history) > u.options.CycleWindow {
		u.history = u.history[1:]
	}
	return false
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.area.Lock()
	u.area.grid.Clear()
	u.area.grid.SetRunning(false)
	u.area.Unlock()
	u.history = u.history[:0]
	u.state.Lock()
	u.state.IterationNum = 0
	u.state.LiveCells = 0
	u.state.IterationTime = 0
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	u.views.Lock()
	views := append([]Viewer(nil), u.views.list...)
	u.views.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}

//RandomSeed returns a seed for callers that do not care about reproducibility
func RandomSeed() int64 {
	return rand.Int64()
}
