package universe

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"

	"lifegrid/src/life"
)

var blinker = []life.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}}

func newTestUniverse(t *testing.T, mutate func(o *Options)) (*BaseUniverse, chan Status) {
	t.Helper()
	o := DefaultUniverseOptions
	o.Width = 5
	o.Height = 5
	o.Interval = 0
	if mutate != nil {
		mutate(&o)
	}
	stateCh := newStateCh()
	u, err := New(&o, stateCh)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(u.Close)
	return u, stateCh
}

//waitMode reads the state channel until the universe reports mode
func waitMode(t *testing.T, ch chan Status, mode RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %v", mode)
		}
	}
}

func TestNewErrors(t *testing.T) {
	o := DefaultUniverseOptions
	o.Width = 0
	if _, err := New(&o, nil); !errors.Is(err, life.ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
	o = DefaultUniverseOptions
	o.Engine = "abacus"
	if _, err := New(&o, nil); !errors.Is(err, life.ErrUnknownEngine) {
		t.Fatalf("err = %v, want ErrUnknownEngine", err)
	}
}

func TestDefaultOptions(t *testing.T) {
	u, err := New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()
	o := u.Options()
	if o.Width != 20 || o.Height != 20 || o.Interval != 100*time.Millisecond {
		t.Fatalf("options %+v", o)
	}
	if o.Advanced["engine"] != life.EngineDouble {
		t.Fatalf("engine %v", o.Advanced["engine"])
	}
}

func TestStepBlinker(t *testing.T) {
	for _, e := range life.EngineNames() {
		t.Run(e, func(t *testing.T) {
			u, ch := newTestUniverse(t, func(o *Options) { o.Engine = e })
			if err := u.Settle(blinker); err != nil {
				t.Fatal(err)
			}
			u.Step()
			st := waitMode(t, ch, RunningStateManual)
			if st.IterationNum != 1 || st.LiveCells != 3 {
				t.Fatalf("status %+v", st)
			}
			s := u.Snapshot()
			for _, p := range []life.Position{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}} {
				if s.At(p.X, p.Y) != life.Alive {
					t.Fatalf("%v is dead after one step", p)
				}
			}
			if s.LiveCells() != 3 {
				t.Fatalf("live cells %d", s.LiveCells())
			}
		})
	}
}

func TestInverseCellOutOfRange(t *testing.T) {
	u, _ := newTestUniverse(t, nil)
	for _, p := range []life.Position{{X: 5, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: 2}, {X: 0, Y: 5}} {
		if err := u.InverseCell(p.X, p.Y); !errors.Is(err, life.ErrOutOfRange) {
			t.Fatalf("InverseCell(%d,%d) err = %v, want ErrOutOfRange", p.X, p.Y, err)
		}
	}
	if err := u.Settle([]life.Position{{X: 1, Y: 1}, {X: 9, Y: 9}}); !errors.Is(err, life.ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestInverseCellBlinker(t *testing.T) {
	u, ch := newTestUniverse(t, nil)
	for _, p := range blinker {
		if err := u.InverseCell(p.X, p.Y); err != nil {
			t.Fatal(err)
		}
	}
	u.Step()
	waitMode(t, ch, RunningStateManual)
	s := u.Snapshot()
	for _, p := range []life.Position{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}} {
		if s.At(p.X, p.Y) != life.Alive {
			t.Fatalf("%v is dead after one step", p)
		}
	}
}

func TestInverseCellKeepsXY(t *testing.T) {
	u, ch := newTestUniverse(t, func(o *Options) {
		o.Width = 6
		o.Height = 6
		o.Interval = time.Hour
	})
	if err := u.InverseCell(4, 1); err != nil {
		t.Fatal(err)
	}
	//run and stop publish states without advancing, so the toggle has been applied after them
	u.Run()
	waitMode(t, ch, RunningStateRun)
	u.Stop()
	st := waitMode(t, ch, RunningStateManual)
	if st.IterationNum != 0 || st.LiveCells != 1 {
		t.Fatalf("status %+v", st)
	}
	s := u.Snapshot()
	if s.At(4, 1) != life.Alive {
		t.Fatal("(4,1) is not alive")
	}
	if s.At(1, 4) != life.Dead {
		t.Fatal("toggle landed on the transposed cell")
	}
}

func TestRunUntilMaxSteps(t *testing.T) {
	u, ch := newTestUniverse(t, func(o *Options) { o.MaxSteps = 5 })
	if err := u.Settle(blinker); err != nil {
		t.Fatal(err)
	}
	u.Run()
	st := waitMode(t, ch, RunningStateFinished)
	if st.IterationNum != 5 {
		t.Fatalf("finished at %d, want 5", st.IterationNum)
	}
	if u.Snapshot().Generation != 5 {
		t.Fatalf("generation %d", u.Snapshot().Generation)
	}

	//the limit is reached, another step finishes without advancing
	u.Step()
	st = waitMode(t, ch, RunningStateFinished)
	if st.IterationNum != 5 {
		t.Fatalf("advanced past the limit: %d", st.IterationNum)
	}
}

func TestStopWhenStable(t *testing.T) {
	cases := []struct {
		name  string
		seed  []life.Position
		iters int
	}{
		{"extinction", []life.Position{{X: 0, Y: 0}}, 1},
		{"still life", []life.Position{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}, 1},
		{"oscillator", blinker, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, ch := newTestUniverse(t, func(o *Options) {
				o.StopWhenStable = true
				o.MaxSteps = 100
			})
			if err := u.Settle(c.seed); err != nil {
				t.Fatal(err)
			}
			u.Run()
			st := waitMode(t, ch, RunningStateFinished)
			if st.IterationNum != c.iters {
				t.Fatalf("finished at %d, want %d", st.IterationNum, c.iters)
			}
		})
	}
}

func TestToggleRunning(t *testing.T) {
	u, ch := newTestUniverse(t, func(o *Options) { o.Interval = 5 * time.Millisecond })
	if err := u.Settle(blinker); err != nil {
		t.Fatal(err)
	}
	u.ToggleRunning()
	waitMode(t, ch, RunningStateStep)
	u.ToggleRunning()
	st := waitMode(t, ch, RunningStateManual)
	if st.IterationNum < 1 {
		t.Fatalf("no generation advanced while running: %+v", st)
	}

	//paused: the ticker keeps firing but nothing advances
	time.Sleep(30 * time.Millisecond)
	if got := u.Status().IterationNum; got != st.IterationNum {
		t.Fatalf("advanced while paused: %d -> %d", st.IterationNum, got)
	}
}

func TestSettleWithRandomData(t *testing.T) {
	u, ch := newTestUniverse(t, func(o *Options) {
		o.Width = 20
		o.Height = 20
		o.Seed = 11
		o.Density = 0.4
	})
	u.SettleWithRandomData()
	u.Step()
	waitMode(t, ch, RunningStateManual)

	g, _ := life.New(20, 20)
	g.Randomize(11, 0.4)
	if _, err := g.Advance(); err != nil {
		t.Fatal(err)
	}
	got := u.Snapshot()
	want := g.Snapshot()
	for i := range want.Cells {
		if got.Cells[i] != want.Cells[i] {
			t.Fatalf("cell %d differs from a grid seeded with the same seed", i)
		}
	}
}

type countingViewer struct {
	refreshes atomic.Int32
	u         Universe
}

func (v *countingViewer) Refresh()            { v.refreshes.Add(1) }
func (v *countingViewer) Register(u Universe) { v.u = u }
func (v *countingViewer) Start()              {}

func TestViewerRefresh(t *testing.T) {
	u, ch := newTestUniverse(t, nil)
	v := &countingViewer{}
	u.RegisterViewer(v)
	if v.u != Universe(u) {
		t.Fatal("viewer not registered")
	}
	u.Step()
	waitMode(t, ch, RunningStateManual)
	//views are refreshed after the state switch, the next command orders after it
	u.Clear()
	waitMode(t, ch, RunningStateManual)
	if v.refreshes.Load() == 0 {
		t.Fatal("viewer was not refreshed")
	}
}

//slowViewer takes its time to register and needs its universe on every refresh
type slowViewer struct {
	u Universe
}

func (v *slowViewer) Refresh() { _ = v.u.Status() }
func (v *slowViewer) Register(u Universe) {
	time.Sleep(time.Millisecond)
	v.u = u
}
func (v *slowViewer) Start() {}

func TestRegisterViewerAfterQueuedCommand(t *testing.T) {
	for i := 0; i < 50; i++ {
		u, ch := newTestUniverse(t, nil)
		if err := u.Settle(blinker); err != nil {
			t.Fatal(err)
		}
		u.RegisterViewer(&slowViewer{})
		u.Step()
		waitMode(t, ch, RunningStateManual)
		u.Close()
	}
}

func TestCommandsAfterClose(t *testing.T) {
	u, _ := newTestUniverse(t, nil)
	u.Close()
	done := make(chan struct{})
	go func() {
		u.Step()
		u.Run()
		_ = u.InverseCell(0, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("commands after Close blocked")
	}
}

func TestRunningStateString(t *testing.T) {
	if RunningStateRun.String() != "running" || RunningState(42).String() != "unknown" {
		t.Fatal("unexpected names")
	}
}
