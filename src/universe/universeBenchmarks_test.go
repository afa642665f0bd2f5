package universe

import (
	"testing"

	"lifegrid/src/life"
)

var (
	testTemplate = []life.Position{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 2}, {X: 4, Y: 3}, {X: 5, Y: 3}}
)

const (
	width  = 200
	height = 200
)

func universeStep(u Universe, b *testing.B) {
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		<-stateCh //wait for finish
		_ = u.Settle(testTemplate)
		b.StartTimer()
		u.Step()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateManual || st.RunningMode == RunningStateFinished {
				break
			}
		}
	}
	u.Close()
}

func universeRun(u Universe, b *testing.B) {
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		<-stateCh //wait for finish
		_ = u.Settle(testTemplate)
		b.StartTimer()
		u.Run()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateFinished {
				break
			}
		}
	}
	u.Close()
}

func newStateCh() chan Status {
	return make(chan Status, 10)
}

func newUniverseOptions(engine string) *Options {
	o := DefaultUniverseOptions
	o.Interval = 0
	o.Width = width
	o.Height = height
	o.MaxSteps = 1000
	o.StopWhenStable = true
	o.Engine = engine
	return &o
}

func Benchmark_Step(b *testing.B) {
	for _, e := range life.EngineNames() {
		b.Run(e, func(b *testing.B) {
			u, err := New(newUniverseOptions(e), newStateCh())
			if err != nil {
				b.Fatal(err)
			}
			universeStep(u, b)
		})
	}
}

func Benchmark_Universe(b *testing.B) {
	for _, e := range life.EngineNames() {
		b.Run(e, func(b *testing.B) {
			u, err := New(newUniverseOptions(e), newStateCh())
			if err != nil {
				b.Fatal(err)
			}
			universeRun(u, b)
		})
	}
}
