package universe

import "lifegrid/src/life"

//Universe drives a life.Grid: it owns the cadence timer and serialises all grid changes
type Universe interface {
	Status() Status
	Options() Options
	Snapshot() life.Snapshot
	StateCh() chan Status
	Settle(ps []life.Position) error
	SettleWithRandomData()
	InverseCell(x int, y int) error
	RegisterViewer(v Viewer)
	Run()
	Stop()
	ToggleRunning()
	Step()
	Clear()
	Close()
}
