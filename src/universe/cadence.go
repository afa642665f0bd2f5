package universe

import "time"

//Cadence gates generation advances to a fixed interval for hosts that drive
//the simulation from their own frame loop (one update call per frame)
type Cadence struct {
	interval time.Duration
	last     time.Time
}

//NewCadence returns a Cadence whose first advance is due immediately
func NewCadence(interval time.Duration) *Cadence {
	if interval < 0 {
		interval = 0
	}
	return &Cadence{interval: interval}
}

func (c *Cadence) Interval() time.Duration { return c.interval }

//Due reports whether an advance is due at now and, if so, records now as the last advance
func (c *Cadence) Due(now time.Time) bool {
	if !c.last.IsZero() && now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}

//Reset makes the next advance due immediately
func (c *Cadence) Reset() {
	c.last = time.Time{}
}
