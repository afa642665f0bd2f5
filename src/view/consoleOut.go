package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"lifegrid/src/universe"
)

//ConsoleOut prints the progress of a headless simulation
type ConsoleOut struct {
	u         universe.Universe
	out       io.Writer
	au        aurora.Aurora
	startTime time.Time
	lastShown int
	finished  bool
}

func NewConsoleOut() *ConsoleOut {
	return NewConsoleOutTo(os.Stdout, true)
}

//NewConsoleOutTo writes to w, colors switches the ANSI colouring
func NewConsoleOutTo(w io.Writer, colors bool) *ConsoleOut {
	return &ConsoleOut{out: w, au: aurora.NewAurora(colors), lastShown: -1}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	switch st.RunningMode {
	case universe.RunningStateFinished:
		if c.finished {
			return
		}
		c.finished = true
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.IterationNum,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		_, _ = fmt.Fprintln(c.out, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
	case universe.RunningStateRun:
		c.finished = false
		if st.IterationNum%10 == 0 && st.IterationNum != c.lastShown {
			c.lastShown = st.IterationNum
			_, _ = fmt.Fprintf(c.out, "  Generations done: %v, live cells: %v\n", st.IterationNum, st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	_, _ = fmt.Fprintln(c.out, c.au.Green("Running configuration:"))
	_, _ = fmt.Fprintf(c.out, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.out, "  Interval: %v\n", o.Interval)
	if o.MaxSteps > 0 {
		_, _ = fmt.Fprintf(c.out, "  Max generations: %v\n", o.MaxSteps)
	}
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.out, c.au.Cyan("\nSimulation started..."))
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.out, "  %s: %v\n", propName, d[propName])
	}
}
