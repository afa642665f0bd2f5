package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"

	"lifegrid/src/config"
	"lifegrid/src/life"
	"lifegrid/src/universe"
	"lifegrid/src/view"
)

//testSample is the headless seeding with 3 stable patterns
var testSample = []life.Position{
	{X: 1, Y: 1}, {X: 1, Y: 2},
	{X: 2, Y: 1}, {X: 2, Y: 2},
	{X: 3, Y: 3},
	{X: 4, Y: 2},
	{X: 4, Y: 3},
	{X: 5, Y: 3},
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("lifegrid: ")

	cfg := initOptions()
	cfg.Seed = pickSeed(cfg.Seed)

	var err error
	switch cfg.Mode {
	case config.ModeWindow:
		err = runWindow(cfg)
	case config.ModeHeadless:
		err = runHeadless(cfg)
	default:
		err = runInteractive(cfg)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func initOptions() config.Config {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("%v", err)
	}

	flaggy.SetName("lifegrid")
	flaggy.SetDescription("Conway's Game of Life on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&cfg.Width, "x", "width", "Width of the grid")
	flaggy.Int(&cfg.Height, "y", "height", "Height of the grid")
	flaggy.Duration(&cfg.Interval, "i", "interval", "Interval between the generations, for example 100ms")
	flaggy.Int(&cfg.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps generations (0 is unlimited)")
	flaggy.String(&cfg.Engine, "e", "engine", "Engine to use ["+strings.Join(life.EngineNames(), "|")+"]")
	flaggy.Int(&cfg.Workers, "w", "workers", "Workers of the parallel engine (0 is one per CPU)")
	flaggy.String(&cfg.Mode, "m", "mode", "Mode ["+strings.Join(config.Modes, "|")+"]")
	flaggy.Bool(&cfg.Random, "r", "random", "Settle with random data")
	flaggy.Float64(&cfg.Density, "d", "density", "Share of live cells in random data")
	flaggy.Int64(&cfg.Seed, "", "seed", "Seed of random data (0 picks one)")
	flaggy.Int(&cfg.CellSize, "p", "cellSize", "Cell size in pixels in window mode")
	flaggy.Bool(&cfg.StopWhenStable, "", "stable", "Stop when the field dies out, freezes or repeats")

	flaggy.Parse()

	if err := cfg.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return cfg
}

//pickSeed keeps an explicit seed, 0 is replaced by a random one
func pickSeed(seed int64) int64 {
	for seed == 0 {
		seed = universe.RandomSeed()
	}
	return seed
}

func universeOptions(cfg config.Config) *universe.Options {
	return &universe.Options{
		Width:          cfg.Width,
		Height:         cfg.Height,
		Interval:       cfg.Interval,
		MaxSteps:       cfg.MaxSteps,
		Engine:         cfg.Engine,
		Workers:        cfg.Workers,
		Seed:           cfg.Seed,
		Density:        cfg.Density,
		StopWhenStable: cfg.StopWhenStable,
		CycleWindow:    cfg.CycleWindow,
	}
}

func runInteractive(cfg config.Config) error {
	u, err := universe.New(universeOptions(cfg), nil)
	if err != nil {
		return err
	}
	defer u.Close()

	v := view.NewViewTerminal()
	u.RegisterViewer(v)
	if cfg.Random {
		u.SettleWithRandomData()
	}
	v.Start()
	return nil
}

func runHeadless(cfg config.Config) error {
	stateCh := make(chan universe.Status, 10) //the buffered channel to getting the universe status
	u, err := universe.New(universeOptions(cfg), stateCh)
	if err != nil {
		return err
	}
	defer u.Close()

	c := view.NewConsoleOut()
	u.RegisterViewer(c)

	if cfg.Random {
		u.SettleWithRandomData()
	} else if err := u.Settle(testSample); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	startTime := time.Now()
	c.Start()
	u.Run()
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == universe.RunningStateFinished {
				return nil
			}
		case <-sigCh:
			<-shutdown(u, stateCh)
			fmt.Printf("\nInterrupted after %v\n", time.Since(startTime).Round(time.Millisecond))
			return nil
		}
	}
}

//shutdown stops and closes the universe while draining stateCh so the main loop is never blocked on it
//stateCh is closed once the main loop has exited, the returned channel is closed when draining ends
func shutdown(u universe.Universe, stateCh chan universe.Status) <-chan struct{} {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range stateCh {
		}
	}()
	u.Stop()
	u.Close()
	close(stateCh)
	return drained
}

func runWindow(cfg config.Config) error {
	g, err := life.New(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	engine, err := life.EngineByName(cfg.Engine, cfg.Workers)
	if err != nil {
		return err
	}
	g.SetEngine(engine)
	if cfg.Random {
		g.Randomize(cfg.Seed, cfg.Density)
	}
	return view.RunWindow(g, cfg.CellSize, cfg.Interval)
}
