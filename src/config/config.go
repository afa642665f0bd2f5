package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"lifegrid/src/life"
)

var ErrInvalid = errors.New("invalid configuration")

//EnvFile is the environment variable naming an optional JSON configuration file
const EnvFile = "LIFEGRID_CONFIG"

const (
	ModeInteractive = "interactive"
	ModeHeadless    = "headless"
	ModeWindow      = "window"
)

var Modes = []string{ModeInteractive, ModeHeadless, ModeWindow}

//Config holds the configuration for the game
type Config struct {
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	Interval       time.Duration `json:"interval"`
	MaxSteps       int           `json:"max_steps"`
	Engine         string        `json:"engine"`
	Workers        int           `json:"workers"`
	Mode           string        `json:"mode"`
	Random         bool          `json:"random"`
	Density        float64       `json:"density"`
	Seed           int64         `json:"seed"`
	CellSize       int           `json:"cell_size"`
	StopWhenStable bool          `json:"stop_when_stable"`
	CycleWindow    int           `json:"cycle_window"`
}

//Default returns the 20x20 grid advancing 10 times per second
func Default() Config {
	return Config{
		Width:       20,
		Height:      20,
		Interval:    100 * time.Millisecond,
		Engine:      life.EngineDouble,
		Mode:        ModeInteractive,
		Density:     0.25,
		CellSize:    32,
		CycleWindow: 4,
	}
}

//Load reads the JSON file over the defaults, an empty filename gives the defaults
func Load(filename string) (Config, error) {
	config := Default()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[Load] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[Load] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

//UnmarshalJSON accepts the interval as a duration string like "100ms" or as nanoseconds
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	aux := struct {
		*plain
		Interval interface{} `json:"interval"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Interval.(type) {
	case nil:
	case float64:
		c.Interval = time.Duration(v)
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "interval")
		}
		c.Interval = d
	default:
		return errors.Errorf("interval: unexpected value %v", v)
	}
	return nil
}

//FromEnv loads the file named by EnvFile
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvFile))
}

//Validate checks the values that would make the simulation impossible to build
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrapf(ErrInvalid, "grid size %dx%d", c.Width, c.Height)
	case c.Interval < 0:
		return errors.Wrapf(ErrInvalid, "negative interval %v", c.Interval)
	case c.MaxSteps < 0:
		return errors.Wrapf(ErrInvalid, "negative max steps %d", c.MaxSteps)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalid, "negative workers %d", c.Workers)
	case c.Density < 0 || c.Density > 1:
		return errors.Wrapf(ErrInvalid, "density %v outside [0,1]", c.Density)
	case c.CellSize <= 0:
		return errors.Wrapf(ErrInvalid, "cell size %d", c.CellSize)
	case c.CycleWindow < 0:
		return errors.Wrapf(ErrInvalid, "negative cycle window %d", c.CycleWindow)
	}
	if _, err := life.EngineByName(c.Engine, c.Workers); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	for _, m := range Modes {
		if c.Mode == m {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalid, "unknown mode %q", c.Mode)
}
