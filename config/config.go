package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"wrapsnake/game"
	"wrapsnake/game/types"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
)

type Board struct {
	Width    int `yaml:"width"`    // cells
	Height   int `yaml:"height"`   // cells
	CellSize int `yaml:"cellSize"` // pixels per cell edge
}

type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Autopilot struct {
	Enabled     bool   `yaml:"enabled"`
	QTableFile  string `yaml:"qtableFile"`
	AutoRestart bool   `yaml:"autoRestart"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stderr
}

// Config is the YAML config file layout.
type Config struct {
	Board        Board         `yaml:"board"`
	TickInterval time.Duration `yaml:"tickInterval"`
	Start        Cell          `yaml:"start"`
	FruitStart   Cell          `yaml:"fruitStart"`
	FruitColor   string        `yaml:"fruitColor"`
	Frontend     string        `yaml:"frontend"`
	Seed         uint64        `yaml:"seed"`
	StatsFile    string        `yaml:"statsFile"`
	Autopilot    Autopilot     `yaml:"autopilot"`
	Log          Log           `yaml:"log"`
}

// Default mirrors the browser game: a 400x400 canvas of 20px cells, a 250ms tick.
func Default() *Config {
	return &Config{
		Board: Board{
			Width:    types.DefaultBoardCells,
			Height:   types.DefaultBoardCells,
			CellSize: types.DefaultCellSize,
		},
		TickInterval: types.DefaultTickInterval,
		Start:        Cell{X: types.DefaultStart.X, Y: types.DefaultStart.Y},
		FruitStart:   Cell{X: types.DefaultFruit.X, Y: types.DefaultFruit.Y},
		FruitColor:   "blue",
		Frontend:     FrontendWindow,
		StatsFile:    "data/stats.json",
		Autopilot: Autopilot{
			QTableFile: "data/qtable.json",
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Grid() types.Grid {
	return types.Grid{Width: c.Board.Width, Height: c.Board.Height, CellSize: c.Board.CellSize}
}

// Validate fails fast on values the engine or the frontends cannot run with.
func (c *Config) Validate() error {
	if err := c.Grid().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive, got %s", ErrInvalidConfig, c.TickInterval)
	}
	if _, ok := types.ParseColor(strings.ToLower(c.FruitColor)); !ok {
		return fmt.Errorf("%w: unknown fruit color %q", ErrInvalidConfig, c.FruitColor)
	}
	switch c.Frontend {
	case FrontendWindow, FrontendTerminal:
	default:
		return fmt.Errorf("%w: unknown frontend %q", ErrInvalidConfig, c.Frontend)
	}
	return nil
}

// EngineOptions translates the config into engine options.
func (c *Config) EngineOptions() game.Options {
	color, _ := types.ParseColor(strings.ToLower(c.FruitColor))
	return game.Options{
		Grid:       c.Grid(),
		Start:      types.Point{X: c.Start.X, Y: c.Start.Y},
		FruitStart: types.Point{X: c.FruitStart.X, Y: c.FruitStart.Y},
		FruitColor: color,
		Seed:       c.Seed,
	}
}
