// meta/meta.go
package meta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// BOARD_SIZE is the side of the tournament board.
const BOARD_SIZE = 11

// RUN_LENGTH is the run length that loses.
const RUN_LENGTH = 4

// TIME_BUDGET is the wall-clock budget for one move.
const TIME_BUDGET = 5500 * time.Millisecond

// MCTS_SHARE is the fraction of the budget given to MCTS before alpha-beta.
const MCTS_SHARE = 0.6

// SEARCH_DEPTH is the alpha-beta depth in plies.
const SEARCH_DEPTH = 3

// SEARCH_BREADTH caps the children alpha-beta searches per node.
const SEARCH_BREADTH = 12

// EXPLORATION is the UCB1 exploration constant, sqrt(2).
const EXPLORATION = 1.4142135623730951

// OPENING is the fixed first move strategy.
const OPENING = "center"

// OPENINGS lists the accepted first move strategies.
var OPENINGS = []string{"center", "corner", "none"}

// MAX_GAMES caps self-play games per matchup.
const MAX_GAMES = 1000

// Config collects every tunable of the engine. Zero fields fall back to the
// defaults above.
type Config struct {
	Size        int           `yaml:"size"`
	RunLength   int           `yaml:"run_length"`
	Budget      time.Duration `yaml:"budget"`
	MCTSShare   float64       `yaml:"mcts_share"`
	Depth       int           `yaml:"depth"`
	Breadth     int           `yaml:"breadth"`
	Exploration float64       `yaml:"exploration"`
	Opening     string        `yaml:"opening"`
	Mirror      *bool         `yaml:"mirror"`
	Seed        uint64        `yaml:"seed"`
	LogLevel    string        `yaml:"log_level"`
	SelfPlay    SelfPlay      `yaml:"selfplay"`
}

// SelfPlay configures local experiments.
type SelfPlay struct {
	Experiment string `yaml:"experiment"`
	Games      int    `yaml:"games"`
	Parallel   int    `yaml:"parallel"`
	OutDir     string `yaml:"out_dir"`
}

func Default() Config {
	mirror := true
	return Config{
		Size:        BOARD_SIZE,
		RunLength:   RUN_LENGTH,
		Budget:      TIME_BUDGET,
		MCTSShare:   MCTS_SHARE,
		Depth:       SEARCH_DEPTH,
		Breadth:     SEARCH_BREADTH,
		Exploration: EXPLORATION,
		Opening:     OPENING,
		Mirror:      &mirror,
		LogLevel:    "info",
		SelfPlay: SelfPlay{
			Experiment: "baselines",
			Games:      10,
			Parallel:   1,
			OutDir:     "experiments",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Size < 1:
		return fmt.Errorf("invalid size %d", c.Size)
	case c.RunLength < 2:
		return fmt.Errorf("invalid run length %d", c.RunLength)
	case c.Budget <= 0:
		return fmt.Errorf("invalid budget %s", c.Budget)
	case c.MCTSShare < 0 || c.MCTSShare > 1:
		return fmt.Errorf("invalid mcts share %v", c.MCTSShare)
	case c.Depth < 1:
		return fmt.Errorf("invalid depth %d", c.Depth)
	case c.Breadth < 0:
		return fmt.Errorf("invalid breadth %d", c.Breadth)
	case !slices.Contains(OPENINGS, c.Opening):
		return fmt.Errorf("invalid opening %q, want one of %v", c.Opening, OPENINGS)
	case c.SelfPlay.Games < 0 || c.SelfPlay.Games > MAX_GAMES:
		return fmt.Errorf("invalid number of games %d", c.SelfPlay.Games)
	case c.SelfPlay.Parallel < 0:
		return fmt.Errorf("invalid parallelism %d", c.SelfPlay.Parallel)
	}
	return nil
}

// MirrorEnabled reports the mirror reply setting, on unless disabled.
func (c Config) MirrorEnabled() bool {
	return c.Mirror == nil || *c.Mirror
}
