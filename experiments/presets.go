package experiments

import (
	"fmt"

	"anticonnect/experiments/metrics"
	"anticonnect/game"
	"anticonnect/meta"
)

// SelectorConfig is the tournament agent as configured.
func SelectorConfig(cfg meta.Config) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:          1,
		Kind:        "selector",
		Budget:      cfg.Budget,
		MCTSShare:   cfg.MCTSShare,
		Depth:       cfg.Depth,
		Breadth:     cfg.Breadth,
		Exploration: cfg.Exploration,
		Opening:     cfg.Opening,
		Mirror:      cfg.MirrorEnabled(),
	}
}

// Baselines pits the selector against plain MCTS, plain alpha-beta and itself.
func Baselines(selector metrics.AgentConfig) ([]metrics.AgentConfig, []Matchup) {
	mcts := metrics.AgentConfig{ID: 2, Kind: "mcts", Budget: selector.Budget, Exploration: selector.Exploration}
	alphaBeta := metrics.AgentConfig{ID: 3, Kind: "alphabeta", Budget: selector.Budget, Depth: selector.Depth, Breadth: selector.Breadth}

	configs := []metrics.AgentConfig{selector, mcts, alphaBeta}
	matchups := []Matchup{
		{A: selector, B: mcts},
		{A: selector, B: alphaBeta},
		{A: selector, B: selector},
	}
	return configs, matchups
}

// ShareSweep plays selectors with different MCTS shares against the given one.
func ShareSweep(selector metrics.AgentConfig, shares []float64) ([]metrics.AgentConfig, []Matchup) {
	configs := []metrics.AgentConfig{selector}
	var matchups []Matchup
	for i, share := range shares {
		config := selector
		config.ID = selector.ID + i + 1
		config.MCTSShare = share
		configs = append(configs, config)
		matchups = append(matchups, Matchup{A: selector, B: config})
	}
	return configs, matchups
}

// FromConfig builds the named self-play experiment.
func FromConfig(cfg meta.Config) (Experiment, error) {
	selector := SelectorConfig(cfg)
	exp := Experiment{
		Name:     cfg.SelfPlay.Experiment,
		Rules:    game.Rules{Size: cfg.Size, RunLength: cfg.RunLength},
		Games:    cfg.SelfPlay.Games,
		Parallel: cfg.SelfPlay.Parallel,
		Seed:     cfg.Seed,
		OutDir:   cfg.SelfPlay.OutDir,
	}

	switch exp.Name {
	case "baselines":
		exp.Configs, exp.Matchups = Baselines(selector)
	case "share":
		exp.Configs, exp.Matchups = ShareSweep(selector, []float64{0, 0.3, 0.9})
	case "mirror":
		noMirror := selector
		noMirror.ID = 2
		noMirror.Mirror = !selector.Mirror
		exp.Configs = []metrics.AgentConfig{selector, noMirror}
		exp.Matchups = []Matchup{{A: selector, B: noMirror}, {A: noMirror, B: selector}}
	default:
		return Experiment{}, fmt.Errorf("unknown experiment %q", exp.Name)
	}
	return exp, nil
}
