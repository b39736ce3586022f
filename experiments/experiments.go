package experiments

import (
	"context"
	"fmt"

	"anticonnect/agent"
	"anticonnect/engine"
	"anticonnect/experiments/metrics"
	"anticonnect/game"
	"anticonnect/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Matchup seats A as PlayerA and B as PlayerB.
type Matchup struct {
	A metrics.AgentConfig
	B metrics.AgentConfig
}

type Experiment struct {
	Name     string
	Rules    game.Rules
	Configs  []metrics.AgentConfig
	Matchups []Matchup
	Games    int // Per matchup
	Parallel int
	Seed     uint64
	OutDir   string // Nothing is written when empty
}

// Standing tallies a matchup from A's point of view.
type Standing struct {
	Matchup Matchup
	Wins    int
	Losses  int
	Draws   int
}

type Report struct {
	Dir       string
	Standings []Standing
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
}

type result struct {
	loser game.Color
	game  metrics.GameMetric
	moves []metrics.MoveMetric
}

// Run plays every matchup Games times, alternating the starting player, and
// stores the records when OutDir is set.
func Run(ctx context.Context, exp Experiment) (Report, error) {
	total := len(exp.Matchups) * exp.Games
	for _, matchup := range exp.Matchups {
		for _, config := range []metrics.AgentConfig{matchup.A, matchup.B} {
			if _, err := NewAgent(config, exp.Seed); err != nil {
				return Report{}, err
			}
		}
	}
	results := make([]result, total)

	log.Info().Msgf("starting %s experiment with %d games...", exp.Name, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(exp.Parallel, 1))
	for mi, matchup := range exp.Matchups {
		for i := 0; i < exp.Games; i++ {
			mi, matchup, i := mi, matchup, i
			id := mi*exp.Games + i
			g.Go(func() error {
				first := game.PlayerA
				if i%2 == 1 {
					first = game.PlayerB
				}
				seed := exp.Seed + uint64(id)*2
				a, err := NewAgent(matchup.A, seed)
				if err != nil {
					return err
				}
				b, err := NewAgent(matchup.B, seed+1)
				if err != nil {
					return err
				}
				e := engine.LocalEngine(exp.Rules, first, a, b)

				loser, gameMetric, moveMetrics, err := e.Run(ctx)
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}
				results[id] = result{loser: loser, game: gameMetric, moves: moveMetrics}

				log.Info().Msgf("completed matchup %d of %d game %d of %d: %s for agent %d",
					mi+1, len(exp.Matchups), i+1, exp.Games, gameMetric.Result, matchup.A.ID)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Standings: make([]Standing, len(exp.Matchups))}
	for mi, matchup := range exp.Matchups {
		report.Standings[mi].Matchup = matchup
		for i := 0; i < exp.Games; i++ {
			id := mi*exp.Games + i
			r := results[id]
			switch r.loser {
			case game.PlayerB:
				report.Standings[mi].Wins++
			case game.PlayerA:
				report.Standings[mi].Losses++
			default:
				report.Standings[mi].Draws++
			}
			report.Games = append(report.Games, metrics.GameRecord{
				ID:         id + 1,
				Agent1:     matchup.A.ID,
				Agent2:     matchup.B.ID,
				GameMetric: r.game,
			})
			for _, mm := range r.moves {
				report.Moves = append(report.Moves, metrics.MoveRecord{Game: id + 1, MoveMetric: mm})
			}
		}
		s := report.Standings[mi]
		log.Info().Msgf("agent %d vs agent %d: %d wins, %d losses, %d draws", matchup.A.ID, matchup.B.ID, s.Wins, s.Losses, s.Draws)
	}

	log.Info().Msgf("completed %s experiment", exp.Name)

	if exp.OutDir == "" {
		return report, nil
	}
	dir, err := store(exp, report)
	if err != nil {
		return report, err
	}
	report.Dir = dir
	return report, nil
}

func store(exp Experiment, report Report) (string, error) {
	writer, err := metrics.NewWriter(exp.OutDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(exp.Configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", err
	}
	log.Info().Msg("stored move records")

	path, err := writer.WriteArchive(report.Games, report.Moves)
	if err != nil {
		return "", err
	}
	log.Info().Msgf("stored move archive at %s", path)

	return writer.Dir(), nil
}

// NewAgent builds the agent a config describes.
func NewAgent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case "mcts":
		return agent.NewMCTSAgent(createMCTS(config, seed), seed), nil
	case "alphabeta":
		return agent.NewAlphaBetaAgent(createAlphaBeta(config), config.Budget, seed), nil
	case "selector", "":
		return createSelector(config, seed)
	default:
		return nil, fmt.Errorf("agent %d: unknown kind %q", config.ID, config.Kind)
	}
}

func createMCTS(config metrics.AgentConfig, seed uint64) *searcher.MCTS {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Budget > 0 {
		options = append(options, searcher.WithDuration(config.Budget))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}

func createAlphaBeta(config metrics.AgentConfig) *searcher.AlphaBeta {
	options := []searcher.AlphaBetaOption{}

	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Breadth > 0 {
		options = append(options, searcher.WithBreadth(config.Breadth))
	}
	return searcher.NewAlphaBeta(options...)
}

func createSelector(config metrics.AgentConfig, seed uint64) (*agent.Selector, error) {
	options := []agent.Option{
		agent.WithSeed(seed),
		agent.WithMirror(config.Mirror),
		agent.WithMCTSShare(config.MCTSShare),
		agent.WithMetrics(),
	}

	if config.Budget > 0 {
		options = append(options, agent.WithBudget(config.Budget))
	}
	if config.Depth > 0 {
		options = append(options, agent.WithDepth(config.Depth))
	}
	if config.Breadth > 0 {
		options = append(options, agent.WithBreadth(config.Breadth))
	}
	if config.Exploration > 0 {
		options = append(options, agent.WithExploration(config.Exploration))
	}
	if config.Opening != "" {
		opening, err := agent.ParseOpening(config.Opening)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", config.ID, err)
		}
		options = append(options, agent.WithOpening(opening))
	}
	return agent.NewSelector(options...), nil
}
