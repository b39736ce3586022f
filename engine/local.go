package engine

import (
	"context"
	"fmt"
	"time"

	"anticonnect/agent"
	"anticonnect/experiments/metrics"
	"anticonnect/game"
	"anticonnect/viewer"

	"github.com/rs/zerolog/log"
)

// Local plays two in-process agents against each other on one board.
type Local struct {
	board  *game.Board
	agents [2]agent.Agent
	first  game.Color
	viewer *viewer.Viewer
}

// LocalEngine seats agentA as PlayerA and agentB as PlayerB; first moves first.
func LocalEngine(rules game.Rules, first game.Color, agentA, agentB agent.Agent) *Local {
	if agentA == nil || agentB == nil {
		panic("need two agents")
	}
	if first != game.PlayerA && first != game.PlayerB {
		panic(fmt.Sprintf("invalid starting player %v", first))
	}
	return &Local{
		board:  game.NewBoard(rules),
		agents: [2]agent.Agent{agentA, agentB},
		first:  first,
	}
}

// WithViewer renders the board after every move.
func (e *Local) WithViewer(v *viewer.Viewer) *Local {
	e.viewer = v
	return e
}

func (e *Local) agent(color game.Color) agent.Agent {
	if color == game.PlayerA {
		return e.agents[0]
	}
	return e.agents[1]
}

// Run executes the game loop until the board is finished.
func (e *Local) Run(ctx context.Context) (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.first.String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %v is starting", e.first)

	for step := 1; !e.board.Finished(); step++ {
		if err := ctx.Err(); err != nil {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("game stopped at move %d: %w", step, err)
		}

		color := e.board.ToMove(e.first)
		decision, err := e.agent(color).FindMove(ctx, e.board, color)
		if err != nil {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("player %v failed at move %d: %w", color, step, err)
		}
		if !e.board.Rules().Contains(decision.Move) || e.board.At(decision.Move) != game.Empty {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("player %v played invalid move %v at move %d", color, decision.Move, step)
		}

		e.board.Place(decision.Move, color)
		moveMetrics = append(moveMetrics, moveMetric(step, color, decision))

		log.Debug().
			Int("step", step).
			Stringer("player", color).
			Stringer("move", decision.Move).
			Str("source", string(decision.Source)).
			Msg("move played")

		if e.viewer != nil {
			if err := e.viewer.Render(e.board); err != nil {
				log.Warn().Err(err).Msg("failed to render board")
			}
		}
	}

	loser := e.board.Loser()
	if loser != game.Empty {
		gameMetric.Loser = loser.String()
	}
	gameMetric.Result = e.board.Outcome(game.PlayerA).String()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	log.Info().Msgf("game over after %d moves: %s for %v", gameMetric.TotalMoves, gameMetric.Result, game.PlayerA)

	return loser, gameMetric, moveMetrics, nil
}

func moveMetric(step int, color game.Color, decision agent.Decision) metrics.MoveMetric {
	m := metrics.MoveMetric{
		Step:    step,
		Player:  color.String(),
		Row:     decision.Move.Row,
		Col:     decision.Move.Col,
		Source:  string(decision.Source),
		Score:   decision.Score,
		Elapsed: decision.Elapsed,
	}
	for _, search := range decision.Search {
		m.Record(search)
	}
	return m
}
