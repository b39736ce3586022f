package engine

import (
	"context"

	"anticonnect/experiments/metrics"
	"anticonnect/game"
)

type Engine interface {
	// Run plays a game until a player completes a run or the board is full.
	// The loser is Empty on a draw.
	Run(ctx context.Context) (loser game.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
