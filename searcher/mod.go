package searcher

import (
	"context"
	"time"

	"anticonnect/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant, c = sqrt(2)

const WIN = 1.0   // Reward for winning outcome
const LOSS = -WIN // Reward for loss outcome (negate from opponent perspective)
const DRAW = 0.0

// rewarder scores a finished playout for each player given who lost it.
func rewarder(loser game.Color) func(player game.Color) float64 {
	return func(player game.Color) float64 {
		switch loser {
		case game.Empty:
			return DRAW
		case player:
			return LOSS
		default:
			return WIN
		}
	}
}

// clock polls a wall-clock deadline. A zero deadline never expires.
type clock struct {
	ctx      context.Context
	deadline time.Time
}

// newClock merges the context deadline with a budget measured from now.
func newClock(ctx context.Context, budget time.Duration) clock {
	var deadline time.Time
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return clock{ctx: ctx, deadline: deadline}
}

func (c clock) expired() bool {
	if c.ctx.Err() != nil {
		return true
	}
	return !c.deadline.IsZero() && !time.Now().Before(c.deadline)
}
