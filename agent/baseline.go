package agent

import (
	"context"
	"time"

	"anticonnect/experiments/metrics"
	"anticonnect/game"
	"anticonnect/searcher"

	"golang.org/x/exp/rand"
)

type mctsAgent struct {
	mcts *searcher.MCTS
	rng  *rand.Rand
}

// NewMCTSAgent returns an agent that plays the most visited move of a plain
// MCTS search, for comparison against the Selector in experiments.
func NewMCTSAgent(mcts *searcher.MCTS, seed uint64) Agent {
	return mctsAgent{mcts: mcts, rng: rand.New(rand.NewSource(seed))}
}

func (a mctsAgent) FindMove(ctx context.Context, b *game.Board, color game.Color) (Decision, error) {
	start := time.Now()
	if b.Finished() {
		return Decision{Move: game.NoMove}, ErrGameOver
	}

	result, metric := a.mcts.Search(ctx, b, color)
	decision := Decision{Move: result.Move, Source: SourceMonteCarlo, Search: []metrics.SearchMetric{metric}}
	if result.Move.IsNone() {
		move, source, err := fallback(b, color, game.DefaultWeights(), a.rng)
		if err != nil {
			return Decision{Move: game.NoMove}, err
		}
		decision.Move, decision.Source = move, source
	}
	decision.Elapsed = time.Since(start)
	return decision, nil
}

type alphaBetaAgent struct {
	ab     *searcher.AlphaBeta
	budget time.Duration
	rng    *rand.Rand
}

// NewAlphaBetaAgent returns an agent that plays the alpha-beta result alone.
func NewAlphaBetaAgent(ab *searcher.AlphaBeta, budget time.Duration, seed uint64) Agent {
	return alphaBetaAgent{ab: ab, budget: budget, rng: rand.New(rand.NewSource(seed))}
}

func (a alphaBetaAgent) FindMove(ctx context.Context, b *game.Board, color game.Color) (Decision, error) {
	start := time.Now()
	if b.Finished() {
		return Decision{Move: game.NoMove}, ErrGameOver
	}
	if a.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.budget)
		defer cancel()
	}

	line, metric := a.ab.Search(ctx, b, color, game.NoMove)
	decision := Decision{Move: line.Move, Source: SourceAlphaBeta, Score: line.Score, Search: []metrics.SearchMetric{metric}}
	if line.Move.IsNone() {
		move, source, err := fallback(b, color, game.DefaultWeights(), a.rng)
		if err != nil {
			return Decision{Move: game.NoMove}, err
		}
		decision.Move, decision.Source = move, source
	}
	decision.Elapsed = time.Since(start)
	return decision, nil
}
