package agent

import (
	"context"
	"errors"
	"time"

	"anticonnect/experiments/metrics"
	"anticonnect/game"

	"golang.org/x/exp/rand"
)

// ErrGameOver is returned when the board is finished or has no empty cell.
var ErrGameOver = errors.New("game over")

type Agent interface {
	// FindMove returns the move to play for color and how it was chosen
	FindMove(ctx context.Context, b *game.Board, color game.Color) (Decision, error)
}

// Source names the stage that produced a move.
type Source string

const (
	SourceOpening    Source = "opening"
	SourceMirror     Source = "mirror"
	SourceAlphaBeta  Source = "alphabeta"
	SourceMonteCarlo Source = "montecarlo"
	SourceRanked     Source = "ranked"
	SourceRandom     Source = "random"
	SourceRemote     Source = "remote"
)

type Decision struct {
	Move    game.Move
	Source  Source
	Score   int // Alpha-beta score, when alpha-beta produced the move
	Elapsed time.Duration
	Search  []metrics.SearchMetric
}

// fallback picks the best ranked legal move, or a random empty cell when
// every empty cell completes an own run.
func fallback(b *game.Board, color game.Color, weights game.Weights, rng *rand.Rand) (game.Move, Source, error) {
	if game.ForcedLoss(b, color) {
		empty := b.EmptyCells()
		return empty[rng.Intn(len(empty))], SourceRandom, nil
	}
	if legal := game.LegalMoves(b, color); len(legal) > 0 {
		return weights.Rank(b, legal, color)[0], SourceRanked, nil
	}
	return game.NoMove, "", ErrGameOver
}
