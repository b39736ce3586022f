package searcher

import (
	"context"
	"time"

	"anticonnect/experiments/metrics"
	"anticonnect/game"

	"github.com/rs/zerolog/log"
)

// WinScore scales decisive results; it is multiplied by the number of plies
// left on the board so that quicker wins and slower losses are preferred.
const WinScore = 1_000_000_000

const infinity = 1 << 62

const DefaultDepth = 3

type AlphaBetaOption func(a *AlphaBeta)

// AlphaBeta is a depth-limited negamax search with alpha-beta pruning over a
// single board by place and unplace.
type AlphaBeta struct {
	depth    int
	breadth  int // Children searched per node, 0 for all
	duration time.Duration
	weights  game.Weights
	metrics  metrics.Collector
	clock    clock
	nodes    int
	cells    int
}

type AlphaBetaResult struct {
	Move     game.Move
	Score    int  // From the searching player's perspective
	Complete bool // Every root child was searched to full depth
	Nodes    int
}

func WithDepth(depth int) AlphaBetaOption {
	return func(a *AlphaBeta) {
		if depth > 0 {
			a.depth = depth
		}
	}
}

// WithBreadth keeps only the best ranked moves at every node.
func WithBreadth(breadth int) AlphaBetaOption {
	return func(a *AlphaBeta) {
		if breadth > 0 {
			a.breadth = breadth
		}
	}
}

func WithWeights(weights game.Weights) AlphaBetaOption {
	return func(a *AlphaBeta) {
		a.weights = weights
	}
}

// WithTimeLimit bounds each search in addition to the context deadline.
func WithTimeLimit(duration time.Duration) AlphaBetaOption {
	return func(a *AlphaBeta) {
		if duration > 0 {
			a.duration = duration
		}
	}
}

func NewAlphaBeta(options ...AlphaBetaOption) *AlphaBeta {
	a := &AlphaBeta{
		depth:   DefaultDepth,
		weights: game.DefaultWeights(),
		metrics: metrics.NewCollector(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Search finds the best move for color. A legal seed move is searched first
// at the root. When the deadline fires, only root children searched to the
// end count towards the result.
func (a *AlphaBeta) Search(ctx context.Context, b *game.Board, color game.Color, seed game.Move) (AlphaBetaResult, metrics.SearchMetric) {
	a.metrics.Start("alphabeta")
	a.clock = newClock(ctx, a.duration)
	a.nodes = 0
	a.cells = b.Rules().Cells()

	result := AlphaBetaResult{Move: game.NoMove}
	if !b.Finished() {
		result = a.searchRoot(b, color, seed)
	}
	result.Nodes = a.nodes

	log.Debug().
		Int("depth", a.depth).
		Int("nodes", a.nodes).
		Stringer("move", result.Move).
		Int("score", result.Score).
		Bool("complete", result.Complete).
		Msg("alpha-beta search finished")

	a.metrics.AddNodes(a.nodes)
	a.metrics.ObserveDepth(a.depth)
	a.metrics.SetComplete(result.Complete)
	return result, a.metrics.Complete()
}

func (a *AlphaBeta) searchRoot(b *game.Board, color game.Color, seed game.Move) AlphaBetaResult {
	moves := a.candidates(b, color, seed)
	if len(moves) == 0 {
		return AlphaBetaResult{Move: game.NoMove, Score: -a.decisive(1), Complete: true}
	}

	result := AlphaBetaResult{Move: game.NoMove, Score: -infinity, Complete: true}
	alpha := -infinity
	for _, move := range moves {
		score, ok := a.child(b, move, color, a.depth, 0, alpha, infinity)
		if !ok { // Deadline; the partial subtree is discarded
			result.Complete = false
			break
		}
		if score > result.Score {
			result.Move, result.Score = move, score
		}
		alpha = max(alpha, score)
	}
	if result.Move.IsNone() {
		result.Score = 0
	}
	return result
}

// negamax scores the board for toMove, ply stones below the root. ok is false
// when the deadline cut the subtree short.
func (a *AlphaBeta) negamax(b *game.Board, toMove game.Color, depth, ply, alpha, beta int) (int, bool) {
	a.nodes++
	if a.clock.expired() {
		return 0, false
	}
	if depth == 0 {
		return a.weights.Heuristic(b, toMove), true
	}

	moves := a.candidates(b, toMove, game.NoMove)
	if len(moves) == 0 { // Forced to complete an own run
		return -a.decisive(ply + 1), true
	}

	best := -infinity
	for _, move := range moves {
		score, ok := a.child(b, move, toMove, depth, ply, alpha, beta)
		if !ok {
			return 0, false
		}
		best = max(best, score)
		alpha = max(alpha, best)
		if alpha >= beta {
			break
		}
	}
	return best, true
}

// child plays move for toMove and scores the result from toMove's perspective.
func (a *AlphaBeta) child(b *game.Board, move game.Move, toMove game.Color, depth, ply, alpha, beta int) (int, bool) {
	b.Place(move, toMove)
	defer b.Unplace(move)

	if b.IsTerminalAfter(move, toMove) {
		if b.Completed(move, toMove) {
			return -a.decisive(ply + 1), true
		}
		return 0, true
	}
	score, ok := a.negamax(b, toMove.Opponent(), depth-1, ply+1, -beta, -alpha)
	return -score, ok
}

// decisive is the magnitude of a result decided at the given ply.
func (a *AlphaBeta) decisive(ply int) int {
	return WinScore * (a.cells + 1 - ply)
}

// candidates ranks the legal moves of color, trims them to the breadth and
// puts a legal seed first.
func (a *AlphaBeta) candidates(b *game.Board, color game.Color, seed game.Move) []game.Move {
	moves := a.weights.Rank(b, game.LegalMoves(b, color), color)
	if a.breadth > 0 && len(moves) > a.breadth {
		moves = moves[:a.breadth]
	}
	if seed.IsNone() || !b.IsLegal(seed, color) {
		return moves
	}

	seeded := make([]game.Move, 0, len(moves)+1)
	seeded = append(seeded, seed)
	for _, move := range moves {
		if move != seed {
			seeded = append(seeded, move)
		}
	}
	return seeded
}
