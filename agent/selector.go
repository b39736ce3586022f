package agent

import (
	"context"
	"fmt"
	"time"

	"anticonnect/experiments/metrics"
	"anticonnect/game"
	"anticonnect/meta"
	"anticonnect/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(s *Selector)

// Selector chooses a move per turn: a fixed opening, a mirror reply, or MCTS
// followed by alpha-beta seeded with the MCTS candidate, with fallbacks when
// a search comes back empty.
type Selector struct {
	budget      time.Duration
	mctsShare   float64
	depth       int
	breadth     int
	exploration float64
	opening     Opening
	mirror      bool
	weights     game.Weights
	metrics     bool
	rng         *rand.Rand
}

// WithBudget sets the wall-clock budget of one move.
func WithBudget(budget time.Duration) Option {
	return func(s *Selector) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// WithMCTSShare sets the fraction of the budget spent on MCTS; alpha-beta
// gets the rest.
func WithMCTSShare(share float64) Option {
	return func(s *Selector) {
		if share >= 0 && share <= 1 {
			s.mctsShare = share
		}
	}
}

func WithDepth(depth int) Option {
	return func(s *Selector) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

func WithBreadth(breadth int) Option {
	return func(s *Selector) {
		if breadth >= 0 {
			s.breadth = breadth
		}
	}
}

func WithExploration(c float64) Option {
	return func(s *Selector) {
		if c > 0 {
			s.exploration = c
		}
	}
}

func WithOpening(opening Opening) Option {
	return func(s *Selector) {
		s.opening = opening
	}
}

func WithMirror(enabled bool) Option {
	return func(s *Selector) {
		s.mirror = enabled
	}
}

func WithWeights(weights game.Weights) Option {
	return func(s *Selector) {
		s.weights = weights
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Selector) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithMetrics collects MCTS episode metrics in each Decision.
func WithMetrics() Option {
	return func(s *Selector) {
		s.metrics = true
	}
}

func NewSelector(options ...Option) *Selector {
	s := &Selector{ // Default values
		budget:      meta.TIME_BUDGET,
		mctsShare:   meta.MCTS_SHARE,
		depth:       meta.SEARCH_DEPTH,
		breadth:     meta.SEARCH_BREADTH,
		exploration: meta.EXPLORATION,
		opening:     OpeningCenter,
		mirror:      true,
		weights:     game.DefaultWeights(),
		rng:         rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// FindMove picks a move for color within the budget. The board is left as it
// was found.
func (s *Selector) FindMove(ctx context.Context, b *game.Board, color game.Color) (Decision, error) {
	start := time.Now()
	if b.Finished() {
		return Decision{Move: game.NoMove}, ErrGameOver
	}

	if b.Stones() == 0 && s.opening != OpeningNone {
		move := s.opening.Move(b.Rules())
		if b.IsLegal(move, color) {
			log.Info().Msgf("playing %s opening at %v", s.opening, move)
			return s.decide(Decision{Move: move, Source: SourceOpening}, start), nil
		}
	}

	if s.mirror {
		if move, ok := mirrorReply(b, color); ok {
			log.Info().Msgf("mirroring opponent stone with %v", move)
			return s.decide(Decision{Move: move, Source: SourceMirror}, start), nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	decision, err := s.search(ctx, b, color)
	if err != nil {
		return Decision{Move: game.NoMove}, err
	}
	return s.decide(decision, start), nil
}

func (s *Selector) search(ctx context.Context, b *game.Board, color game.Color) (Decision, error) {
	var search []metrics.SearchMetric

	candidate := game.NoMove
	if budget := s.mctsBudget(ctx); budget > 0 {
		options := []searcher.Option{
			searcher.WithDuration(budget),
			searcher.WithExploration(s.exploration),
			searcher.WithSeed(s.rng.Uint64()),
		}
		if s.metrics {
			options = append(options, searcher.WithMetrics())
		}
		mcts := searcher.NewMCTS(options...)
		result, metric := mcts.Search(ctx, b, color)
		candidate = result.Move
		search = append(search, metric)
		if !candidate.IsNone() {
			log.Debug().
				Stringer("move", candidate).
				Float64("share", mcts.Policy()[candidate]).
				Float64("value", result.Value).
				Msg("mcts candidate")
		}
	}

	line, metric := s.deepen(ctx, b, color, candidate)
	search = append(search, metric)

	switch {
	case line.Complete && !line.Move.IsNone():
		return Decision{Move: line.Move, Source: SourceAlphaBeta, Score: line.Score, Search: search}, nil
	case !candidate.IsNone():
		return Decision{Move: candidate, Source: SourceMonteCarlo, Search: search}, nil
	case !line.Move.IsNone():
		return Decision{Move: line.Move, Source: SourceAlphaBeta, Score: line.Score, Search: search}, nil
	}

	move, source, err := fallback(b, color, s.weights, s.rng)
	if err != nil {
		return Decision{}, fmt.Errorf("no move for %v: %w", color, err)
	}
	if source == SourceRandom {
		log.Warn().Msgf("every empty cell completes a run for %v, playing %v", color, move)
	}
	return Decision{Move: move, Source: source, Search: search}, nil
}

// deepen runs alpha-beta from the configured depth one ply deeper at a time
// until the deadline, seeding each pass with the previous best move. The
// deepest complete pass is returned; a cut pass only when none completed.
func (s *Selector) deepen(ctx context.Context, b *game.Board, color game.Color, seed game.Move) (searcher.AlphaBetaResult, metrics.SearchMetric) {
	best := searcher.AlphaBetaResult{Move: game.NoMove}
	var total metrics.SearchMetric
	for depth := s.depth; ; depth++ {
		ab := searcher.NewAlphaBeta(
			searcher.WithDepth(depth),
			searcher.WithBreadth(s.breadth),
			searcher.WithWeights(s.weights),
		)
		line, metric := ab.Search(ctx, b, color, seed)
		total.Algorithm = metric.Algorithm
		total.Duration += metric.Duration
		total.Nodes += metric.Nodes

		if !line.Complete {
			if !total.Complete {
				best, total.MaxDepth = line, depth
			}
			break
		}
		best, seed = line, line.Move
		total.MaxDepth, total.Complete = depth, true

		// Deeper passes cannot change an exhaustive or decided result
		if depth >= b.Empty() || decided(line.Score) || ctx.Err() != nil {
			break
		}
	}
	return best, total
}

func decided(score int) bool {
	return score >= searcher.WinScore || score <= -searcher.WinScore
}

// mctsBudget is the MCTS share of the time left before the deadline.
func (s *Selector) mctsBudget(ctx context.Context) time.Duration {
	remaining := s.budget
	if deadline, ok := ctx.Deadline(); ok {
		remaining = time.Until(deadline)
	}
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining) * s.mctsShare)
}

func (s *Selector) decide(d Decision, start time.Time) Decision {
	d.Elapsed = time.Since(start)
	log.Info().
		Str("source", string(d.Source)).
		Stringer("move", d.Move).
		Int("score", d.Score).
		Dur("elapsed", d.Elapsed).
		Msg("move selected")
	return d
}
