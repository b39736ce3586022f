package searcher

import (
	"context"
	"time"

	"anticonnect/experiments/metrics"
	"anticonnect/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(m *MCTS)

// MCTS is a UCB1 tree search that walks a single board by place and undo.
// It is not safe for concurrent use; run one per goroutine.
type MCTS struct {
	duration time.Duration
	episodes int
	cSquared float64
	seed     uint64
	rng      *rand.Rand
	metrics  metrics.Collector
	root     *node
	nodes    int
	cells    []game.Move // Rollout scratch buffer
}

// Result is the outcome of one MCTS search.
type Result struct {
	Move     game.Move
	Visits   int     // Visits of Move
	Value    float64 // Mean reward of Move for the searching player, in [-1, 1]
	Episodes int
	Nodes    int
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

// WithExploration sets the UCB1 exploration constant c.
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.cSquared = c * c
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		cSquared: CSquared,
		seed:     uint64(time.Now().UnixNano()),
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	m.rng = rand.New(rand.NewSource(m.seed))
	return m
}

// Search runs episodes for color until the episode cap, the duration or the
// context deadline is reached. The board is restored before it returns.
func (m *MCTS) Search(ctx context.Context, b *game.Board, color game.Color) (Result, metrics.SearchMetric) {
	m.metrics.Start("mcts")
	m.root = newNode(nil, game.NoMove, color.Opponent())
	m.root.expand(b, m.rng)
	m.nodes = 1
	m.metrics.AddNodes(1)

	episodes := 0
	if len(m.root.moves) > 1 {
		clock := newClock(ctx, m.duration)
		for (m.episodes <= 0 || episodes < m.episodes) && !clock.expired() {
			m.simulate(b)
			m.metrics.AddEpisode()
			episodes++
		}
	}
	metric := m.metrics.Complete()

	result := Result{Move: game.NoMove, Episodes: episodes, Nodes: m.nodes}
	if len(m.root.moves) == 1 { // Nothing to search
		result.Move = m.root.moves[0]
	} else if best := m.root.findBestMove(); best != nil {
		result.Move = best.move
		result.Visits = best.visits
		result.Value = best.value()
	}

	log.Debug().
		Int("episodes", episodes).
		Int("nodes", m.nodes).
		Stringer("move", result.Move).
		Int("visits", result.Visits).
		Float64("value", result.Value).
		Msg("mcts search finished")
	return result, metric
}

// Policy returns the visit share of each root move from the last search.
func (m *MCTS) Policy() map[game.Move]float64 {
	if m.root == nil {
		return map[game.Move]float64{}
	}
	return m.root.policy()
}

func (m *MCTS) simulate(b *game.Board) {
	leaf, placed := m.selectThenExpand(b)
	loser, played := m.rollout(b, leaf)
	m.metrics.ObserveDepth(placed + played)
	for i := 0; i < placed+played; i++ {
		b.Undo()
	}
	backup(leaf, loser)
}

// selectThenExpand descends by UCT, placing each move on the board, until it
// adds a new child or reaches a terminal node.
func (m *MCTS) selectThenExpand(b *game.Board) (*node, int) {
	n := m.root
	placed := 0
	for {
		if !n.expanded {
			n.expand(b, m.rng)
		}
		if n.terminal {
			return n, placed
		}

		child, added := n.selectOrExpand(m.cSquared)
		b.Place(child.move, child.player)
		placed++
		n = child
		if added {
			m.nodes++
			m.metrics.AddNodes(1)
			return n, placed
		}
	}
}

// rollout plays uniformly random legal moves from the leaf until the game
// ends. It returns the loser, Empty on a draw, and the number of stones placed.
func (m *MCTS) rollout(b *game.Board, leaf *node) (game.Color, int) {
	if leaf.terminal {
		return leaf.loser, 0
	}

	toMove := leaf.player.Opponent()
	cells := b.AppendEmptyCells(m.cells[:0])
	defer func() { m.cells = cells[:0] }()

	played := 0
	for {
		if len(cells) == 0 {
			m.metrics.AddFullPlayout()
			return game.Empty, played
		}

		// Sample empty cells without replacement until one is legal
		picked := -1
		for n := len(cells); n > 0; n-- {
			i := m.rng.Intn(n)
			if b.IsLegal(cells[i], toMove) {
				picked = i
				break
			}
			cells[i], cells[n-1] = cells[n-1], cells[i]
		}
		if picked < 0 { // Forced to complete an own run
			return toMove, played
		}

		b.Place(cells[picked], toMove)
		played++
		last := len(cells) - 1
		cells[picked] = cells[last]
		cells = cells[:last]
		toMove = toMove.Opponent()
	}
}

func backup(leaf *node, loser game.Color) {
	reward := rewarder(loser)
	n := leaf
	for n != nil {
		n = n.backup(reward)
	}
}
