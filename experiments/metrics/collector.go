package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarises one search call.
type SearchMetric struct {
	Algorithm    string
	Duration     time.Duration
	Episodes     int // MCTS episodes
	FullPlayouts int // Rollouts that filled the board
	Nodes        int // Tree nodes created or alpha-beta nodes visited
	MaxDepth     int
	Complete     bool // Alpha-beta finished its full depth
}

type MoveMetric struct {
	Step      int
	Player    string
	Row       int
	Col       int
	Source    string // Where the selector took the move from
	Score     int
	Elapsed   time.Duration
	MCTS      SearchMetric
	AlphaBeta SearchMetric
}

// Record files metric under the matching search slot of the move.
func (m *MoveMetric) Record(metric SearchMetric) {
	switch metric.Algorithm {
	case "mcts":
		m.MCTS = metric
	case "alphabeta":
		m.AlphaBeta = metric
	}
}

type GameMetric struct {
	StartingPlayer string
	Loser          string // Empty on a draw
	Result         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(algorithm string)
	AddEpisode()
	AddFullPlayout()
	AddNodes(n int)
	ObserveDepth(depth int)
	SetComplete(value bool)
	Complete() SearchMetric
}

type collector struct {
	algorithm    string
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	nodes        atomic.Int64
	maxDepth     atomic.Int32
	complete     atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string) {
	m.algorithm = algorithm
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
	m.maxDepth.Store(0)
	m.complete.Store(false)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) ObserveDepth(depth int) {
	for {
		current := m.maxDepth.Load()
		if int32(depth) <= current || m.maxDepth.CompareAndSwap(current, int32(depth)) {
			return
		}
	}
}

func (m *collector) SetComplete(value bool) {
	m.complete.Store(value)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm:    m.algorithm,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Nodes:        int(m.nodes.Load()),
		MaxDepth:     int(m.maxDepth.Load()),
		Complete:     m.complete.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string) {}
func (m *dummyCollector) AddEpisode()            {}
func (m *dummyCollector) AddFullPlayout()        {}
func (m *dummyCollector) AddNodes(n int)         {}
func (m *dummyCollector) ObserveDepth(depth int) {}
func (m *dummyCollector) SetComplete(value bool) {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
