package searcher

import (
	"math"

	"anticonnect/game"
)

// uct scores children of a node visited N times.
type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// selectChild returns the child with the highest UCT score. Every child must
// have been visited.
func (n *node) selectChild(cSquared float64) *node {
	if len(n.children) == 0 {
		panic("node has no children")
	}

	policy := newUCT(cSquared, float64(n.visits))
	var best *node
	maxScore := math.Inf(-1)
	for _, child := range n.children {
		if score := policy.evaluate(child.rewards, float64(child.visits)); score > maxScore {
			maxScore = score
			best = child
		}
	}
	return best
}

// findBestMove returns the most visited child, or nil when no child was visited.
func (n *node) findBestMove() *node {
	var best *node
	for _, child := range n.children {
		if child.visits == 0 {
			continue
		}
		if best == nil || child.visits > best.visits ||
			(child.visits == best.visits && child.value() > best.value()) {
			best = child
		}
	}
	return best
}

// policy returns each child's share of the visits.
func (n *node) policy() map[game.Move]float64 {
	policy := make(map[game.Move]float64, len(n.children))
	total := 0
	for _, child := range n.children {
		total += child.visits
	}
	if total == 0 {
		return policy
	}
	for _, child := range n.children {
		policy[child.move] = float64(child.visits) / float64(total)
	}
	return policy
}
