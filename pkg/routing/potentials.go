package routing

import (
	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// HeuristicProvider supplies an admissible potential toward a fixed
// target node.
type HeuristicProvider interface {
	SetTarget(target da.Index)
	Potential(n da.Index) uint32
}

// CHPotentials turns a contraction hierarchy into a consistent admissible
// A* heuristic. For a target t, the potential of n is the shortest
// up-then-down distance from n to t over CH arcs: a full Dijkstra on the
// downward side is run once per target, and the upward minimization
//
//	pi(n) = min( d_down(n), min over up-arcs (n->m) of pi(m) + w(n,m) )
//
// is memoized lazily per node. The memo epoch advances on every target
// change, before the new downward Dijkstra runs, so stale stamps cannot
// leak between queries.
//
// The forward variant (NewCHPotentials) bounds distances toward the
// query target; the reverse variant (NewReverseCHPotentials) swaps the
// roles of the two CH graphs and bounds distances from the source.
type CHPotentials struct {
	upGraph    *da.Graph
	downSearch *Dijkstra
	potentials *da.TimestampVector[uint32]
	stack      []da.Index
	target     da.Index
}

func NewCHPotentials(ch *da.ContractionHierarchy) *CHPotentials {
	return newPotentials(ch.ForwardGraph, ch.BackwardGraph)
}

func NewReverseCHPotentials(ch *da.ContractionHierarchy) *CHPotentials {
	return newPotentials(ch.BackwardGraph, ch.ForwardGraph)
}

func newPotentials(upGraph, downGraph *da.Graph) *CHPotentials {
	return &CHPotentials{
		upGraph:    upGraph,
		downSearch: NewDijkstra(downGraph),
		potentials: da.NewTimestampVector[uint32](upGraph.NumberOfNodes(), pkg.INF_WEIGHT),
		stack:      make([]da.Index, 0, 256),
		target:     da.INVALID_ID,
	}
}

func (p *CHPotentials) SetTarget(target da.Index) {
	p.potentials.StepTime()
	p.downSearch.Finish()
	p.downSearch.SetSource(target)
	p.downSearch.RunUntilDone()
	p.target = target
}

// Potential computes the memoized potential iteratively with an explicit
// stack, the lazy recursion can otherwise deepen linearly in CH height.
func (p *CHPotentials) Potential(n da.Index) uint32 {
	if p.potentials.Has(n) {
		return p.potentials.Get(n)
	}
	p.stack = append(p.stack[:0], n)
	for len(p.stack) > 0 {
		u := p.stack[len(p.stack)-1]
		if p.potentials.Has(u) {
			p.stack = p.stack[:len(p.stack)-1]
			continue
		}
		ready := true
		for _, arc := range p.upGraph.OutArcs(u) {
			if !p.potentials.Has(arc.Target) {
				p.stack = append(p.stack, arc.Target)
				ready = false
			}
		}
		if !ready {
			continue
		}
		best := p.downSearch.Dist(u)
		for _, arc := range p.upGraph.OutArcs(u) {
			best = minWeight(best, addWeights(p.potentials.Get(arc.Target), arc.Weight))
		}
		p.potentials.Set(u, best)
		p.stack = p.stack[:len(p.stack)-1]
	}
	return p.potentials.Get(n)
}
