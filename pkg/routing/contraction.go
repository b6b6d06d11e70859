package routing

import (
	"go.uber.org/zap"

	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

type shortcutArc struct {
	from da.Index
	edge da.Edge
}

// Contractor builds a contraction hierarchy. It owns a working copy of
// the input graph, a witness-search Dijkstra over that copy, and the
// shortcut buffer reused across contraction steps, so concurrent builds
// just use separate Contractors.
type Contractor struct {
	input     *da.Graph
	working   *da.Graph
	witness   *Dijkstra
	shortcuts []shortcutArc
	log       *zap.Logger
}

func NewContractor(g *da.Graph, log *zap.Logger) *Contractor {
	working := g.Clone()
	return &Contractor{
		input:     g,
		working:   working,
		witness:   NewDijkstra(working),
		shortcuts: make([]shortcutArc, 0, 1024),
		log:       log,
	}
}

// shortcutsFor runs a witness search for every in-neighbour/out-neighbour
// pair of node. A shortcut u->w is needed only when the best u->w path
// avoiding node is strictly longer than w(u,node)+w(node,w); on equality
// the witness wins and no shortcut is emitted. The returned slice is the
// contractor's buffer, valid until the next call.
func (c *Contractor) shortcutsFor(node da.Index) []shortcutArc {
	c.shortcuts = c.shortcuts[:0]
	outArcs := c.working.OutArcs(node)
	revOutArcs := c.working.RevOutArcs(node)
	for _, in := range revOutArcs {
		c.witness.SetBlacklisted(node)
		c.witness.SetSource(in.Target)
		for _, out := range outArcs {
			viaWeight := addWeights(in.Weight, out.Weight)
			c.witness.SetMaxDist(viaWeight)
			c.witness.RunUntilTargetFound(out.Target)
			if c.witness.Dist(out.Target) > viaWeight {
				c.shortcuts = append(c.shortcuts, shortcutArc{
					from: in.Target,
					edge: da.NewEdge(out.Target, viaWeight),
				})
			}
		}
		c.witness.Finish()
	}
	return c.shortcuts
}

func (c *Contractor) edgeDifference(node da.Index) int {
	nShortcuts := len(c.shortcutsFor(node))
	return nShortcuts - len(c.working.OutArcs(node)) - len(c.working.RevOutArcs(node))
}

// ContractInOrder contracts nodes in the externally supplied order:
// order[i] is the i-th node to contract and receives rank i. Shortcuts
// are split-added to the upward forward/backward graphs as they are
// synthesized.
func (c *Contractor) ContractInOrder(order []da.Index) *da.ContractionHierarchy {
	ranking := da.OrderToRanking(order)
	forwardGraph, backwardGraph := da.SplitByRanking(c.input, ranking)
	for i, node := range order {
		for _, sc := range c.shortcutsFor(node) {
			c.working.AddEdge(sc.from, sc.edge)
			if ranking[sc.from] < ranking[sc.edge.Target] {
				forwardGraph.AddEdge(sc.from, sc.edge)
			} else {
				backwardGraph.AddEdge(sc.edge.Target, da.NewEdge(sc.from, sc.edge.Weight))
			}
		}
		c.working.DisconnectNode(node)
		if c.log != nil && (i+1)%100000 == 0 {
			c.log.Info("contracting graph", zap.Int("contracted", i+1), zap.Int("total", len(order)))
		}
	}
	return &da.ContractionHierarchy{
		ForwardGraph:  forwardGraph,
		BackwardGraph: backwardGraph,
		Ranking:       ranking,
	}
}

// ContractBottomUp derives the contraction order on the fly: nodes are
// kept in a bucket queue keyed by edge difference
// (#shortcuts - out-degree - in-degree) and contracted cheapest first.
// After contracting a node, the edge differences of its queued
// neighbours are recomputed.
func (c *Contractor) ContractBottomUp() *da.ContractionHierarchy {
	n := c.working.NumberOfNodes()

	if c.log != nil {
		c.log.Info("calculating initial contraction queue", zap.Int("nodes", n))
	}
	queue := da.NewBucketQueue(n)
	for node := da.Index(0); node < da.Index(n); node++ {
		queue.Push(da.IDIntKeyPair{ID: node, Key: c.edgeDifference(node)})
	}

	if c.log != nil {
		c.log.Info("contracting graph")
	}
	// the original graph plus every synthesized shortcut; split at the end
	chGraph := c.input.Clone()
	ranking := make([]da.Index, n)
	neighbours := make([]da.Index, 0, 64)
	curRank := da.Index(0)
	for !queue.Empty() {
		best := queue.Pop().ID
		ranking[best] = curRank
		curRank++

		neighbours = neighbours[:0]
		for _, arc := range c.working.OutArcs(best) {
			neighbours = append(neighbours, arc.Target)
		}
		for _, arc := range c.working.RevOutArcs(best) {
			neighbours = append(neighbours, arc.Target)
		}

		for _, sc := range c.shortcutsFor(best) {
			c.working.AddEdge(sc.from, sc.edge)
			chGraph.AddEdge(sc.from, sc.edge)
		}
		c.working.DisconnectNode(best)

		for _, neighbour := range neighbours {
			if !queue.ContainsID(neighbour) {
				continue
			}
			newKey := c.edgeDifference(neighbour)
			if newKey != queue.GetKey(neighbour) {
				queue.ChangeKey(da.IDIntKeyPair{ID: neighbour, Key: newKey})
			}
		}
	}

	forwardGraph, backwardGraph := da.SplitByRanking(chGraph, ranking)
	return &da.ContractionHierarchy{
		ForwardGraph:  forwardGraph,
		BackwardGraph: backwardGraph,
		Ranking:       ranking,
	}
}
