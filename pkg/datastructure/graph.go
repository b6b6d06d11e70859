package datastructure

import (
	"math"

	"github.com/raden-ps/penaltyx/pkg"
)

// Index identifies a node. Valid ids are < Graph.Size().
type Index uint32

const INVALID_ID Index = math.MaxUint32

type Edge struct {
	Target Index
	Weight uint32
}

func NewEdge(target Index, weight uint32) Edge {
	return Edge{Target: target, Weight: weight}
}

// Graph is a directed weighted graph that keeps both forward and reverse
// adjacency, the reverse side is needed for finding in-edges during
// contraction and for the backward direction of bidirectional searches.
// Multi-edges are merged: adding an existing (u,v) pair keeps the minimum
// weight on both sides.
type Graph struct {
	adjList    [][]Edge
	revAdjList [][]Edge
}

func NewGraph(size int) *Graph {
	return &Graph{
		adjList:    make([][]Edge, size),
		revAdjList: make([][]Edge, size),
	}
}

// Clone deep-copies the graph. The penalty engine works on a clone so the
// input graph stays immutable during queries.
func (g *Graph) Clone() *Graph {
	c := NewGraph(len(g.adjList))
	c.CopyFrom(g)
	return c
}

// CopyFrom resets this graph to the edges of other. Both graphs must have
// the same node count.
func (g *Graph) CopyFrom(other *Graph) {
	for n := range other.adjList {
		g.adjList[n] = append(g.adjList[n][:0], other.adjList[n]...)
		g.revAdjList[n] = append(g.revAdjList[n][:0], other.revAdjList[n]...)
	}
}

func (g *Graph) OutArcs(n Index) []Edge {
	return g.adjList[n]
}

func (g *Graph) RevOutArcs(n Index) []Edge {
	return g.revAdjList[n]
}

func (g *Graph) AddEdge(source Index, e Edge) {
	forwardFound := false
	for i := range g.adjList[source] {
		if g.adjList[source][i].Target == e.Target {
			if g.adjList[source][i].Weight > e.Weight {
				g.adjList[source][i].Weight = e.Weight
			}
			forwardFound = true
			break
		}
	}
	if !forwardFound {
		g.adjList[source] = append(g.adjList[source], e)
	}

	backwardFound := false
	backEdges := g.revAdjList[e.Target]
	for i := range backEdges {
		if backEdges[i].Target == source {
			if backEdges[i].Weight > e.Weight {
				backEdges[i].Weight = e.Weight
			}
			backwardFound = true
			break
		}
	}
	if !backwardFound {
		g.revAdjList[e.Target] = append(g.revAdjList[e.Target], NewEdge(source, e.Weight))
	}
}

// RemoveEdge deletes u->v from both adjacency sides. The order of the
// remaining edges is not preserved.
func (g *Graph) RemoveEdge(u, v Index) bool {
	edgeFound := false
	arcs := g.adjList[u]
	for i := range arcs {
		if arcs[i].Target == v {
			arcs[i] = arcs[len(arcs)-1]
			g.adjList[u] = arcs[:len(arcs)-1]
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		return false
	}
	revArcs := g.revAdjList[v]
	for i := range revArcs {
		if revArcs[i].Target == u {
			revArcs[i] = revArcs[len(revArcs)-1]
			g.revAdjList[v] = revArcs[:len(revArcs)-1]
			break
		}
	}
	return true
}

func (g *Graph) EdgeWeight(u, v Index) uint32 {
	for _, arc := range g.adjList[u] {
		if arc.Target == v {
			return arc.Weight
		}
	}
	return pkg.INF_WEIGHT
}

func (g *Graph) ChangeEdgeWeight(u, v Index, newWeight uint32) {
	arcs := g.adjList[u]
	for i := range arcs {
		if arcs[i].Target == v {
			arcs[i].Weight = newWeight
			break
		}
	}
	revArcs := g.revAdjList[v]
	for i := range revArcs {
		if revArcs[i].Target == u {
			revArcs[i].Weight = newWeight
			break
		}
	}
}

// DisconnectNode removes every edge incident to node. The node itself
// stays, the node count never shrinks.
func (g *Graph) DisconnectNode(node Index) {
	for i := len(g.adjList[node]) - 1; i >= 0; i-- {
		g.RemoveEdge(node, g.adjList[node][i].Target)
	}
	for i := len(g.revAdjList[node]) - 1; i >= 0; i-- {
		g.RemoveEdge(g.revAdjList[node][i].Target, node)
	}
}

func (g *Graph) Size() Index {
	return Index(len(g.adjList))
}

func (g *Graph) NumberOfNodes() int {
	return len(g.adjList)
}

func (g *Graph) NumberOfEdges() int {
	ret := 0
	for i := range g.adjList {
		ret += len(g.adjList[i])
	}
	return ret
}

// ForEdges visits every (u,v,w) of the forward adjacency.
func (g *Graph) ForEdges(fn func(u, v Index, w uint32)) {
	for u := range g.adjList {
		for _, arc := range g.adjList[u] {
			fn(Index(u), arc.Target, arc.Weight)
		}
	}
}

func (g *Graph) ClearEdges() {
	for i := range g.adjList {
		g.adjList[i] = g.adjList[i][:0]
		g.revAdjList[i] = g.revAdjList[i][:0]
	}
}
