package routing

import (
	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	"github.com/raden-ps/penaltyx/pkg/util"
)

// Dijkstra is a reusable single-source shortest path search. Per-query
// state lives in timestamp vectors and an addressable queue, Finish
// resets everything in O(1) plus queue size, nothing is reallocated
// between queries.
//
// A blacklisted node is treated as non-existent when arcs point at it,
// which is what the contraction witness search needs. maxDist cuts the
// search off once the smallest queued distance reaches it.
type Dijkstra struct {
	g           *da.Graph
	distVec     *da.TimestampVector[uint32]
	parentVec   *da.TimestampVector[da.Index]
	queue       *da.MinIDQueue
	blacklisted da.Index
	maxDist     uint32
	searchSpace []da.Index
}

func NewDijkstra(g *da.Graph) *Dijkstra {
	return &Dijkstra{
		g:           g,
		distVec:     da.NewTimestampVector[uint32](g.NumberOfNodes(), pkg.INF_WEIGHT),
		parentVec:   da.NewTimestampVector[da.Index](g.NumberOfNodes(), da.INVALID_ID),
		queue:       da.NewMinIDQueue(g.NumberOfNodes()),
		blacklisted: da.INVALID_ID,
		maxDist:     pkg.INF_WEIGHT,
		searchSpace: make([]da.Index, 0),
	}
}

func (d *Dijkstra) SetSource(source da.Index) {
	d.distVec.Set(source, 0)
	d.parentVec.Set(source, da.INVALID_ID)
	d.queue.Push(da.IDKeyPair{ID: source, Key: 0})
}

func (d *Dijkstra) SetBlacklisted(n da.Index) {
	d.blacklisted = n
}

func (d *Dijkstra) SetMaxDist(dist uint32) {
	d.maxDist = dist
}

// Step settles the minimum-key node, relaxes its out-arcs and returns the
// settled id.
func (d *Dijkstra) Step() da.Index {
	best := d.queue.Pop().ID
	d.searchSpace = append(d.searchSpace, best)
	bestDist := d.distVec.Get(best)
	for _, arc := range d.g.OutArcs(best) {
		if arc.Target == d.blacklisted {
			continue
		}
		tentative := addWeights(bestDist, arc.Weight)
		if tentative < d.distVec.Get(arc.Target) {
			d.distVec.Set(arc.Target, tentative)
			d.parentVec.Set(arc.Target, best)
			if !d.queue.ContainsID(arc.Target) {
				d.queue.Push(da.IDKeyPair{ID: arc.Target, Key: tentative})
			} else {
				d.queue.DecreaseKey(da.IDKeyPair{ID: arc.Target, Key: tentative})
			}
		}
	}
	return best
}

func (d *Dijkstra) IsSettled(n da.Index) bool {
	return d.distVec.Has(n) && !d.queue.ContainsID(n)
}

// RunUntilTargetFound steps until target is settled, the queue runs dry
// or the smallest queued distance reaches maxDist.
func (d *Dijkstra) RunUntilTargetFound(target da.Index) {
	if d.IsSettled(target) || d.queue.Empty() {
		return
	}
	for !d.queue.Empty() && d.queue.Peek().Key < d.maxDist {
		if d.Step() == target {
			return
		}
	}
}

func (d *Dijkstra) RunUntilDone() {
	for !d.queue.Empty() {
		d.Step()
	}
}

// Dist returns INF_WEIGHT for unreached nodes.
func (d *Dijkstra) Dist(n da.Index) uint32 {
	return d.distVec.Get(n)
}

// PathTo reconstructs the source->target path from parent pointers. An
// unreached target yields an empty path with INF_WEIGHT length.
func (d *Dijkstra) PathTo(target da.Index) da.Path {
	dist := d.Dist(target)
	if dist == pkg.INF_WEIGHT {
		return da.NewPath([]da.Index{}, dist)
	}
	nodes := make([]da.Index, 0)
	for target != da.INVALID_ID {
		nodes = append(nodes, target)
		target = d.parentVec.Get(target)
	}
	util.Reverse(nodes)
	return da.NewPath(nodes, dist)
}

// SearchSpace returns the settled nodes in settlement order.
func (d *Dijkstra) SearchSpace() []da.Index {
	return d.searchSpace
}

// Finish resets the per-query state: epochs advance, the queue and search
// space log empty, blacklist and distance cap revert to their defaults.
func (d *Dijkstra) Finish() {
	d.distVec.StepTime()
	d.parentVec.StepTime()
	d.queue.Clear()
	d.searchSpace = d.searchSpace[:0]
	d.blacklisted = da.INVALID_ID
	d.maxDist = pkg.INF_WEIGHT
}
