package routing

import (
	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	"github.com/raden-ps/penaltyx/pkg/util"
)

// AStar is a potential-directed unidirectional search. A node is closed
// when it is popped, never on enqueue; with a consistent heuristic a
// popped node carries its final distance, which the bidirectional
// variant's meeting test relies on.
type AStar struct {
	g       *da.Graph
	heur    HeuristicProvider
	closed  *da.BoolSet
	distVec *da.TimestampVector[uint32]
	prevVec *da.TimestampVector[da.Index]
	queue   *da.MinIDQueue
	maxDist uint32
}

func NewAStar(g *da.Graph, heur HeuristicProvider) *AStar {
	return &AStar{
		g:       g,
		heur:    heur,
		closed:  da.NewBoolSet(g.NumberOfNodes()),
		distVec: da.NewTimestampVector[uint32](g.NumberOfNodes(), pkg.INF_WEIGHT),
		prevVec: da.NewTimestampVector[da.Index](g.NumberOfNodes(), da.INVALID_ID),
		queue:   da.NewMinIDQueue(g.NumberOfNodes()),
		maxDist: pkg.INF_WEIGHT,
	}
}

func (a *AStar) AddSource(n da.Index) {
	a.queue.Push(da.IDKeyPair{ID: n, Key: a.heur.Potential(n)})
	a.distVec.Set(n, 0)
	a.prevVec.Set(n, da.INVALID_ID)
}

func (a *AStar) SetMaxDist(maxDist uint32) {
	a.maxDist = maxDist
}

func (a *AStar) Dist(n da.Index) uint32 {
	return a.distVec.Get(n)
}

func (a *AStar) Step() da.Index {
	best := a.queue.Pop()
	bestDist := a.distVec.Get(best.ID)
	for _, arc := range a.g.OutArcs(best.ID) {
		if a.closed.Has(arc.Target) {
			continue
		}
		tentative := addWeights(bestDist, arc.Weight)
		if a.queue.ContainsID(arc.Target) && tentative >= a.distVec.Get(arc.Target) {
			continue
		}
		a.prevVec.Set(arc.Target, best.ID)
		a.distVec.Set(arc.Target, tentative)
		f := addWeights(tentative, a.heur.Potential(arc.Target))
		if f > a.maxDist {
			continue
		}
		if a.queue.ContainsID(arc.Target) {
			if f < a.queue.GetKey(arc.Target) {
				a.queue.DecreaseKey(da.IDKeyPair{ID: arc.Target, Key: f})
			}
		} else {
			a.queue.Push(da.IDKeyPair{ID: arc.Target, Key: f})
		}
	}
	return best.ID
}

// RunUntilTargetFound steps until the target is popped. Stopping on pop
// rather than on first reach is what makes the distance final under a
// consistent heuristic.
func (a *AStar) RunUntilTargetFound(target da.Index) {
	if a.closed.Has(target) || a.queue.Empty() {
		return
	}
	for !a.queue.Empty() {
		currentNode := a.Step()
		if currentNode == target {
			break
		}
		a.closed.Set(currentNode)
	}
}

func (a *AStar) PathTo(target da.Index) da.Path {
	dist := a.Dist(target)
	if dist == pkg.INF_WEIGHT {
		return da.NewPath([]da.Index{}, dist)
	}
	nodes := make([]da.Index, 0)
	for target != da.INVALID_ID {
		nodes = append(nodes, target)
		target = a.prevVec.Get(target)
	}
	util.Reverse(nodes)
	return da.NewPath(nodes, dist)
}

// SearchSpaceSize reports how many nodes the last run closed.
func (a *AStar) SearchSpaceSize() int {
	return a.closed.Size()
}

func (a *AStar) Finish() {
	a.closed.Clear()
	a.distVec.StepTime()
	a.prevVec.StepTime()
	a.queue.Clear()
	a.maxDist = pkg.INF_WEIGHT
}
