package routing

import (
	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// CHQuery answers point-to-point distance queries on a contraction
// hierarchy with the classic upward meet: a forward search on the
// forward graph and a backward search on the backward graph. Meetings
// are detected while settling, against the other side's distance vector,
// which keeps the whole query linear in the searched space.
type CHQuery struct {
	ch              *da.ContractionHierarchy
	forwardQueue    *da.MinIDQueue
	backwardQueue   *da.MinIDQueue
	distVecForward  *da.TimestampVector[uint32]
	distVecBackward *da.TimestampVector[uint32]
	tentativeDist   uint32
	bestNode        da.Index
}

func NewCHQuery(ch *da.ContractionHierarchy) *CHQuery {
	n := ch.ForwardGraph.NumberOfNodes()
	return &CHQuery{
		ch:              ch,
		forwardQueue:    da.NewMinIDQueue(n),
		backwardQueue:   da.NewMinIDQueue(n),
		distVecForward:  da.NewTimestampVector[uint32](n, pkg.INF_WEIGHT),
		distVecBackward: da.NewTimestampVector[uint32](n, pkg.INF_WEIGHT),
	}
}

func (q *CHQuery) step(graph *da.Graph, queue *da.MinIDQueue, distVec, distVecOther *da.TimestampVector[uint32]) {
	best := queue.Pop().ID
	bestDist := distVec.Get(best)
	if distVecOther.Has(best) {
		if sum := addWeights(bestDist, distVecOther.Get(best)); sum < q.tentativeDist {
			q.tentativeDist = sum
			q.bestNode = best
		}
	}
	for _, arc := range graph.OutArcs(best) {
		tentative := addWeights(bestDist, arc.Weight)
		if tentative < distVec.Get(arc.Target) {
			distVec.Set(arc.Target, tentative)
			if !queue.ContainsID(arc.Target) {
				queue.Push(da.IDKeyPair{ID: arc.Target, Key: tentative})
			} else {
				queue.DecreaseKey(da.IDKeyPair{ID: arc.Target, Key: tentative})
			}
		}
	}
}

// Query returns the shortest-path distance from s to t, INF_WEIGHT when t
// is unreachable.
func (q *CHQuery) Query(s, t da.Index) uint32 {
	q.forwardQueue.Push(da.IDKeyPair{ID: s, Key: 0})
	q.backwardQueue.Push(da.IDKeyPair{ID: t, Key: 0})
	q.distVecForward.Set(s, 0)
	q.distVecBackward.Set(t, 0)
	q.tentativeDist = pkg.INF_WEIGHT
	q.bestNode = da.INVALID_ID

	forwardDone := false
	backwardDone := false
	for !forwardDone || !backwardDone {
		if !forwardDone {
			q.step(q.ch.ForwardGraph, q.forwardQueue, q.distVecForward, q.distVecBackward)
			if q.forwardQueue.Empty() || q.forwardQueue.Peek().Key > q.tentativeDist {
				forwardDone = true
			}
		}
		if !backwardDone {
			q.step(q.ch.BackwardGraph, q.backwardQueue, q.distVecBackward, q.distVecForward)
			if q.backwardQueue.Empty() || q.backwardQueue.Peek().Key > q.tentativeDist {
				backwardDone = true
			}
		}
	}

	q.forwardQueue.Clear()
	q.backwardQueue.Clear()
	q.distVecForward.StepTime()
	q.distVecBackward.StepTime()
	return q.tentativeDist
}
