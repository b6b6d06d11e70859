package routing

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	"github.com/raden-ps/penaltyx/pkg/util"
)

// sharedDistVector holds the distance labels of one search direction.
// Only the owning direction writes; the opposite direction reads a label
// during its meeting check, after observing the node closed, so every
// value it loads is final. INF_WEIGHT doubles as the "unset" marker.
type sharedDistVector struct {
	entries []atomic.Uint32
	touched []da.Index
}

func newSharedDistVector(size int) *sharedDistVector {
	v := &sharedDistVector{
		entries: make([]atomic.Uint32, size),
		touched: make([]da.Index, 0),
	}
	for i := range v.entries {
		v.entries[i].Store(pkg.INF_WEIGHT)
	}
	return v
}

func (v *sharedDistVector) get(i da.Index) uint32 {
	return v.entries[i].Load()
}

func (v *sharedDistVector) set(i da.Index, dist uint32) {
	if v.entries[i].Load() == pkg.INF_WEIGHT {
		v.touched = append(v.touched, i)
	}
	v.entries[i].Store(dist)
}

func (v *sharedDistVector) reset() {
	for _, i := range v.touched {
		v.entries[i].Store(pkg.INF_WEIGHT)
	}
	v.touched = v.touched[:0]
}

// atomicEpochSet is a closed set written by its owning direction and read
// by the opposite one. Clearing advances the epoch, which only happens
// between queries.
type atomicEpochSet struct {
	stamps []atomic.Uint64
	epoch  uint64
	count  int
}

func newAtomicEpochSet(size int) *atomicEpochSet {
	return &atomicEpochSet{
		stamps: make([]atomic.Uint64, size),
		epoch:  1,
	}
}

func (s *atomicEpochSet) set(i da.Index) {
	if s.stamps[i].Load() != s.epoch {
		s.stamps[i].Store(s.epoch)
		s.count++
	}
}

func (s *atomicEpochSet) has(i da.Index) bool {
	return s.stamps[i].Load() == s.epoch
}

func (s *atomicEpochSet) clear() {
	s.epoch++
	s.count = 0
}

// BidirectionalAStar runs a forward search from the source over out-arcs
// and a reverse search from the target over reverse out-arcs, one
// goroutine each. Both use CH potentials in the consistent symmetric
// averaging form
//
//	h_f(n) = (pi_f(n) + pi_r(target) - pi_r(n)) / 2
//	h_r(n) = (pi_r(n) + pi_f(source) - pi_f(n)) / 2
//
// so the meet-in-the-middle termination with a single tentative distance
// is correct. Each direction owns its own pair of potential caches, the
// lazy memoization then needs no synchronization.
//
// The pair (tentative distance, meeting node) is packed into one atomic
// 64 bit word and advanced by a CAS loop, every successful update
// establishes a strictly lower tentative distance.
type BidirectionalAStar struct {
	g *da.Graph

	potF1, potR1 *CHPotentials // forward direction
	potF2, potR2 *CHPotentials // reverse direction

	closedF, closedR *atomicEpochSet
	qF, qR           *da.MinIDQueue
	distF, distR     *sharedDistVector
	parF, parR       *da.TimestampVector[da.Index]

	meet   atomic.Uint64 // tentative dist in the high 32 bits, meeting node in the low
	kF, kR atomic.Uint32 // top queue keys, written by the owning direction only

	source, target da.Index

	lastSearchSpace int
}

func NewBidirectionalAStar(g *da.Graph, ch *da.ContractionHierarchy) *BidirectionalAStar {
	n := g.NumberOfNodes()
	return &BidirectionalAStar{
		g:       g,
		potF1:   NewCHPotentials(ch),
		potR1:   NewReverseCHPotentials(ch),
		potF2:   NewCHPotentials(ch),
		potR2:   NewReverseCHPotentials(ch),
		closedF: newAtomicEpochSet(n),
		closedR: newAtomicEpochSet(n),
		qF:      da.NewMinIDQueue(n),
		qR:      da.NewMinIDQueue(n),
		distF:   newSharedDistVector(n),
		distR:   newSharedDistVector(n),
		parF:    da.NewTimestampVector[da.Index](n, da.INVALID_ID),
		parR:    da.NewTimestampVector[da.Index](n, da.INVALID_ID),
	}
}

func averagedHeuristic(potToward, potAway uint32, awayAtAnchor uint32) uint32 {
	if potToward == pkg.INF_WEIGHT || potAway == pkg.INF_WEIGHT {
		return pkg.INF_WEIGHT
	}
	v := int64(potToward) + int64(awayAtAnchor) - int64(potAway)
	if v < 0 {
		return 0
	}
	return uint32(v / 2)
}

func (b *BidirectionalAStar) heurF(n da.Index) uint32 {
	return averagedHeuristic(b.potF1.Potential(n), b.potR1.Potential(n), b.potR1.Potential(b.target))
}

func (b *BidirectionalAStar) heurR(n da.Index) uint32 {
	return averagedHeuristic(b.potR1.Potential(n), b.potF1.Potential(n), b.potF1.Potential(b.source))
}

func (b *BidirectionalAStar) heurF2(n da.Index) uint32 {
	return averagedHeuristic(b.potF2.Potential(n), b.potR2.Potential(n), b.potR2.Potential(b.target))
}

func (b *BidirectionalAStar) heurR2(n da.Index) uint32 {
	return averagedHeuristic(b.potR2.Potential(n), b.potF2.Potential(n), b.potF2.Potential(b.source))
}

func (b *BidirectionalAStar) meetDist() uint32 {
	return uint32(b.meet.Load() >> 32)
}

func (b *BidirectionalAStar) meetNode() da.Index {
	return da.Index(b.meet.Load())
}

// updateMeeting installs (dist, node) unless a strictly lower tentative
// distance is already present. On a race the lower distance wins.
func (b *BidirectionalAStar) updateMeeting(dist uint32, node da.Index) {
	packed := uint64(dist)<<32 | uint64(uint32(node))
	for {
		cur := b.meet.Load()
		if uint32(cur>>32) <= dist {
			return
		}
		if b.meet.CompareAndSwap(cur, packed) {
			return
		}
	}
}

func (b *BidirectionalAStar) stepForward() {
	best := b.qF.Pop()
	b.closedF.set(best.ID)
	bestDist := b.distF.get(best.ID)
	for _, arc := range b.g.OutArcs(best.ID) {
		g := addWeights(bestDist, arc.Weight)
		if uint64(g)+uint64(b.potF1.Potential(arc.Target)) >= uint64(b.meetDist()) {
			continue
		}
		if b.closedR.has(arc.Target) {
			// the reverse label is final once closed; pair it with the best
			// known forward label so the recorded distance matches the
			// parent-walk reconstruction
			fDist := minWeight(g, b.distF.get(arc.Target))
			if sum := addWeights(fDist, b.distR.get(arc.Target)); sum < b.meetDist() {
				b.updateMeeting(sum, arc.Target)
			}
		}
		if g < b.distF.get(arc.Target) {
			b.distF.set(arc.Target, g)
			b.parF.Set(arc.Target, best.ID)
			k := addWeights(g, b.heurF(arc.Target))
			if b.qF.ContainsID(arc.Target) {
				b.qF.DecreaseKey(da.IDKeyPair{ID: arc.Target, Key: k})
			} else {
				b.qF.Push(da.IDKeyPair{ID: arc.Target, Key: k})
			}
		}
	}
}

func (b *BidirectionalAStar) stepReverse() {
	best := b.qR.Pop()
	b.closedR.set(best.ID)
	bestDist := b.distR.get(best.ID)
	for _, arc := range b.g.RevOutArcs(best.ID) {
		g := addWeights(bestDist, arc.Weight)
		if uint64(g)+uint64(b.potR2.Potential(arc.Target)) >= uint64(b.meetDist()) {
			continue
		}
		if b.closedF.has(arc.Target) {
			rDist := minWeight(g, b.distR.get(arc.Target))
			if sum := addWeights(rDist, b.distF.get(arc.Target)); sum < b.meetDist() {
				b.updateMeeting(sum, arc.Target)
			}
		}
		if g < b.distR.get(arc.Target) {
			b.distR.set(arc.Target, g)
			b.parR.Set(arc.Target, best.ID)
			k := addWeights(g, b.heurR2(arc.Target))
			if b.qR.ContainsID(arc.Target) {
				b.qR.DecreaseKey(da.IDKeyPair{ID: arc.Target, Key: k})
			} else {
				b.qR.Push(da.IDKeyPair{ID: arc.Target, Key: k})
			}
		}
	}
}

// Each direction exits once k_f + k_r >= tentative_dist + h_f(source);
// the additive shift compensates the averaged heuristic's offset. The top
// keys only grow, so a stale read delays termination but never falsifies
// it. The tentative distance is reread at every loop top.
func (b *BidirectionalAStar) runForward() {
	hSource := uint64(b.heurF(b.source))
	for {
		if uint64(b.kF.Load())+uint64(b.kR.Load()) >= uint64(b.meetDist())+hSource {
			return
		}
		if b.qF.Empty() {
			b.kF.Store(pkg.INF_WEIGHT)
			return
		}
		b.stepForward()
		if b.qF.Empty() {
			b.kF.Store(pkg.INF_WEIGHT)
		} else {
			b.kF.Store(b.qF.Peek().Key)
		}
	}
}

func (b *BidirectionalAStar) runReverse() {
	hSource := uint64(b.heurF2(b.source))
	for {
		if uint64(b.kF.Load())+uint64(b.kR.Load()) >= uint64(b.meetDist())+hSource {
			return
		}
		if b.qR.Empty() {
			b.kR.Store(pkg.INF_WEIGHT)
			return
		}
		b.stepReverse()
		if b.qR.Empty() {
			b.kR.Store(pkg.INF_WEIGHT)
		} else {
			b.kR.Store(b.qR.Peek().Key)
		}
	}
}

// extractPath walks forward parents from the meeting node back to the
// source, then reverse parents from the meeting node to the target; the
// meeting node appears exactly once.
func (b *BidirectionalAStar) extractPath() da.Path {
	dist := b.meetDist()
	if dist == pkg.INF_WEIGHT {
		return da.NewPath([]da.Index{}, pkg.INF_WEIGHT)
	}
	nodes := make([]da.Index, 0)
	current := b.meetNode()
	for current != da.INVALID_ID {
		nodes = append(nodes, current)
		current = b.parF.Get(current)
	}
	util.Reverse(nodes)
	current = b.parR.Get(b.meetNode())
	for current != da.INVALID_ID {
		nodes = append(nodes, current)
		current = b.parR.Get(current)
	}
	return da.NewPath(nodes, dist)
}

// Run computes a shortest s->t path. An unreachable target yields an
// empty path with INF_WEIGHT length.
func (b *BidirectionalAStar) Run(source, target da.Index) da.Path {
	if source == target {
		return da.NewPath([]da.Index{source}, 0)
	}
	b.source = source
	b.target = target
	b.potF1.SetTarget(target)
	b.potF2.SetTarget(target)
	b.potR1.SetTarget(source)
	b.potR2.SetTarget(source)

	b.meet.Store(uint64(pkg.INF_WEIGHT)<<32 | uint64(uint32(da.INVALID_ID)))
	b.distF.set(source, 0)
	b.distR.set(target, 0)
	b.parF.Set(source, da.INVALID_ID)
	b.parR.Set(target, da.INVALID_ID)
	b.qF.Push(da.IDKeyPair{ID: source, Key: b.heurF(source)})
	b.qR.Push(da.IDKeyPair{ID: target, Key: b.heurR(target)})
	b.closedF.set(source)
	b.closedR.set(target)
	b.kF.Store(b.heurF(source))
	b.kR.Store(b.heurR(target))

	var eg errgroup.Group
	eg.Go(func() error {
		b.runForward()
		return nil
	})
	eg.Go(func() error {
		b.runReverse()
		return nil
	})
	_ = eg.Wait()

	b.lastSearchSpace = b.closedF.count + b.closedR.count
	ret := b.extractPath()

	b.distF.reset()
	b.distR.reset()
	b.parF.StepTime()
	b.parR.StepTime()
	b.qF.Clear()
	b.qR.Clear()
	b.closedF.clear()
	b.closedR.clear()
	return ret
}

// SearchSpaceSize reports how many nodes the last Run closed across both
// directions.
func (b *BidirectionalAStar) SearchSpaceSize() int {
	return b.lastSearchSpace
}
