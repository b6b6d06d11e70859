package routing

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// Detour is a maximal sub-path of a candidate whose interior nodes avoid
// the reference path, bounded by two nodes that lie on it.
type Detour struct {
	A      da.Index
	B      da.Index
	Length uint32
}

// PenaltyEngine grows an alternative subgraph by iterative reweighting:
// the edges of the latest accepted path are penalized on an owned copy of
// the input graph, the bidirectional A* is rerun against the unmodified
// CH, and candidates that contain a long and near-optimal detour are
// merged into the alternative graph with their original weights.
type PenaltyEngine struct {
	g                *da.Graph // input graph, never modified
	penalizedGraph   *da.Graph
	altGraph         *da.Graph
	altGraphDijkstra *Dijkstra
	astar            *BidirectionalAStar
	nodeSet          *da.BoolSet

	source, target da.Index

	penaltyFactor float64
	alpha         float64
	eps           float64
	delta         float64
	maxIterations int

	log      *zap.Logger
	recorder *QueryRecorder
}

func NewPenaltyEngine(g *da.Graph, ch *da.ContractionHierarchy, log *zap.Logger) *PenaltyEngine {
	penalizedGraph := g.Clone()
	altGraph := da.NewGraph(g.NumberOfNodes())
	return &PenaltyEngine{
		g:                g,
		penalizedGraph:   penalizedGraph,
		altGraph:         altGraph,
		altGraphDijkstra: NewDijkstra(altGraph),
		astar:            NewBidirectionalAStar(penalizedGraph, ch),
		nodeSet:          da.NewBoolSet(g.NumberOfNodes()),
		source:           da.INVALID_ID,
		target:           da.INVALID_ID,
		penaltyFactor:    pkg.DEFAULT_PENALTY_FACTOR,
		alpha:            pkg.DEFAULT_REJOIN_ALPHA,
		eps:              pkg.DEFAULT_STRETCH_EPS,
		delta:            pkg.DEFAULT_DETOUR_DELTA,
		maxIterations:    pkg.MAX_PENALTY_ITERATIONS,
		log:              log,
	}
}

func (p *PenaltyEngine) SetSource(n da.Index) {
	p.source = n
}

func (p *PenaltyEngine) SetTarget(n da.Index) {
	p.target = n
}

func (p *PenaltyEngine) SetAlpha(alpha float64) {
	p.alpha = alpha
}

func (p *PenaltyEngine) SetEps(eps float64) {
	p.eps = eps
}

func (p *PenaltyEngine) SetPenaltyFactor(pen float64) {
	p.penaltyFactor = pen
}

// SetRecorder attaches a measurement sink; nil turns recording off.
func (p *PenaltyEngine) SetRecorder(r *QueryRecorder) {
	p.recorder = r
}

// addPathToGraph merges the path's edges into dst with their original,
// unpenalized weights read from the input graph.
func (p *PenaltyEngine) addPathToGraph(path da.Path, dst *da.Graph) {
	for i := 0; i+1 < len(path.Nodes); i++ {
		a := path.Nodes[i]
		b := path.Nodes[i+1]
		dst.AddEdge(a, da.NewEdge(b, p.g.EdgeWeight(a, b)))
	}
}

// applyPenalties reweights the penalized graph around the latest
// alternative: every edge on the path grows by the penalty factor, and
// every arc rejoining the path from outside it pays a flat rejoin
// penalty derived from the optimal path length. The path source has no
// predecessor, so all of its incoming arcs are penalized.
func (p *PenaltyEngine) applyPenalties(path da.Path, optimalLength uint32) {
	for i := 0; i+1 < len(path.Nodes); i++ {
		u := path.Nodes[i]
		v := path.Nodes[i+1]
		w := p.penalizedGraph.EdgeWeight(u, v)
		if w == pkg.INF_WEIGHT {
			continue
		}
		// rounding up keeps the penalty effective on small weights, a
		// truncated 1*(1+0.04) would never move
		penalized := uint64(math.Ceil(float64(w) * (1 + p.penaltyFactor)))
		if penalized >= uint64(pkg.INF_WEIGHT) {
			penalized = uint64(pkg.INF_WEIGHT) - 1
		}
		p.penalizedGraph.ChangeEdgeWeight(u, v, uint32(penalized))
	}

	rejoinPenalty := uint32(p.alpha * math.Sqrt(float64(optimalLength)))
	for i, v := range path.Nodes {
		for _, arc := range p.penalizedGraph.RevOutArcs(v) {
			u := arc.Target
			if i == 0 || u != path.Nodes[i-1] {
				p.penalizedGraph.ChangeEdgeWeight(u, v, addWeights(arc.Weight, rejoinPenalty))
			}
		}
	}
}

// pathIntersection returns the nodes of path that also lie on comp, in
// path order.
func (p *PenaltyEngine) pathIntersection(path, comp da.Path) []da.Index {
	p.nodeSet.Clear()
	for _, n := range comp.Nodes {
		p.nodeSet.Set(n)
	}
	ret := make([]da.Index, 0, len(path.Nodes))
	for _, n := range path.Nodes {
		if p.nodeSet.Has(n) {
			ret = append(ret, n)
		}
	}
	return ret
}

// detours scans the candidate for maximal runs of nodes off the
// reference path. Detour lengths are measured with the candidate's
// original edge weights.
func (p *PenaltyEngine) detours(path, comp da.Path) []Detour {
	ret := make([]Detour, 0)
	intersection := p.pathIntersection(path, comp)
	var detourStart da.Index
	var detourDist uint32
	inDetour := false
	intersectionIndex := 0
	for i := 0; i < len(path.Nodes); i++ {
		if !inDetour {
			if intersectionIndex < len(intersection) && path.Nodes[i] == intersection[intersectionIndex] {
				intersectionIndex++
				continue
			}
			inDetour = true
			detourStart = path.Nodes[i-1]
			detourDist = p.g.EdgeWeight(path.Nodes[i-1], path.Nodes[i])
		} else {
			detourDist = addWeights(detourDist, p.g.EdgeWeight(path.Nodes[i-1], path.Nodes[i]))
			if intersectionIndex < len(intersection) && path.Nodes[i] == intersection[intersectionIndex] {
				inDetour = false
				intersectionIndex++
				ret = append(ret, Detour{A: detourStart, B: path.Nodes[i], Length: detourDist})
			}
		}
	}
	return ret
}

// isFeasible accepts a candidate when at least one detour is both long
// enough (>= delta * optimal length) and good enough (within 1+eps of the
// best route between its endpoints through the already accepted
// alternative graph).
func (p *PenaltyEngine) isFeasible(path, origPath da.Path) bool {
	if path.Length == pkg.INF_WEIGHT {
		return false
	}
	for _, d := range p.detours(path, origPath) {
		if float64(d.Length) < p.delta*float64(origPath.Length) {
			continue
		}
		p.altGraphDijkstra.SetSource(d.A)
		p.altGraphDijkstra.RunUntilTargetFound(d.B)
		altDist := p.altGraphDijkstra.Dist(d.B)
		p.altGraphDijkstra.Finish()
		if altDist != pkg.INF_WEIGHT && float64(d.Length) <= (1+p.eps)*float64(altDist) {
			return true
		}
	}
	return false
}

// Run executes the penalty loop for the configured source/target pair.
// The accumulated alternative graph is available through AltGraph
// afterwards; an unreachable pair leaves it empty.
func (p *PenaltyEngine) Run() {
	timer := time.Now()
	originalPath := p.astar.Run(p.source, p.target)
	p.recorder.LogFirstAStarTime(time.Since(timer))
	p.recorder.LogShortestPathLength(originalPath.Length)

	if originalPath.Length == pkg.INF_WEIGHT {
		if p.log != nil {
			p.log.Debug("target unreachable, no alternatives",
				zap.Uint32("source", uint32(p.source)), zap.Uint32("target", uint32(p.target)))
		}
		return
	}
	p.addPathToGraph(originalPath, p.altGraph)

	altPath := originalPath
	iterations := 0
	for float64(altPath.Length) <= (1+p.eps)*float64(originalPath.Length) && iterations < p.maxIterations {
		p.recorder.BeginIteration()
		totalTimer := time.Now()

		timer = time.Now()
		p.applyPenalties(altPath, originalPath.Length)
		p.recorder.LogIterationApplyPenaltiesTime(time.Since(timer))

		timer = time.Now()
		altPath = p.astar.Run(p.source, p.target)
		p.recorder.LogIterationAStarTime(time.Since(timer))
		p.recorder.LogIterationSearchSpace(p.astar.SearchSpaceSize())
		p.recorder.LogIterationAltPathLength(altPath.Length)

		timer = time.Now()
		if p.isFeasible(altPath, originalPath) {
			p.addPathToGraph(altPath, p.altGraph)
		}
		p.recorder.LogIterationIsFeasibleTime(time.Since(timer))

		iterations++
		p.recorder.LogIterationTotalTime(time.Since(totalTimer))
		p.recorder.EndIteration()
	}
}

// AltGraph exposes the accumulated alternative subgraph.
func (p *PenaltyEngine) AltGraph() *da.Graph {
	return p.altGraph
}

// Reset restores the penalized graph to the input weights and clears the
// alternative graph, ready for the next query.
func (p *PenaltyEngine) Reset() {
	p.penalizedGraph.CopyFrom(p.g)
	p.altGraph.ClearEdges()
	p.source = da.INVALID_ID
	p.target = da.INVALID_ID
}
