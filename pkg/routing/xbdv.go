package routing

import (
	"sort"

	"go.uber.org/zap"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	"github.com/raden-ps/penaltyx/pkg/util"
)

// XBDV extracts and ranks alternative paths from the cut of a bounded
// bidirectional Dijkstra: every node settled by both sides within the
// stretch bound induces an implicit via path, which is then filtered by
// limited sharing and (optionally) the local-optimality approximation
// known as the T-test, and finally ordered by 2*length + sharing -
// plateau.
type XBDV struct {
	g        *da.Graph
	dijkstra *Dijkstra

	queueFwd       *da.MinIDQueue
	distVecFwd     *da.TimestampVector[uint32]
	parentVecFwd   *da.TimestampVector[da.Index]
	searchSpaceFwd *da.BoolSet

	queueBwd       *da.MinIDQueue
	distVecBwd     *da.TimestampVector[uint32]
	parentVecBwd   *da.TimestampVector[da.Index]
	searchSpaceBwd *da.BoolSet

	log *zap.Logger
}

func NewXBDV(g *da.Graph, log *zap.Logger) *XBDV {
	n := g.NumberOfNodes()
	return &XBDV{
		g:              g,
		dijkstra:       NewDijkstra(g),
		queueFwd:       da.NewMinIDQueue(n),
		distVecFwd:     da.NewTimestampVector[uint32](n, pkg.INF_WEIGHT),
		parentVecFwd:   da.NewTimestampVector[da.Index](n, da.INVALID_ID),
		searchSpaceFwd: da.NewBoolSet(n),
		queueBwd:       da.NewMinIDQueue(n),
		distVecBwd:     da.NewTimestampVector[uint32](n, pkg.INF_WEIGHT),
		parentVecBwd:   da.NewTimestampVector[da.Index](n, da.INVALID_ID),
		searchSpaceBwd: da.NewBoolSet(n),
		log:            log,
	}
}

func (x *XBDV) stepForwardSearch() da.Index {
	best := x.queueFwd.Pop().ID
	x.searchSpaceFwd.Set(best)
	bestDist := x.distVecFwd.Get(best)
	for _, e := range x.g.OutArcs(best) {
		tentative := addWeights(bestDist, e.Weight)
		if tentative < x.distVecFwd.Get(e.Target) {
			x.distVecFwd.Set(e.Target, tentative)
			x.parentVecFwd.Set(e.Target, best)
			if !x.queueFwd.ContainsID(e.Target) {
				x.queueFwd.Push(da.IDKeyPair{ID: e.Target, Key: tentative})
			} else {
				x.queueFwd.DecreaseKey(da.IDKeyPair{ID: e.Target, Key: tentative})
			}
		}
	}
	return best
}

func (x *XBDV) stepBackwardSearch() da.Index {
	best := x.queueBwd.Pop().ID
	x.searchSpaceBwd.Set(best)
	bestDist := x.distVecBwd.Get(best)
	for _, e := range x.g.RevOutArcs(best) {
		tentative := addWeights(bestDist, e.Weight)
		if tentative < x.distVecBwd.Get(e.Target) {
			x.distVecBwd.Set(e.Target, tentative)
			x.parentVecBwd.Set(e.Target, best)
			if !x.queueBwd.ContainsID(e.Target) {
				x.queueBwd.Push(da.IDKeyPair{ID: e.Target, Key: tentative})
			} else {
				x.queueBwd.DecreaseKey(da.IDKeyPair{ID: e.Target, Key: tentative})
			}
		}
	}
	return best
}

// runBidirectionalDijkstra settles both sides until their settled
// distance exceeds maxDist, logging search spaces and labels for the cut.
func (x *XBDV) runBidirectionalDijkstra(source, target da.Index, maxDist uint32) {
	x.queueFwd.Push(da.IDKeyPair{ID: source, Key: 0})
	x.distVecFwd.Set(source, 0)
	x.parentVecFwd.Set(source, da.INVALID_ID)
	x.queueBwd.Push(da.IDKeyPair{ID: target, Key: 0})
	x.distVecBwd.Set(target, 0)
	x.parentVecBwd.Set(target, da.INVALID_ID)
	for !x.queueFwd.Empty() || !x.queueBwd.Empty() {
		if !x.queueFwd.Empty() {
			forwardBest := x.stepForwardSearch()
			if x.distVecFwd.Get(forwardBest) > maxDist {
				x.queueFwd.Clear()
			}
		}
		if !x.queueBwd.Empty() {
			backwardBest := x.stepBackwardSearch()
			if x.distVecBwd.Get(backwardBest) > maxDist {
				x.queueBwd.Clear()
			}
		}
	}
}

// sharing sums the weights of path edges whose head also lies on comp.
func (x *XBDV) sharing(path, comp da.Path) uint32 {
	compSet := make(map[da.Index]struct{}, len(comp.Nodes))
	for _, n := range comp.Nodes {
		compSet[n] = struct{}{}
	}
	var sharedDist uint32
	for i := 1; i < len(path.Nodes); i++ {
		if _, ok := compSet[path.Nodes[i]]; ok {
			sharedDist = addWeights(sharedDist, x.g.EdgeWeight(path.Nodes[i-1], path.Nodes[i]))
		}
	}
	return sharedDist
}

func (x *XBDV) testLimitedSharing(path, optimalPath da.Path, gamma float64) bool {
	return float64(x.sharing(path, optimalPath)) < gamma*float64(optimalPath.Length)
}

// TestUniformlyBoundedStretch verifies that every sub-path of path is
// within (1+eps) of the shortest distance between its endpoints. It is
// quadratic in path length and meant for offline quality evaluation.
func (x *XBDV) TestUniformlyBoundedStretch(path da.Path, eps float64) bool {
	for i := 0; i < len(path.Nodes); i++ {
		var pathDist uint32
		x.dijkstra.SetSource(path.Nodes[i])
		for j := i + 1; j < len(path.Nodes); j++ {
			b := path.Nodes[j]
			pathDist = addWeights(pathDist, x.g.EdgeWeight(path.Nodes[j-1], path.Nodes[j]))
			x.dijkstra.RunUntilTargetFound(b)
			if float64(x.dijkstra.Dist(b))*(1+eps) < float64(pathDist) {
				x.dijkstra.Finish()
				return false
			}
		}
		x.dijkstra.Finish()
	}
	return true
}

// TestLocalOptimality verifies that every sub-path of path no longer than
// maxRange is a shortest path. Offline quality evaluation only.
func (x *XBDV) TestLocalOptimality(path da.Path, maxRange uint32) bool {
	for i := 0; i < len(path.Nodes); i++ {
		var pathDist uint32
		x.dijkstra.SetSource(path.Nodes[i])
		for j := i + 1; j < len(path.Nodes); j++ {
			b := path.Nodes[j]
			pathDist = addWeights(pathDist, x.g.EdgeWeight(path.Nodes[j-1], path.Nodes[j]))
			if pathDist > maxRange {
				break
			}
			x.dijkstra.RunUntilTargetFound(b)
			if x.dijkstra.Dist(b) < pathDist {
				x.dijkstra.Finish()
				return false
			}
		}
		x.dijkstra.Finish()
	}
	return true
}

// testLocalOptimalityApproximation is the T-test: walk at least t back
// from the via node along forward parents to an x node, at least t ahead
// along backward parents to a y node, and accept iff the x..y stretch of
// the candidate is a shortest path.
func (x *XBDV) testLocalOptimalityApproximation(viaNode da.Index, t uint32) bool {
	var xyDist uint32

	xNode := viaNode
	var distToV uint32
	for distToV < t {
		newX := x.parentVecFwd.Get(xNode)
		if newX == da.INVALID_ID {
			break
		}
		distToV = addWeights(distToV, x.g.EdgeWeight(newX, xNode))
		xNode = newX
	}
	xyDist = addWeights(xyDist, distToV)

	yNode := viaNode
	distToV = 0
	for distToV < t {
		newY := x.parentVecBwd.Get(yNode)
		if newY == da.INVALID_ID {
			break
		}
		distToV = addWeights(distToV, x.g.EdgeWeight(yNode, newY))
		yNode = newY
	}
	xyDist = addWeights(xyDist, distToV)

	x.dijkstra.SetSource(xNode)
	x.dijkstra.RunUntilTargetFound(yNode)
	ret := x.dijkstra.Dist(yNode) == xyDist
	x.dijkstra.Finish()
	return ret
}

// plateauLength is the longest contiguous run of path nodes settled by
// both searches, measured as the sum of the run's inner edge weights.
func (x *XBDV) plateauLength(path da.Path) uint32 {
	var currentPlateauLength, maxPlateauLength uint32
	inPlateau := false
	for i := 0; i < len(path.Nodes); i++ {
		if x.searchSpaceFwd.Has(path.Nodes[i]) && x.searchSpaceBwd.Has(path.Nodes[i]) {
			if !inPlateau {
				inPlateau = true
			} else {
				currentPlateauLength = addWeights(currentPlateauLength, x.g.EdgeWeight(path.Nodes[i-1], path.Nodes[i]))
			}
		} else {
			inPlateau = false
			if currentPlateauLength > maxPlateauLength {
				maxPlateauLength = currentPlateauLength
			}
			currentPlateauLength = 0
		}
	}
	if currentPlateauLength > maxPlateauLength {
		maxPlateauLength = currentPlateauLength
	}
	return maxPlateauLength
}

// sortKey ranks candidates ascending; lower is better.
func (x *XBDV) sortKey(p, optimalPath da.Path) int64 {
	return 2*int64(p.Length) + int64(x.sharing(p, optimalPath)) - int64(x.plateauLength(p))
}

// implicitPath reconstructs the via path through n from both parent
// vectors.
func (x *XBDV) implicitPath(n da.Index) da.Path {
	pathLength := addWeights(x.distVecFwd.Get(n), x.distVecBwd.Get(n))
	nodes := make([]da.Index, 0)
	current := n
	for current != da.INVALID_ID {
		nodes = append(nodes, current)
		current = x.parentVecFwd.Get(current)
	}
	util.Reverse(nodes)
	current = x.parentVecBwd.Get(n)
	for current != da.INVALID_ID {
		nodes = append(nodes, current)
		current = x.parentVecBwd.Get(current)
	}
	return da.NewPath(nodes, pathLength)
}

func (x *XBDV) reset() {
	x.queueFwd.Clear()
	x.queueBwd.Clear()
	x.distVecFwd.StepTime()
	x.distVecBwd.StepTime()
	x.parentVecFwd.StepTime()
	x.parentVecBwd.StepTime()
	x.searchSpaceFwd.Clear()
	x.searchSpaceBwd.Clear()
}

// RunBDV produces the ranked alternative paths for (source, target).
func (x *XBDV) RunBDV(source, target da.Index, runTTest bool, alpha, eps, gamma float64) []da.Path {
	x.reset()

	x.dijkstra.SetSource(source)
	x.dijkstra.RunUntilTargetFound(target)
	optimalPath := x.dijkstra.PathTo(target)
	x.dijkstra.Finish()
	if optimalPath.Length == pkg.INF_WEIGHT {
		return []da.Path{}
	}
	if x.log != nil {
		x.log.Debug("optimal path found", zap.Uint32("length", optimalPath.Length))
	}

	maxDist := uint32(float64(optimalPath.Length) * (1 + eps))
	x.runBidirectionalDijkstra(source, target, maxDist)

	// nodes settled by both sides within the stretch bound
	searchSpaceCut := make([]da.Index, 0)
	for _, n := range x.searchSpaceFwd.Items() {
		if !x.searchSpaceBwd.Has(n) {
			continue
		}
		if float64(addWeights(x.distVecFwd.Get(n), x.distVecBwd.Get(n))) < (1+eps)*float64(optimalPath.Length) {
			searchSpaceCut = append(searchSpaceCut, n)
		}
	}

	alternativePaths := make([]da.Path, 0)
	consideredPaths := make([]da.Path, 0)
	sharingSuccess := 0
	localOptimalitySuccess := 0
	for _, viaNode := range searchSpaceCut {
		path := x.implicitPath(viaNode)
		duplicate := false
		for _, seen := range consideredPaths {
			if seen.Equal(path) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		consideredPaths = append(consideredPaths, path)

		if !x.testLimitedSharing(path, optimalPath, gamma) {
			continue
		}
		sharingSuccess++
		if runTTest && !x.testLocalOptimalityApproximation(viaNode, uint32(alpha*float64(optimalPath.Length))) {
			continue
		}
		localOptimalitySuccess++
		alternativePaths = append(alternativePaths, path)
	}

	sort.SliceStable(alternativePaths, func(i, j int) bool {
		return x.sortKey(alternativePaths[i], optimalPath) < x.sortKey(alternativePaths[j], optimalPath)
	})

	if x.log != nil {
		x.log.Debug("alternative path extraction finished",
			zap.Int("considered", len(consideredPaths)),
			zap.Int("passed_sharing", sharingSuccess),
			zap.Int("passed_t_test", localOptimalitySuccess))
	}
	return alternativePaths
}
