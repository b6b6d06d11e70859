package routing

import (
	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// EvaluatePathQuality measures the published quality criteria of one
// alternative path against the graph it was extracted from: stretch and
// sharing relative to the optimal path between the same endpoints, plus
// local optimality and uniformly bounded stretch over all sub-paths. The
// sub-path sweep reuses CH potentials as an exact distance oracle, one
// target change per path node. This is expensive and intended for
// offline evaluation runs.
func EvaluatePathQuality(g *da.Graph, ch *da.ContractionHierarchy, path da.Path) PathQualityResult {
	ret := PathQualityResult{Length: path.Length}
	if len(path.Nodes) < 2 {
		return ret
	}

	dijkstra := NewDijkstra(g)
	dijkstra.SetSource(path.Nodes[0])
	dijkstra.RunUntilTargetFound(path.Nodes[len(path.Nodes)-1])
	optimalPath := dijkstra.PathTo(path.Nodes[len(path.Nodes)-1])
	dijkstra.Finish()
	if optimalPath.Length == pkg.INF_WEIGHT || optimalPath.Length == 0 {
		return ret
	}

	optimalSet := make(map[da.Index]struct{}, len(optimalPath.Nodes))
	for _, n := range optimalPath.Nodes {
		optimalSet[n] = struct{}{}
	}
	var sharedDist uint32
	for i := 1; i < len(path.Nodes); i++ {
		if _, ok := optimalSet[path.Nodes[i]]; ok {
			sharedDist = addWeights(sharedDist, g.EdgeWeight(path.Nodes[i-1], path.Nodes[i]))
		}
	}
	ret.Sharing = float64(sharedDist) / float64(optimalPath.Length)
	ret.Stretch = float64(path.Length) / float64(optimalPath.Length)

	potentials := NewCHPotentials(ch)
	worstUBS := 1.0
	minDistWithoutLocalOptimality := path.Length
	for i := len(path.Nodes) - 1; i >= 1; i-- {
		var pathDist uint32
		potentials.SetTarget(path.Nodes[i])
		for j := i - 1; j >= 0; j-- {
			pathDist = addWeights(pathDist, g.EdgeWeight(path.Nodes[j], path.Nodes[j+1]))
			optimalDist := potentials.Potential(path.Nodes[j])
			if pathDist != optimalDist && pathDist < minDistWithoutLocalOptimality {
				minDistWithoutLocalOptimality = pathDist
			}
			if optimalDist > 0 && optimalDist != pkg.INF_WEIGHT {
				stretch := float64(pathDist) / float64(optimalDist)
				if stretch > worstUBS {
					worstUBS = stretch
				}
			}
		}
	}
	ret.UniformlyBoundedStretch = worstUBS
	ret.LocalOptimality = float64(minDistWithoutLocalOptimality) / float64(path.Length)
	return ret
}
