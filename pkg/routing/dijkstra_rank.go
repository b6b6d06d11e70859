package routing

import (
	"sort"

	"golang.org/x/exp/rand"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// DijkstraRankNodes runs a full Dijkstra from source, sorts all nodes by
// distance and picks the nodes at ranks 1, 2, 4, 8, ... . Workloads built
// this way exercise queries of every hop-count magnitude.
func DijkstraRankNodes(g *da.Graph, source da.Index) []da.Index {
	dijkstra := NewDijkstra(g)
	dijkstra.SetSource(source)
	dijkstra.RunUntilDone()

	type distNode struct {
		dist uint32
		node da.Index
	}
	dist := make([]distNode, 0, g.NumberOfNodes())
	for n := da.Index(0); n < g.Size(); n++ {
		dist = append(dist, distNode{dist: dijkstra.Dist(n), node: n})
	}
	dijkstra.Finish()

	sort.Slice(dist, func(i, j int) bool {
		if dist[i].dist != dist[j].dist {
			return dist[i].dist < dist[j].dist
		}
		return dist[i].node < dist[j].node
	})

	ret := make([]da.Index, 0)
	for i := 1; i < len(dist); i *= 2 {
		if dist[i].dist == pkg.INF_WEIGHT {
			break
		}
		ret = append(ret, dist[i].node)
	}
	return ret
}

// RandomSourceTargetVectors draws n uniformly random s,t pairs.
func RandomSourceTargetVectors(n int, graphSize da.Index, rng *rand.Rand) ([]uint32, []uint32) {
	sources := make([]uint32, n)
	targets := make([]uint32, n)
	for i := 0; i < n; i++ {
		sources[i] = uint32(rng.Intn(int(graphSize)))
		targets[i] = uint32(rng.Intn(int(graphSize)))
	}
	return sources, targets
}
