package routing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// triangle of scenario S1: 0->1 (3), 1->2 (4), 0->2 (10)
func triangleGraph() *da.Graph {
	g := da.NewGraph(3)
	g.AddEdge(0, da.NewEdge(1, 3))
	g.AddEdge(1, da.NewEdge(2, 4))
	g.AddEdge(0, da.NewEdge(2, 10))
	return g
}

// ladder of scenario S3: two edge-disjoint paths of five unit edges from
// 0 to 9
func ladderGraph() *da.Graph {
	g := da.NewGraph(10)
	upper := []da.Index{0, 1, 2, 3, 4, 9}
	lower := []da.Index{0, 5, 6, 7, 8, 9}
	for i := 0; i+1 < len(upper); i++ {
		g.AddEdge(upper[i], da.NewEdge(upper[i+1], 1))
	}
	for i := 0; i+1 < len(lower); i++ {
		g.AddEdge(lower[i], da.NewEdge(lower[i+1], 1))
	}
	return g
}

// square of scenario S5: 0->1 (2), 1->3 (2), 0->2 (5), 2->3 (1)
func squareGraph() *da.Graph {
	g := da.NewGraph(4)
	g.AddEdge(0, da.NewEdge(1, 2))
	g.AddEdge(1, da.NewEdge(3, 2))
	g.AddEdge(0, da.NewEdge(2, 5))
	g.AddEdge(2, da.NewEdge(3, 1))
	return g
}

func randomGraph(rng *rand.Rand, n, m int, maxWeight uint32) *da.Graph {
	g := da.NewGraph(n)
	for i := 0; i < m; i++ {
		u := da.Index(rng.Intn(n))
		v := da.Index(rng.Intn(n))
		if u == v {
			continue
		}
		g.AddEdge(u, da.NewEdge(v, uint32(rng.Intn(int(maxWeight)))+1))
	}
	return g
}

func identityOrder(n int) []da.Index {
	order := make([]da.Index, n)
	for i := range order {
		order[i] = da.Index(i)
	}
	return order
}

// dijkstraDist is the reference distance every faster search must match.
func dijkstraDist(g *da.Graph, s, t da.Index) uint32 {
	d := NewDijkstra(g)
	d.SetSource(s)
	d.RunUntilTargetFound(t)
	dist := d.Dist(t)
	d.Finish()
	return dist
}

// requireValidPath checks the node sequence walks existing edges whose
// weights sum to the reported length.
func requireValidPath(t *testing.T, g *da.Graph, path da.Path, s, target da.Index) {
	t.Helper()
	require.NotEmpty(t, path.Nodes)
	require.Equal(t, s, path.Nodes[0])
	require.Equal(t, target, path.Nodes[len(path.Nodes)-1])
	var sum uint32
	for i := 0; i+1 < len(path.Nodes); i++ {
		w := g.EdgeWeight(path.Nodes[i], path.Nodes[i+1])
		require.NotEqual(t, pkg.INF_WEIGHT, w, "path uses missing edge (%d,%d)", path.Nodes[i], path.Nodes[i+1])
		sum += w
	}
	require.Equal(t, path.Length, sum)
}
