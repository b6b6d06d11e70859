package routing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

func TestDijkstraTriangle(t *testing.T) {
	g := triangleGraph()
	d := NewDijkstra(g)
	d.SetSource(0)
	d.RunUntilTargetFound(2)

	require.Equal(t, uint32(7), d.Dist(2))
	path := d.PathTo(2)
	require.Equal(t, []da.Index{0, 1, 2}, path.Nodes)
	require.Equal(t, uint32(7), path.Length)
}

func TestDijkstraUnreachable(t *testing.T) {
	g := da.NewGraph(3)
	g.AddEdge(0, da.NewEdge(1, 5))

	d := NewDijkstra(g)
	d.SetSource(0)
	d.RunUntilDone()

	require.Equal(t, pkg.INF_WEIGHT, d.Dist(2))
	path := d.PathTo(2)
	require.Empty(t, path.Nodes)
	require.Equal(t, pkg.INF_WEIGHT, path.Length)
}

func TestDijkstraBlacklist(t *testing.T) {
	g := triangleGraph()
	d := NewDijkstra(g)
	d.SetBlacklisted(1)
	d.SetSource(0)
	d.RunUntilTargetFound(2)

	// with 1 gone the only route is the direct edge
	require.Equal(t, uint32(10), d.Dist(2))
	d.Finish()

	// the blacklist does not survive Finish
	d.SetSource(0)
	d.RunUntilTargetFound(2)
	require.Equal(t, uint32(7), d.Dist(2))
}

func TestDijkstraMaxDistCutoff(t *testing.T) {
	g := da.NewGraph(4)
	g.AddEdge(0, da.NewEdge(1, 1))
	g.AddEdge(1, da.NewEdge(2, 1))
	g.AddEdge(2, da.NewEdge(3, 1))

	d := NewDijkstra(g)
	d.SetMaxDist(2)
	d.SetSource(0)
	d.RunUntilTargetFound(3)

	require.Equal(t, pkg.INF_WEIGHT, d.Dist(3))
}

func TestDijkstraSearchSpaceAndReuse(t *testing.T) {
	g := triangleGraph()
	d := NewDijkstra(g)
	d.SetSource(0)
	d.RunUntilDone()
	require.Equal(t, []da.Index{0, 1, 2}, d.SearchSpace())

	d.Finish()
	require.Empty(t, d.SearchSpace())

	// state from the previous query must not leak
	d.SetSource(2)
	d.RunUntilDone()
	require.Equal(t, uint32(0), d.Dist(2))
	require.Equal(t, pkg.INF_WEIGHT, d.Dist(0))
}
