package routing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

func TestAStarTriangle(t *testing.T) {
	g := triangleGraph()
	ch := NewContractor(g, nil).ContractInOrder(identityOrder(3))

	pot := NewCHPotentials(ch)
	pot.SetTarget(2)
	astar := NewAStar(g, pot)
	astar.AddSource(0)
	astar.RunUntilTargetFound(2)

	require.Equal(t, uint32(7), astar.Dist(2))
	path := astar.PathTo(2)
	require.Equal(t, []da.Index{0, 1, 2}, path.Nodes)
}

func TestAStarEqualsDijkstra(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	for trial := 0; trial < 5; trial++ {
		g := randomGraph(rng, 35, 150, 40)
		ch := NewContractor(g, nil).ContractBottomUp()
		pot := NewCHPotentials(ch)
		astar := NewAStar(g, pot)

		for q := 0; q < 60; q++ {
			s := da.Index(rng.Intn(35))
			tgt := da.Index(rng.Intn(35))
			pot.SetTarget(tgt)
			astar.AddSource(s)
			astar.RunUntilTargetFound(tgt)
			require.Equal(t, dijkstraDist(g, s, tgt), astar.Dist(tgt),
				"trial %d, query %d->%d", trial, s, tgt)
			astar.Finish()
		}
	}
}

func TestAStarMaxDistPruning(t *testing.T) {
	g := da.NewGraph(4)
	g.AddEdge(0, da.NewEdge(1, 1))
	g.AddEdge(1, da.NewEdge(2, 1))
	g.AddEdge(2, da.NewEdge(3, 1))
	ch := NewContractor(g, nil).ContractInOrder(identityOrder(4))
	pot := NewCHPotentials(ch)
	pot.SetTarget(3)

	astar := NewAStar(g, pot)
	astar.SetMaxDist(2)
	astar.AddSource(0)
	astar.RunUntilTargetFound(3)

	// every f exceeds the cap right away, the search never leaves 0
	require.Equal(t, pkg.INF_WEIGHT, astar.Dist(3))
	require.Empty(t, astar.PathTo(3).Nodes)
}
