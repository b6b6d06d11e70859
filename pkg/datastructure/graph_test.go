package datastructure

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raden-ps/penaltyx/pkg"
)

func TestAddEdgeKeepsMinimumWeight(t *testing.T) {
	g := NewGraph(2)
	g.AddEdge(0, NewEdge(1, 10))
	g.AddEdge(0, NewEdge(1, 3))

	require.Len(t, g.OutArcs(0), 1)
	require.Equal(t, NewEdge(1, 3), g.OutArcs(0)[0])
	require.Len(t, g.RevOutArcs(1), 1)
	require.Equal(t, NewEdge(0, 3), g.RevOutArcs(1)[0])

	// a heavier duplicate leaves the stored weight alone
	g.AddEdge(0, NewEdge(1, 7))
	require.Len(t, g.OutArcs(0), 1)
	require.Equal(t, uint32(3), g.EdgeWeight(0, 1))
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := NewGraph(2)
	g.AddEdge(0, NewEdge(1, 5))
	g.AddEdge(0, NewEdge(1, 5))
	g.AddEdge(0, NewEdge(1, 5))

	require.Equal(t, 1, g.NumberOfEdges())
	require.Equal(t, uint32(5), g.EdgeWeight(0, 1))
}

func TestRemoveEdge(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, NewEdge(1, 2))
	g.AddEdge(0, NewEdge(2, 3))

	require.True(t, g.RemoveEdge(0, 1))
	require.False(t, g.RemoveEdge(0, 1))
	require.Equal(t, pkg.INF_WEIGHT, g.EdgeWeight(0, 1))
	require.Empty(t, g.RevOutArcs(1))
	require.Equal(t, uint32(3), g.EdgeWeight(0, 2))
}

func TestChangeEdgeWeightPropagatesToBothSides(t *testing.T) {
	g := NewGraph(2)
	g.AddEdge(0, NewEdge(1, 4))
	g.ChangeEdgeWeight(0, 1, 9)

	require.Equal(t, uint32(9), g.EdgeWeight(0, 1))
	require.Equal(t, NewEdge(0, 9), g.RevOutArcs(1)[0])
}

func TestDisconnectNode(t *testing.T) {
	g := NewGraph(4)
	g.AddEdge(0, NewEdge(1, 1))
	g.AddEdge(1, NewEdge(2, 1))
	g.AddEdge(2, NewEdge(1, 1))
	g.AddEdge(3, NewEdge(1, 1))

	g.DisconnectNode(1)

	require.Empty(t, g.OutArcs(1))
	require.Empty(t, g.RevOutArcs(1))
	require.Empty(t, g.OutArcs(0))
	require.Empty(t, g.OutArcs(3))
	require.Equal(t, Index(4), g.Size())
	requireConsistent(t, g)
}

// requireConsistent checks that forward and reverse adjacency agree on
// the exact same {(u,v,w)} set with no duplicate (u,v) pairs.
func requireConsistent(t *testing.T, g *Graph) {
	t.Helper()
	forward := make(map[[2]Index]uint32)
	g.ForEdges(func(u, v Index, w uint32) {
		_, dup := forward[[2]Index{u, v}]
		require.False(t, dup, "duplicate forward edge (%d,%d)", u, v)
		forward[[2]Index{u, v}] = w
	})

	reverseCount := 0
	for v := Index(0); v < g.Size(); v++ {
		seen := make(map[Index]struct{})
		for _, arc := range g.RevOutArcs(v) {
			_, dup := seen[arc.Target]
			require.False(t, dup, "duplicate reverse edge (%d,%d)", arc.Target, v)
			seen[arc.Target] = struct{}{}
			w, ok := forward[[2]Index{arc.Target, v}]
			require.True(t, ok, "reverse edge (%d,%d) missing forward twin", arc.Target, v)
			require.Equal(t, w, arc.Weight, "weight mismatch on (%d,%d)", arc.Target, v)
			reverseCount++
		}
	}
	require.Equal(t, len(forward), reverseCount)
}

func TestGraphConsistencyUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 30
	g := NewGraph(n)

	for step := 0; step < 2000; step++ {
		u := Index(rng.Intn(n))
		v := Index(rng.Intn(n))
		switch rng.Intn(4) {
		case 0:
			g.AddEdge(u, NewEdge(v, uint32(rng.Intn(1000)+1)))
		case 1:
			g.RemoveEdge(u, v)
		case 2:
			if g.EdgeWeight(u, v) != pkg.INF_WEIGHT {
				g.ChangeEdgeWeight(u, v, uint32(rng.Intn(1000)+1))
			}
		case 3:
			if step%17 == 0 {
				g.DisconnectNode(u)
			}
		}
	}
	requireConsistent(t, g)
}

func TestCloneAndCopyFrom(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, NewEdge(1, 2))
	g.AddEdge(1, NewEdge(2, 3))

	c := g.Clone()
	c.ChangeEdgeWeight(0, 1, 99)
	require.Equal(t, uint32(2), g.EdgeWeight(0, 1), "clone must not alias the original")

	c.CopyFrom(g)
	require.Equal(t, uint32(2), c.EdgeWeight(0, 1))
	require.Equal(t, g.NumberOfEdges(), c.NumberOfEdges())
}
