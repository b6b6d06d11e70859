package routing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

func TestPenaltyEngineUnreachable(t *testing.T) {
	g := da.NewGraph(3)
	g.AddEdge(0, da.NewEdge(1, 5))
	ch := NewContractor(g, nil).ContractInOrder(identityOrder(3))

	engine := NewPenaltyEngine(g, ch, nil)
	engine.SetSource(0)
	engine.SetTarget(2)
	engine.Run()

	require.Equal(t, 0, engine.AltGraph().NumberOfEdges())
}

func TestPenaltyEngineLadderFindsDisjointAlternative(t *testing.T) {
	g := ladderGraph()
	ch := NewContractor(g, nil).ContractBottomUp()

	engine := NewPenaltyEngine(g, ch, nil)
	engine.SetSource(0)
	engine.SetTarget(9)
	engine.Run()

	alt := engine.AltGraph()
	// both unit-weight paths survive with their original weights
	require.Equal(t, 10, alt.NumberOfEdges())
	for _, path := range [][]da.Index{{0, 1, 2, 3, 4, 9}, {0, 5, 6, 7, 8, 9}} {
		for i := 0; i+1 < len(path); i++ {
			require.Equal(t, uint32(1), alt.EdgeWeight(path[i], path[i+1]),
				"edge (%d,%d) missing or penalized", path[i], path[i+1])
		}
	}
}

func TestPenaltyEngineKeepsOriginalWeightsInAltGraph(t *testing.T) {
	g := ladderGraph()
	ch := NewContractor(g, nil).ContractBottomUp()

	engine := NewPenaltyEngine(g, ch, nil)
	engine.SetSource(0)
	engine.SetTarget(9)
	engine.Run()

	engine.AltGraph().ForEdges(func(u, v da.Index, w uint32) {
		require.Equal(t, g.EdgeWeight(u, v), w)
	})
	// the input graph itself is never touched
	g.ForEdges(func(u, v da.Index, w uint32) {
		require.Equal(t, uint32(1), w)
	})
}

func TestPenaltyEngineReset(t *testing.T) {
	g := ladderGraph()
	ch := NewContractor(g, nil).ContractBottomUp()

	engine := NewPenaltyEngine(g, ch, nil)
	engine.SetSource(0)
	engine.SetTarget(9)
	engine.Run()
	require.NotZero(t, engine.AltGraph().NumberOfEdges())

	engine.Reset()
	require.Equal(t, 0, engine.AltGraph().NumberOfEdges())

	// a second query behaves like the first
	engine.SetSource(0)
	engine.SetTarget(9)
	engine.Run()
	require.Equal(t, 10, engine.AltGraph().NumberOfEdges())
}

func TestDetourDetection(t *testing.T) {
	// reference 0-1-2-3-4, candidate leaves at 1 and rejoins at 3
	g := da.NewGraph(7)
	ref := []da.Index{0, 1, 2, 3, 4}
	for i := 0; i+1 < len(ref); i++ {
		g.AddEdge(ref[i], da.NewEdge(ref[i+1], 1))
	}
	g.AddEdge(1, da.NewEdge(5, 2))
	g.AddEdge(5, da.NewEdge(6, 3))
	g.AddEdge(6, da.NewEdge(3, 4))
	ch := NewContractor(g, nil).ContractInOrder(identityOrder(7))

	engine := NewPenaltyEngine(g, ch, nil)
	refPath := da.NewPath(ref, 4)
	candidate := da.NewPath([]da.Index{0, 1, 5, 6, 3, 4}, 11)

	detours := engine.detours(candidate, refPath)
	require.Len(t, detours, 1)
	require.Equal(t, da.Index(1), detours[0].A)
	require.Equal(t, da.Index(3), detours[0].B)
	require.Equal(t, uint32(2+3+4), detours[0].Length)
}

func TestPathIntersection(t *testing.T) {
	g := ladderGraph()
	ch := NewContractor(g, nil).ContractBottomUp()
	engine := NewPenaltyEngine(g, ch, nil)

	upper := da.NewPath([]da.Index{0, 1, 2, 3, 4, 9}, 5)
	lower := da.NewPath([]da.Index{0, 5, 6, 7, 8, 9}, 5)
	require.Equal(t, []da.Index{0, 9}, engine.pathIntersection(lower, upper))
	require.Equal(t, []da.Index{0, 1, 2, 3, 4, 9}, engine.pathIntersection(upper, upper))
}

func TestFeasibilityRequiresLongAndGoodDetour(t *testing.T) {
	g := ladderGraph()
	ch := NewContractor(g, nil).ContractBottomUp()
	engine := NewPenaltyEngine(g, ch, nil)

	upper := da.NewPath([]da.Index{0, 1, 2, 3, 4, 9}, 5)
	lower := da.NewPath([]da.Index{0, 5, 6, 7, 8, 9}, 5)
	engine.addPathToGraph(upper, engine.AltGraph())

	// the lower path is one long detour: length 5 >= delta*5 and within
	// (1+eps) of the alt-graph distance 5
	require.True(t, engine.isFeasible(lower, upper))

	// the reference itself has no detour at all
	require.False(t, engine.isFeasible(upper, upper))

	// an unreachable candidate is never feasible
	require.False(t, engine.isFeasible(da.NewPath([]da.Index{}, pkg.INF_WEIGHT), upper))
}

func TestPenaltyEngineRecorder(t *testing.T) {
	g := ladderGraph()
	ch := NewContractor(g, nil).ContractBottomUp()

	recorder := NewQueryRecorder()
	engine := NewPenaltyEngine(g, ch, nil)
	engine.SetRecorder(recorder)

	recorder.BeginTestCase(0, 9, 0)
	engine.SetSource(0)
	engine.SetTarget(9)
	engine.Run()
	recorder.FinishTestCase()

	data, err := recorder.MarshalResults()
	require.NoError(t, err)
	require.Contains(t, string(data), "\"tests\"")
	require.Contains(t, string(data), "\"cases\"")
	require.Contains(t, string(data), "\"shortest_length\": 5")
	require.Contains(t, string(data), "\"iterations\"")
}
