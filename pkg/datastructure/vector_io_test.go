package datastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVectorRoundTrip(t *testing.T) {
	dir := t.TempDir()

	u := []uint32{0, 1, 4294967295, 42}
	require.NoError(t, SaveVector(filepath.Join(dir, "u"), u))
	uBack, err := LoadVector[uint32](filepath.Join(dir, "u"))
	require.NoError(t, err)
	require.Equal(t, u, uBack)

	f := []float32{1.5, -2.25, 0}
	require.NoError(t, SaveVector(filepath.Join(dir, "f"), f))
	fBack, err := LoadVector[float32](filepath.Join(dir, "f"))
	require.NoError(t, err)
	require.Equal(t, f, fBack)
}

func TestLoadVectorMalformedLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))

	_, err := LoadVector[uint32](path)
	require.Error(t, err)
}

func writeTestGraphDir(t *testing.T, dir string) {
	t.Helper()
	// triangle: 0->1 (3), 1->2 (4), 0->2 (10)
	require.NoError(t, SaveVector(filepath.Join(dir, "first_out"), []uint32{0, 2, 3, 3}))
	require.NoError(t, SaveVector(filepath.Join(dir, "head"), []uint32{1, 2, 2}))
	require.NoError(t, SaveVector(filepath.Join(dir, "weight"), []uint32{3, 10, 4}))
}

func TestReadGraph(t *testing.T) {
	dir := t.TempDir()
	writeTestGraphDir(t, dir)

	g, err := ReadGraph(dir, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 3, g.NumberOfNodes())
	require.Equal(t, 3, g.NumberOfEdges())
	require.Equal(t, uint32(3), g.EdgeWeight(0, 1))
	require.Equal(t, uint32(10), g.EdgeWeight(0, 2))
	require.Equal(t, uint32(4), g.EdgeWeight(1, 2))
}

func TestReadGraphInconsistentVectors(t *testing.T) {
	dir := t.TempDir()
	writeTestGraphDir(t, dir)
	require.NoError(t, SaveVector(filepath.Join(dir, "weight"), []uint32{3, 10}))

	_, err := ReadGraph(dir, zap.NewNop())
	require.Error(t, err)
}

func TestReadContractionHierarchy(t *testing.T) {
	dir := t.TempDir()
	writeTestGraphDir(t, dir)

	chDir := filepath.Join(dir, "ch")
	require.NoError(t, os.MkdirAll(chDir, 0755))
	writeTestGraphDir(t, chDir)
	require.NoError(t, SaveVector(filepath.Join(chDir, "order"), []uint32{2, 1, 0}))

	ch, err := ReadContractionHierarchy(dir, zap.NewNop())
	require.NoError(t, err)
	// order [2,1,0]: rank(2)=0, rank(1)=1, rank(0)=2
	require.Equal(t, []Index{2, 1, 0}, ch.Ranking)
	// all arcs point down in rank, the forward graph is empty and every
	// arc lands reversed in the backward graph
	require.Equal(t, 0, ch.ForwardGraph.NumberOfEdges())
	require.Equal(t, 3, ch.BackwardGraph.NumberOfEdges())
	require.Equal(t, uint32(3), ch.BackwardGraph.EdgeWeight(1, 0))
	require.Equal(t, uint32(10), ch.BackwardGraph.EdgeWeight(2, 0))
	require.Equal(t, uint32(4), ch.BackwardGraph.EdgeWeight(2, 1))
}
