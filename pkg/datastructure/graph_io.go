package datastructure

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// ReadGraph loads a graph directory in CSR form: first_out (|V|+1
// cumulative out-degrees), head (|E| targets) and weight (|E| weights).
// Malformed vectors are fatal, there is no partial recovery.
func ReadGraph(dir string, log *zap.Logger) (*Graph, error) {
	firstOut, err := LoadVector[uint32](filepath.Join(dir, "first_out"))
	if err != nil {
		return nil, err
	}
	head, err := LoadVector[uint32](filepath.Join(dir, "head"))
	if err != nil {
		return nil, err
	}
	weight, err := LoadVector[uint32](filepath.Join(dir, "weight"))
	if err != nil {
		return nil, err
	}

	if len(firstOut) == 0 {
		return nil, fmt.Errorf("graph %s: empty first_out vector", dir)
	}
	if int(firstOut[len(firstOut)-1]) != len(head) || len(head) != len(weight) {
		return nil, fmt.Errorf("graph %s: inconsistent vector sizes (first_out=%d, head=%d, weight=%d)",
			dir, len(firstOut), len(head), len(weight))
	}

	log.Info("loading graph",
		zap.String("dir", dir),
		zap.Int("nodes", len(firstOut)-1),
		zap.Int("edges", len(head)))

	g := NewGraph(len(firstOut) - 1)
	for i := 0; i < len(firstOut)-1; i++ {
		if firstOut[i] > firstOut[i+1] || int(firstOut[i+1]) > len(head) {
			return nil, fmt.Errorf("graph %s: malformed first_out vector at row %d", dir, i)
		}
		for j := firstOut[i]; j < firstOut[i+1]; j++ {
			g.AddEdge(Index(i), NewEdge(Index(head[j]), weight[j]))
		}
	}
	return g, nil
}

// ReadContractionHierarchy loads the ch/ subdirectory of a graph dir: the
// same CSR layout holding all CH arcs, plus an order vector with the i-th
// node to contract at position i.
func ReadContractionHierarchy(dir string, log *zap.Logger) (*ContractionHierarchy, error) {
	chDir := filepath.Join(dir, "ch")
	chGraph, err := ReadGraph(chDir, log)
	if err != nil {
		return nil, err
	}
	order, err := LoadVector[uint32](filepath.Join(chDir, "order"))
	if err != nil {
		return nil, err
	}
	if len(order) != chGraph.NumberOfNodes() {
		return nil, fmt.Errorf("ch %s: order vector has %d entries for %d nodes",
			chDir, len(order), chGraph.NumberOfNodes())
	}

	orderIdx := make([]Index, len(order))
	for i, n := range order {
		orderIdx[i] = Index(n)
	}
	ranking := OrderToRanking(orderIdx)
	forwardGraph, backwardGraph := SplitByRanking(chGraph, ranking)
	return &ContractionHierarchy{
		ForwardGraph:  forwardGraph,
		BackwardGraph: backwardGraph,
		Ranking:       ranking,
	}, nil
}
