package datastructure

// ContractionHierarchy is the preprocessed artifact of a graph: two
// upward graphs plus a node ranking. ForwardGraph holds every CH arc u->v
// with Ranking[u] < Ranking[v]; BackwardGraph holds, for every CH arc
// u->v with Ranking[u] > Ranking[v], the reversed arc v->u with the same
// weight. Both graphs therefore only contain arcs pointing up in rank.
type ContractionHierarchy struct {
	ForwardGraph  *Graph
	BackwardGraph *Graph
	Ranking       []Index
}

// OrderToRanking inverts a contraction order: order[i] is the i-th node
// to contract, ranking[order[i]] = i.
func OrderToRanking(order []Index) []Index {
	ranking := make([]Index, len(order))
	for i := range order {
		ranking[order[i]] = Index(i)
	}
	return ranking
}

// SplitByRanking distributes the arcs of ch into an upward forward graph
// and a reversed upward backward graph.
func SplitByRanking(ch *Graph, ranking []Index) (*Graph, *Graph) {
	forwardGraph := NewGraph(ch.NumberOfNodes())
	backwardGraph := NewGraph(ch.NumberOfNodes())
	ch.ForEdges(func(u, v Index, w uint32) {
		if ranking[u] < ranking[v] {
			forwardGraph.AddEdge(u, NewEdge(v, w))
		} else {
			backwardGraph.AddEdge(v, NewEdge(u, w))
		}
	})
	return forwardGraph, backwardGraph
}
