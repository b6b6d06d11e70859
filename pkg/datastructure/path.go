package datastructure

// Path is an ordered node sequence together with the sum of traversed edge
// weights. An unreachable target yields an empty path with INF_WEIGHT
// length.
type Path struct {
	Nodes  []Index
	Length uint32
}

func NewPath(nodes []Index, length uint32) Path {
	return Path{Nodes: nodes, Length: length}
}

func (p Path) Equal(other Path) bool {
	if p.Length != other.Length || len(p.Nodes) != len(other.Nodes) {
		return false
	}
	for i := range p.Nodes {
		if p.Nodes[i] != other.Nodes[i] {
			return false
		}
	}
	return true
}
