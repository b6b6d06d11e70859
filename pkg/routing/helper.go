package routing

import (
	"github.com/raden-ps/penaltyx/pkg"
)

// addWeights saturates at INF_WEIGHT so distance arithmetic never wraps.
func addWeights(a, b uint32) uint32 {
	if a == pkg.INF_WEIGHT || b == pkg.INF_WEIGHT {
		return pkg.INF_WEIGHT
	}
	sum := uint64(a) + uint64(b)
	if sum >= uint64(pkg.INF_WEIGHT) {
		return pkg.INF_WEIGHT
	}
	return uint32(sum)
}

func minWeight(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
