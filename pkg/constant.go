package pkg

import "math"

const (
	// INF_WEIGHT marks an unreachable distance. Graph weights must stay
	// well below it so that saturating additions never wrap.
	INF_WEIGHT uint32 = math.MaxUint32

	INVALID_ID uint32 = math.MaxUint32
)

// penalty method defaults (Bader et al., Alternative Route Graphs in Road Networks)
const (
	DEFAULT_PENALTY_FACTOR float64 = 0.04
	DEFAULT_REJOIN_ALPHA   float64 = 0.5
	DEFAULT_STRETCH_EPS    float64 = 0.1
	DEFAULT_DETOUR_DELTA   float64 = 0.1

	MAX_PENALTY_ITERATIONS int = 20
)

// x-bdv defaults (Abraham et al., Alternative Routes in Road Networks)
const (
	DEFAULT_XBDV_ALPHA float64 = 0.25
	DEFAULT_XBDV_GAMMA float64 = 0.8
	DEFAULT_XBDV_EPS   float64 = 0.25
)
