package spatialindex

import (
	"fmt"
	"math"

	"github.com/tidwall/rtree"
	"go.uber.org/zap"

	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	"github.com/raden-ps/penaltyx/pkg/geo"
)

// Rtree snaps query coordinates to graph nodes. Leaves are node points;
// lookups search an expanding bounding box and refine by haversine
// distance.
type Rtree struct {
	tr  *rtree.RTreeG[da.Index]
	lat []float32
	lon []float32
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.Index]
	return &Rtree{tr: &tr}
}

// Build indexes every node that carries coordinates.
func (rt *Rtree) Build(lat, lon []float32, log *zap.Logger) {
	log.Info("building r-tree spatial index", zap.Int("nodes", len(lat)))
	rt.lat = lat
	rt.lon = lon
	for n := 0; n < len(lat); n++ {
		p := [2]float64{float64(lon[n]), float64(lat[n])}
		rt.tr.Insert(p, p, da.Index(n))
	}
	log.Info("r-tree spatial index built")
}

// SearchWithinRadius returns the indexed nodes inside a bounding box with
// the given radius in km around the query point.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []da.Index {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]da.Index, 0, 16)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data da.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

// SnapToNode returns the node nearest to (qLat, qLon), doubling the
// search radius until something is found or maxRadius km is exceeded.
func (rt *Rtree) SnapToNode(qLat, qLon, searchRadius, maxRadius float64) (da.Index, error) {
	for radius := searchRadius; radius <= maxRadius; radius *= 2 {
		candidates := rt.SearchWithinRadius(qLat, qLon, radius)
		if len(candidates) == 0 {
			continue
		}
		best := da.INVALID_ID
		bestDist := math.MaxFloat64
		for _, n := range candidates {
			d := geo.CalculateHaversineDistance(qLat, qLon, float64(rt.lat[n]), float64(rt.lon[n]))
			if d < bestDist {
				bestDist = d
				best = n
			}
		}
		return best, nil
	}
	return da.INVALID_ID, fmt.Errorf("no node within %.1f km of (%f, %f)", maxRadius, qLat, qLon)
}
