package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coordinates with the google polyline
// algorithm, the format routing clients expect.
func PolylineFromCoords(coords []Coordinate) string {
	flat := make([][]float64, len(coords))
	for i, c := range coords {
		flat[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(flat))
}
