package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateHaversineDistance(t *testing.T) {
	// Yogyakarta -> Jakarta, roughly 430 km
	d := CalculateHaversineDistance(-7.7956, 110.3695, -6.2088, 106.8456)
	require.InDelta(t, 430, d, 15)

	require.InDelta(t, 0, CalculateHaversineDistance(1, 2, 1, 2), 1e-9)
}

func TestGetDestinationPointRoundTrip(t *testing.T) {
	lat, lon := GetDestinationPoint(-7.8, 110.4, 45, 10)
	d := CalculateHaversineDistance(-7.8, 110.4, lat, lon)
	require.InDelta(t, 10, d, 0.01)
}

func TestPolylineFromCoords(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}
	require.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", PolylineFromCoords(coords))
}
