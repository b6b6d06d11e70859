package geo

import (
	"github.com/golang/geo/s2"
)

// ProjectPointToLineCoord projects snap onto the geodesic segment
// pointA-pointB.
func ProjectPointToLineCoord(pointA, pointB, snap Coordinate) Coordinate {
	pointAS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointA.Lat, pointA.Lon))
	pointBS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointB.Lat, pointB.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))
	projection := s2.Project(snapS2, pointAS2, pointBS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// PointLinePerpendicularDistance returns the distance in meters from snap
// to the segment pointA-pointB.
func PointLinePerpendicularDistance(pointA, pointB, snap Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(pointA, pointB, snap)
	dist := CalculateHaversineDistance(snap.GetLat(), snap.GetLon(),
		projectionPoint.GetLat(), projectionPoint.GetLon())
	return dist * 1000
}
