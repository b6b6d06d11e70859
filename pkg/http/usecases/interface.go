package usecases

import (
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// SpatialIndex resolves query coordinates to graph nodes.
type SpatialIndex interface {
	SnapToNode(lat, lon, searchRadius, maxRadius float64) (da.Index, error)
}

// CoordinateProvider exposes node coordinates for response geometry.
type CoordinateProvider interface {
	NodeCoordinates(n da.Index) (float64, float64)
}
