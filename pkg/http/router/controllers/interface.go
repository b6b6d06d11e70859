package controllers

import (
	"github.com/julienschmidt/httprouter"
)

// RouteGroup is the registration surface the router exposes.
type RouteGroup interface {
	GET(path string, handle httprouter.Handle)
	POST(path string, handle httprouter.Handle)
}

// AlternativePathResult is one ranked alternative, ready for transport.
type AlternativePathResult struct {
	Polyline string  `json:"path"`
	Length   uint32  `json:"length"`
	Stretch  float64 `json:"stretch"`
}

type RoutingService interface {
	AlternativeRoutes(origLat, origLon, dstLat, dstLon float64, k int) ([]AlternativePathResult, error)
}
