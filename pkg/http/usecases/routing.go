package usecases

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/raden-ps/penaltyx/pkg"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	"github.com/raden-ps/penaltyx/pkg/geo"
	"github.com/raden-ps/penaltyx/pkg/http/router/controllers"
	"github.com/raden-ps/penaltyx/pkg/routing"
	"github.com/raden-ps/penaltyx/pkg/util"
)

// RoutingService answers alternative-route requests: snap both endpoints
// to graph nodes, grow the alternative subgraph with the penalty engine
// and extract ranked paths with the X-BDV selector. The penalty engine
// carries per-query state, so requests are serialized on it.
type RoutingService struct {
	log          *zap.Logger
	graph        *da.Graph
	penalty      *routing.PenaltyEngine
	spatialIndex SpatialIndex
	coords       CoordinateProvider
	searchRadius float64
	maxRadius    float64

	mu sync.Mutex
}

func NewRoutingService(log *zap.Logger, graph *da.Graph, penalty *routing.PenaltyEngine,
	spatialIndex SpatialIndex, coords CoordinateProvider, searchRadius, maxRadius float64) *RoutingService {
	return &RoutingService{
		log:          log,
		graph:        graph,
		penalty:      penalty,
		spatialIndex: spatialIndex,
		coords:       coords,
		searchRadius: searchRadius,
		maxRadius:    maxRadius,
	}
}

func (rs *RoutingService) AlternativeRoutes(origLat, origLon, dstLat, dstLon float64, k int) ([]controllers.AlternativePathResult, error) {
	source, err := rs.spatialIndex.SnapToNode(origLat, origLon, rs.searchRadius, rs.maxRadius)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "no road near origin (%f, %f)", origLat, origLon)
	}
	target, err := rs.spatialIndex.SnapToNode(dstLat, dstLon, rs.searchRadius, rs.maxRadius)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "no road near destination (%f, %f)", dstLat, dstLon)
	}

	rs.mu.Lock()
	rs.penalty.SetSource(source)
	rs.penalty.SetTarget(target)
	rs.penalty.Run()
	altGraph := rs.penalty.AltGraph().Clone()
	rs.penalty.Reset()
	rs.mu.Unlock()

	if altGraph.NumberOfEdges() == 0 {
		return nil, util.WrapErrorf(fmt.Errorf("no path from %d to %d", source, target),
			util.ErrNotFound, "destination is not reachable from origin")
	}

	xbdv := routing.NewXBDV(altGraph, rs.log)
	paths := xbdv.RunBDV(source, target, false,
		pkg.DEFAULT_XBDV_ALPHA, pkg.DEFAULT_XBDV_EPS, pkg.DEFAULT_XBDV_GAMMA)

	if len(paths) > k {
		paths = paths[:k]
	}

	dijkstra := routing.NewDijkstra(altGraph)
	dijkstra.SetSource(source)
	dijkstra.RunUntilTargetFound(target)
	optimalLength := dijkstra.Dist(target)
	dijkstra.Finish()

	results := make([]controllers.AlternativePathResult, 0, len(paths))
	for _, p := range paths {
		coords := make([]geo.Coordinate, 0, len(p.Nodes))
		for _, n := range p.Nodes {
			lat, lon := rs.coords.NodeCoordinates(n)
			coords = append(coords, geo.NewCoordinate(lat, lon))
		}
		stretch := 0.0
		if optimalLength != pkg.INF_WEIGHT && optimalLength > 0 {
			stretch = float64(p.Length) / float64(optimalLength)
		}
		results = append(results, controllers.AlternativePathResult{
			Polyline: geo.PolylineFromCoords(coords),
			Length:   p.Length,
			Stretch:  stretch,
		})
	}
	return results, nil
}
