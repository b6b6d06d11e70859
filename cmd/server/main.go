package main

import (
	"context"
	"flag"
	"path/filepath"

	"go.uber.org/zap"

	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	"github.com/raden-ps/penaltyx/pkg/http"
	"github.com/raden-ps/penaltyx/pkg/http/usecases"
	"github.com/raden-ps/penaltyx/pkg/logger"
	"github.com/raden-ps/penaltyx/pkg/routing"
	"github.com/raden-ps/penaltyx/pkg/spatialindex"
	"github.com/raden-ps/penaltyx/pkg/util"
)

var (
	input        = flag.String("input", "./data/graph", "path to input graph folder with latitude/longitude vectors")
	searchRadius = flag.Float64("search_radius", 0.2, "initial snapping radius in km")
	maxRadius    = flag.Float64("max_radius", 5.0, "maximum snapping radius in km")
	useRateLimit = flag.Bool("rate_limit", true, "enable per-client rate limiting")
)

type nodeCoords struct {
	lat []float32
	lon []float32
}

func (nc *nodeCoords) NodeCoordinates(n da.Index) (float64, float64) {
	return float64(nc.lat[n]), float64(nc.lon[n])
}

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := util.ReadConfig(); err != nil {
		log.Fatal("reading config failed", zap.Error(err))
	}

	g, err := da.ReadGraph(*input, log)
	if err != nil {
		log.Fatal("loading graph failed", zap.Error(err))
	}
	ch, err := da.ReadContractionHierarchy(*input, log)
	if err != nil {
		log.Fatal("loading contraction hierarchy failed", zap.Error(err))
	}
	lat, err := da.LoadVector[float32](filepath.Join(*input, "latitude"))
	if err != nil {
		log.Fatal("loading latitude vector failed", zap.Error(err))
	}
	lon, err := da.LoadVector[float32](filepath.Join(*input, "longitude"))
	if err != nil {
		log.Fatal("loading longitude vector failed", zap.Error(err))
	}
	if len(lat) != g.NumberOfNodes() || len(lon) != g.NumberOfNodes() {
		log.Fatal("coordinate vectors don't match the node count",
			zap.Int("nodes", g.NumberOfNodes()), zap.Int("lat", len(lat)), zap.Int("lon", len(lon)))
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(lat, lon, log)

	penalty := routing.NewPenaltyEngine(g, ch, log)
	routingService := usecases.NewRoutingService(log, g, penalty, rtree,
		&nodeCoords{lat: lat, lon: lon}, *searchRadius, *maxRadius)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := http.NewServer(log)
	if _, err := api.Use(ctx, log, *useRateLimit, routingService); err != nil {
		log.Fatal("starting API failed", zap.Error(err))
	}

	sig := http.GracefulShutdown()
	log.Info("penaltyx routing server stopped", zap.String("signal", sig.String()))
}
