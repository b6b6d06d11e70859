package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/raden-ps/penaltyx/pkg"
	"github.com/raden-ps/penaltyx/pkg/concurrent"
	da "github.com/raden-ps/penaltyx/pkg/datastructure"
	log "github.com/raden-ps/penaltyx/pkg/logger"
	"github.com/raden-ps/penaltyx/pkg/routing"
	"github.com/raden-ps/penaltyx/pkg/util"
)

func main() {
	logger, err := log.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		logger.Error("reading config failed", zap.Error(err))
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		logger.Info("usage: penaltyx [run|generate] [OPTIONS]")
		logger.Info("see README.md for details")
		os.Exit(1)
	}

	var code int
	switch os.Args[1] {
	case "run":
		code = runPenaltyMode(logger, os.Args[2:])
	case "generate":
		code = generateVectors(logger, os.Args[2:])
	default:
		logger.Error("unknown mode", zap.String("mode", os.Args[1]))
		code = 1
	}
	os.Exit(code)
}

// runPenaltyMode solves alternative routes for the supplied s,t pairs and
// writes per-case timing and quality records as JSON.
func runPenaltyMode(logger *zap.Logger, args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var (
		input        = fs.String("input", "", "path to input graph folder")
		output       = fs.String("output", "./", "path to output folder")
		source       = fs.Uint("source", uint(pkg.INVALID_ID), "source node id")
		target       = fs.Uint("target", uint(pkg.INVALID_ID), "target node id")
		sourceVector = fs.String("source-vector", "", "path to a source vector, overrides source option")
		targetVector = fs.String("target-vector", "", "path to a target vector, overrides target option")
		rankVector   = fs.String("rank-vector", "", "path to optional rank vector")
		sourceLimit  = fs.Uint("source-limit", 0, "limits amount of pairs to process from the vectors")
		quality      = fs.Bool("quality", false, "logs path quality values like uniformly bounded stretch, takes a lot of time")
		alpha        = fs.Float64("alpha", pkg.DEFAULT_REJOIN_ALPHA, "factor for rejoin penalty")
		eps          = fs.Float64("eps", pkg.DEFAULT_STRETCH_EPS, "stretch value in penalty method")
		pen          = fs.Float64("pen", pkg.DEFAULT_PENALTY_FACTOR, "penalty factor")
		logname      = fs.String("logname", "log", "name of the result log file")
	)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *input == "" {
		logger.Error("missing required option --input")
		return 1
	}

	g, err := da.ReadGraph(*input, logger)
	if err != nil {
		logger.Error("loading graph failed", zap.Error(err))
		return 1
	}
	ch, err := da.ReadContractionHierarchy(*input, logger)
	if err != nil {
		logger.Error("loading contraction hierarchy failed", zap.Error(err))
		return 1
	}

	type stPair struct {
		source, target da.Index
		rank           uint32
	}
	workQueue := make([]stPair, 0)
	switch {
	case *sourceVector != "" && *targetVector != "":
		sources, err := da.LoadVector[uint32](*sourceVector)
		if err != nil {
			logger.Error("loading source vector failed", zap.Error(err))
			return 1
		}
		targets, err := da.LoadVector[uint32](*targetVector)
		if err != nil {
			logger.Error("loading target vector failed", zap.Error(err))
			return 1
		}
		if len(sources) != len(targets) {
			logger.Error("source and target vector don't have the same size",
				zap.Int("sources", len(sources)), zap.Int("targets", len(targets)))
			return 1
		}
		ranks := make([]uint32, len(sources))
		if *rankVector != "" {
			ranks, err = da.LoadVector[uint32](*rankVector)
			if err != nil {
				logger.Error("loading rank vector failed", zap.Error(err))
				return 1
			}
			if len(ranks) != len(sources) {
				logger.Error("source and rank vector don't have the same size",
					zap.Int("sources", len(sources)), zap.Int("ranks", len(ranks)))
				return 1
			}
		}
		limit := len(sources)
		if *sourceLimit > 0 && int(*sourceLimit) < limit {
			limit = int(*sourceLimit)
		}
		for i := 0; i < limit; i++ {
			workQueue = append(workQueue, stPair{da.Index(sources[i]), da.Index(targets[i]), ranks[i]})
		}
	case *source != uint(pkg.INVALID_ID) && *target != uint(pkg.INVALID_ID):
		workQueue = append(workQueue, stPair{da.Index(*source), da.Index(*target), 0})
	default:
		logger.Error("need either --source and --target or --source-vector and --target-vector")
		return 1
	}

	recorder := routing.NewQueryRecorder()
	penalty := routing.NewPenaltyEngine(g, ch, logger)
	penalty.SetAlpha(*alpha)
	penalty.SetEps(*eps)
	penalty.SetPenaltyFactor(*pen)
	penalty.SetRecorder(recorder)

	for _, pair := range workQueue {
		logger.Info("running query",
			zap.Uint32("source", uint32(pair.source)),
			zap.Uint32("target", uint32(pair.target)),
			zap.Uint32("rank", pair.rank))
		recorder.BeginTestCase(pair.source, pair.target, pair.rank)

		penalty.SetSource(pair.source)
		penalty.SetTarget(pair.target)
		totalTimer := time.Now()
		penalty.Run()
		recorder.LogTotalTime(time.Since(totalTimer))

		extractionTimer := time.Now()
		xbdv := routing.NewXBDV(penalty.AltGraph(), logger)
		paths := xbdv.RunBDV(pair.source, pair.target, false,
			pkg.DEFAULT_XBDV_ALPHA, pkg.DEFAULT_XBDV_EPS, pkg.DEFAULT_XBDV_GAMMA)
		recorder.LogPathExtractionTime(time.Since(extractionTimer))

		for _, path := range paths {
			if *quality {
				recorder.LogAltPathQuality(routing.EvaluatePathQuality(g, ch, path))
			} else {
				recorder.LogAltPathQuality(routing.PathQualityResult{Length: path.Length})
			}
		}

		penalty.Reset()
		recorder.FinishTestCase()
	}

	resultPath := filepath.Join(*output, *logname+".json")
	if err := recorder.WriteResults(resultPath); err != nil {
		logger.Error("writing results failed", zap.Error(err))
		return 1
	}
	logger.Info("results written", zap.String("path", resultPath))
	return 0
}

// generateVectors produces s,t workload vectors, either uniformly random
// or by dijkstra-rank sampling.
func generateVectors(logger *zap.Logger, args []string) int {
	if len(args) < 1 {
		logger.Error("generate needs a submode: random or rank")
		return 1
	}
	mode := args[0]

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	var (
		input        = fs.String("input", "", "path to input graph folder")
		output       = fs.String("output", "./", "path to output folder")
		source       = fs.Uint("source", uint(pkg.INVALID_ID), "source node id")
		sourceVector = fs.String("source-vector", "", "path to a source vector, overrides source option")
		limit        = fs.Uint("limit", 0, "limits amount of source nodes")
		minRank      = fs.Uint("min-rank", 0, "minimum dijkstra rank to emit")
		seed         = fs.Uint64("seed", uint64(time.Now().UnixNano()), "seed for random mode")
		workers      = fs.Int("workers", 4, "parallel rank computations")
	)
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}
	if *input == "" {
		logger.Error("missing required option --input")
		return 1
	}

	g, err := da.ReadGraph(*input, logger)
	if err != nil {
		logger.Error("loading graph failed", zap.Error(err))
		return 1
	}

	switch mode {
	case "random":
		if *limit == 0 {
			logger.Error("need to specify --limit for random mode")
			return 1
		}
		rng := rand.New(rand.NewSource(*seed))
		sources, targets := routing.RandomSourceTargetVectors(int(*limit), g.Size(), rng)
		if err := da.SaveVector(filepath.Join(*output, "source"), sources); err != nil {
			logger.Error("saving source vector failed", zap.Error(err))
			return 1
		}
		if err := da.SaveVector(filepath.Join(*output, "target"), targets); err != nil {
			logger.Error("saving target vector failed", zap.Error(err))
			return 1
		}
	case "rank":
		sources := make([]da.Index, 0)
		if *source != uint(pkg.INVALID_ID) {
			sources = append(sources, da.Index(*source))
		} else if *sourceVector != "" {
			inputVector, err := da.LoadVector[uint32](*sourceVector)
			if err != nil {
				logger.Error("loading source vector failed", zap.Error(err))
				return 1
			}
			n := len(inputVector)
			if *limit > 0 && int(*limit) < n {
				n = int(*limit)
			}
			for i := 0; i < n; i++ {
				sources = append(sources, da.Index(inputVector[i]))
			}
		} else {
			logger.Error("you need to specify at least one source through --source or --source-vector")
			return 1
		}

		type rankJob struct {
			pos    int
			source da.Index
		}
		type rankResult struct {
			pos    int
			source da.Index
			ranked []da.Index
		}
		pool := concurrent.NewWorkerPool[rankJob, rankResult](*workers, len(sources))
		for i, s := range sources {
			pool.AddJob(rankJob{pos: i, source: s})
		}
		pool.Close()
		pool.Start(func(job rankJob) rankResult {
			logger.Info("calculating dijkstra rank nodes", zap.Uint32("source", uint32(job.source)))
			return rankResult{pos: job.pos, source: job.source, ranked: routing.DijkstraRankNodes(g, job.source)}
		})
		pool.Wait()

		perSource := make([][]da.Index, len(sources))
		for res := range pool.CollectResults() {
			perSource[res.pos] = res.ranked
		}

		s := make([]uint32, 0)
		t := make([]uint32, 0)
		r := make([]uint32, 0)
		for i, ranked := range perSource {
			for j := int(*minRank); j < len(ranked); j++ {
				s = append(s, uint32(sources[i]))
				t = append(t, uint32(ranked[j]))
				r = append(r, uint32(j))
			}
		}
		if err := da.SaveVector(filepath.Join(*output, "source"), s); err != nil {
			logger.Error("saving source vector failed", zap.Error(err))
			return 1
		}
		if err := da.SaveVector(filepath.Join(*output, "target"), t); err != nil {
			logger.Error("saving target vector failed", zap.Error(err))
			return 1
		}
		if err := da.SaveVector(filepath.Join(*output, "rank"), r); err != nil {
			logger.Error("saving rank vector failed", zap.Error(err))
			return 1
		}
	default:
		logger.Error(fmt.Sprintf("unknown generate mode: %s", mode))
		return 1
	}
	return 0
}
