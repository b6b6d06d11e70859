package routing

import (
	"encoding/json"
	"os"
	"time"

	da "github.com/raden-ps/penaltyx/pkg/datastructure"
)

// PathQualityResult collects the published quality criteria of one
// alternative path.
type PathQualityResult struct {
	Length                  uint32  `json:"length"`
	Stretch                 float64 `json:"stretch"`
	Sharing                 float64 `json:"sharing"`
	LocalOptimality         float64 `json:"local_optimality"`
	UniformlyBoundedStretch float64 `json:"uniformly_bounded_stretch"`
}

// IterationRecord captures one penalty-loop iteration. Times are in
// microseconds.
type IterationRecord struct {
	ApplyPenaltiesTime int64  `json:"apply_penalties"`
	AStarTime          int64  `json:"astar_time"`
	AStarSearchSpace   int    `json:"astar_search_space"`
	IsFeasibleTime     int64  `json:"is_feasible"`
	AltPathLength      uint32 `json:"alt_path_length"`
	TotalTime          int64  `json:"total"`
}

// TestCaseRecord captures one s,t query case.
type TestCaseRecord struct {
	Source             da.Index            `json:"source"`
	Target             da.Index            `json:"target"`
	DijkstraRank       uint32              `json:"rank"`
	ShortestLength     uint32              `json:"shortest_length"`
	AltPaths           []PathQualityResult `json:"alt_paths"`
	FirstAStarTime     int64               `json:"first_astar_time"`
	PathExtractionTime int64               `json:"path_extraction_time"`
	TotalTime          int64               `json:"total_time"`
	Iterations         []IterationRecord   `json:"iterations"`
}

// QueryRecorder accumulates per-case timing and quality records and
// renders them as the {"tests":{"cases":[...]}} result document. It is an
// explicit sink threaded through the penalty engine and the selector, not
// process-wide state. A nil *QueryRecorder is valid and drops everything,
// so callers that do not measure pass nil.
type QueryRecorder struct {
	cases            []*TestCaseRecord
	currentCase      *TestCaseRecord
	currentIteration *IterationRecord
}

func NewQueryRecorder() *QueryRecorder {
	return &QueryRecorder{cases: make([]*TestCaseRecord, 0)}
}

func (r *QueryRecorder) BeginTestCase(source, target da.Index, rank uint32) {
	if r == nil {
		return
	}
	r.currentCase = &TestCaseRecord{
		Source:       source,
		Target:       target,
		DijkstraRank: rank,
		AltPaths:     make([]PathQualityResult, 0),
		Iterations:   make([]IterationRecord, 0),
	}
	r.cases = append(r.cases, r.currentCase)
}

func (r *QueryRecorder) FinishTestCase() {
	if r == nil {
		return
	}
	r.currentCase = nil
	r.currentIteration = nil
}

func (r *QueryRecorder) BeginIteration() {
	if r == nil || r.currentCase == nil {
		return
	}
	r.currentCase.Iterations = append(r.currentCase.Iterations, IterationRecord{})
	r.currentIteration = &r.currentCase.Iterations[len(r.currentCase.Iterations)-1]
}

func (r *QueryRecorder) EndIteration() {
	if r == nil {
		return
	}
	r.currentIteration = nil
}

func (r *QueryRecorder) LogShortestPathLength(length uint32) {
	if r == nil || r.currentCase == nil {
		return
	}
	r.currentCase.ShortestLength = length
}

func (r *QueryRecorder) LogFirstAStarTime(d time.Duration) {
	if r == nil || r.currentCase == nil {
		return
	}
	r.currentCase.FirstAStarTime = d.Microseconds()
}

func (r *QueryRecorder) LogPathExtractionTime(d time.Duration) {
	if r == nil || r.currentCase == nil {
		return
	}
	r.currentCase.PathExtractionTime = d.Microseconds()
}

func (r *QueryRecorder) LogTotalTime(d time.Duration) {
	if r == nil || r.currentCase == nil {
		return
	}
	r.currentCase.TotalTime = d.Microseconds()
}

func (r *QueryRecorder) LogAltPathQuality(pq PathQualityResult) {
	if r == nil || r.currentCase == nil {
		return
	}
	r.currentCase.AltPaths = append(r.currentCase.AltPaths, pq)
}

func (r *QueryRecorder) LogIterationApplyPenaltiesTime(d time.Duration) {
	if r == nil || r.currentIteration == nil {
		return
	}
	r.currentIteration.ApplyPenaltiesTime = d.Microseconds()
}

func (r *QueryRecorder) LogIterationAStarTime(d time.Duration) {
	if r == nil || r.currentIteration == nil {
		return
	}
	r.currentIteration.AStarTime = d.Microseconds()
}

func (r *QueryRecorder) LogIterationSearchSpace(searchSpace int) {
	if r == nil || r.currentIteration == nil {
		return
	}
	r.currentIteration.AStarSearchSpace = searchSpace
}

func (r *QueryRecorder) LogIterationIsFeasibleTime(d time.Duration) {
	if r == nil || r.currentIteration == nil {
		return
	}
	r.currentIteration.IsFeasibleTime = d.Microseconds()
}

func (r *QueryRecorder) LogIterationAltPathLength(length uint32) {
	if r == nil || r.currentIteration == nil {
		return
	}
	r.currentIteration.AltPathLength = length
}

func (r *QueryRecorder) LogIterationTotalTime(d time.Duration) {
	if r == nil || r.currentIteration == nil {
		return
	}
	r.currentIteration.TotalTime = d.Microseconds()
}

type resultsDocument struct {
	Tests struct {
		Cases []*TestCaseRecord `json:"cases"`
	} `json:"tests"`
}

func (r *QueryRecorder) MarshalResults() ([]byte, error) {
	var doc resultsDocument
	doc.Tests.Cases = r.cases
	return json.MarshalIndent(doc, "", "  ")
}

func (r *QueryRecorder) WriteResults(path string) error {
	data, err := r.MarshalResults()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
