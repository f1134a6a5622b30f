package domain

import "time"

// AnnotatorKind identifies what produced an annotation.
type AnnotatorKind string

const (
	AnnotatorKindHuman   AnnotatorKind = "HUMAN"
	AnnotatorKindCode    AnnotatorKind = "CODE"
	AnnotatorKindLLM     AnnotatorKind = "LLM"
	AnnotatorKindUnknown AnnotatorKind = "UNKNOWN"
)

// Annotation is an evaluator judgment attached to a run.
type Annotation struct {
	ID            string
	Name          string
	Score         *float64
	Label         *string
	AnnotatorKind AnnotatorKind
	TraceID       *string
	CreatedAt     time.Time
}

// Run is a single execution attempt of an experiment against one example.
// Output and Error are mutually exclusive: a run either produced output
// or failed with an error.
type Run struct {
	ID               string
	ExperimentID     string
	ExampleID        string
	RepetitionNumber int
	Output           *string
	Error            *string
	StartedAt        time.Time
	EndedAt          time.Time
	TokensTotal      int64
	CostUSD          float64
	TraceID          *string
	ProjectID        *string
	Annotations      []Annotation
}

// LatencyMS returns the run duration in milliseconds.
func (r Run) LatencyMS() float64 {
	return float64(r.EndedAt.Sub(r.StartedAt)) / float64(time.Millisecond)
}

// Failed reports whether the run recorded an execution error.
func (r Run) Failed() bool {
	return r.Error != nil
}

// RunGroup holds all repetitions of one experiment against one example,
// with aggregates computed once the group is assembled.
type RunGroup struct {
	ExperimentID string
	Runs         []Run
	AvgLatencyMS float64
	TokensTotal  int64
	CostUSD      float64
}

// RunByRepetition looks up a run by its repetition number. Runs are
// addressed by repetition number, not slice position, so a missing
// repetition does not shift the ones after it.
func (g RunGroup) RunByRepetition(n int) (Run, bool) {
	for _, r := range g.Runs {
		if r.RepetitionNumber == n {
			return r, true
		}
	}
	return Run{}, false
}

// ComparisonRow joins one dataset example against the run groups of all
// compared experiments. Row identity is the example id. An experiment
// with no runs for this example is simply absent from RunsByExperiment.
type ComparisonRow struct {
	ID               string
	Input            string
	ReferenceOutput  string
	RunsByExperiment map[string]RunGroup
}

// GroupFor returns the run group for an experiment, if any.
func (r ComparisonRow) GroupFor(experimentID string) (RunGroup, bool) {
	g, ok := r.RunsByExperiment[experimentID]
	return g, ok
}
