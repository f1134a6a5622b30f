// Package comparison implements the experiment comparison table: an
// incrementally loaded, filterable view whose rows are dataset examples
// and whose columns are experiments.
package comparison

import (
	"context"

	"github.com/evalboard/evalboard/internal/domain"
)

// PageRequest asks for one page of comparison edges.
type PageRequest struct {
	DatasetID     string
	ExperimentIDs []string
	Predicate     string // adopted filter condition, empty for none
	After         string // opaque cursor, empty for the first page
	PageSize      int
}

// PageInfo carries pagination bookkeeping for a fetched page.
type PageInfo struct {
	EndCursor   string
	HasNextPage bool
}

// Edge is one example with its per-experiment run groups, plus the
// cursor marking its position. An edge is only emitted once all of its
// data has arrived; partial edges are never produced.
type Edge struct {
	Cursor  string
	Example domain.DatasetExample
	Groups  []RunGroupNode
}

// RunGroupNode is the raw (pre-aggregation) run set for one experiment
// on one example.
type RunGroupNode struct {
	ExperimentID string
	Runs         []domain.Run
}

// Page is one fetched page of comparison edges.
type Page struct {
	Edges    []Edge
	PageInfo PageInfo
}

// QueryClient is the paginated comparison query contract.
type QueryClient interface {
	FetchComparisonPage(ctx context.Context, req PageRequest) (*Page, error)
}

// ValidationResult is the outcome of validating a filter condition.
// IsValid=false is a semantic rejection of the user's input; transport
// failures are reported through the error return of ValidateFilter.
type ValidationResult struct {
	IsValid      bool
	ErrorMessage string
}

// FilterValidator is the predicate validation contract.
type FilterValidator interface {
	ValidateFilter(ctx context.Context, condition string, experimentIDs []string) (ValidationResult, error)
}
