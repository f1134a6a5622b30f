package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/evalboard/evalboard/internal/domain"
)

// mockQueryClient is a func-field mock of QueryClient.
type mockQueryClient struct {
	FetchComparisonPageFunc func(ctx context.Context, req PageRequest) (*Page, error)
}

func (m *mockQueryClient) FetchComparisonPage(ctx context.Context, req PageRequest) (*Page, error) {
	if m.FetchComparisonPageFunc != nil {
		return m.FetchComparisonPageFunc(ctx, req)
	}
	return &Page{}, nil
}

// mockFilterValidator is a func-field mock of FilterValidator.
type mockFilterValidator struct {
	ValidateFilterFunc func(ctx context.Context, condition string, experimentIDs []string) (ValidationResult, error)
}

func (m *mockFilterValidator) ValidateFilter(ctx context.Context, condition string, experimentIDs []string) (ValidationResult, error) {
	if m.ValidateFilterFunc != nil {
		return m.ValidateFilterFunc(ctx, condition, experimentIDs)
	}
	return ValidationResult{IsValid: true}, nil
}

func testRun(experimentID, exampleID string, rep int, latency time.Duration) domain.Run {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := fmt.Sprintf("output %s/%s/%d", experimentID, exampleID, rep)
	return domain.Run{
		ID:               fmt.Sprintf("run-%s-%s-%d", experimentID, exampleID, rep),
		ExperimentID:     experimentID,
		ExampleID:        exampleID,
		RepetitionNumber: rep,
		Output:           &out,
		StartedAt:        started,
		EndedAt:          started.Add(latency),
		TokensTotal:      100,
		CostUSD:          0.01,
	}
}

func testEdge(exampleID, cursor string, groups ...RunGroupNode) Edge {
	return Edge{
		Cursor: cursor,
		Example: domain.DatasetExample{
			ID:              exampleID,
			Input:           "input " + exampleID,
			ReferenceOutput: "reference " + exampleID,
		},
		Groups: groups,
	}
}

// pageOf builds a single page whose edges are one example each with one
// run of experiment "exp-1".
func pageOf(hasNext bool, exampleIDs ...string) *Page {
	page := &Page{PageInfo: PageInfo{HasNextPage: hasNext}}
	for _, id := range exampleIDs {
		page.Edges = append(page.Edges, testEdge(id, "cur-"+id, RunGroupNode{
			ExperimentID: "exp-1",
			Runs:         []domain.Run{testRun("exp-1", id, 1, 500*time.Millisecond)},
		}))
	}
	if n := len(page.Edges); n > 0 {
		page.PageInfo.EndCursor = page.Edges[n-1].Cursor
	}
	return page
}

func rowIDs(rows []domain.ComparisonRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
