package web

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evalboard/evalboard/internal/comparison"
	"github.com/evalboard/evalboard/internal/domain"
)

type mockDatasetRepo struct {
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Dataset, error)
	ListFunc          func(ctx context.Context) ([]*domain.Dataset, error)
	CountExamplesFunc func(ctx context.Context, datasetID string) (int64, error)
}

func (m *mockDatasetRepo) GetByID(ctx context.Context, id string) (*domain.Dataset, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.Dataset{ID: id, Name: "demo"}, nil
}

func (m *mockDatasetRepo) List(ctx context.Context) ([]*domain.Dataset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.Dataset{{ID: "ds-1", Name: "demo"}}, nil
}

func (m *mockDatasetRepo) CountExamples(ctx context.Context, datasetID string) (int64, error) {
	if m.CountExamplesFunc != nil {
		return m.CountExamplesFunc(ctx, datasetID)
	}
	return 0, nil
}

type mockExperimentRepo struct {
	ListByDatasetFunc func(ctx context.Context, datasetID string) ([]*domain.Experiment, error)
}

func (m *mockExperimentRepo) ListByDataset(ctx context.Context, datasetID string) ([]*domain.Experiment, error) {
	if m.ListByDatasetFunc != nil {
		return m.ListByDatasetFunc(ctx, datasetID)
	}
	return []*domain.Experiment{
		{ID: "exp-1", DatasetID: datasetID, Name: "baseline", Repetitions: 1},
		{ID: "exp-2", DatasetID: datasetID, Name: "candidate", Repetitions: 2},
	}, nil
}

type mockQueryClient struct {
	FetchComparisonPageFunc func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error)
}

func (m *mockQueryClient) FetchComparisonPage(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
	if m.FetchComparisonPageFunc != nil {
		return m.FetchComparisonPageFunc(ctx, req)
	}
	return &comparison.Page{}, nil
}

type mockFilterValidator struct {
	ValidateFilterFunc func(ctx context.Context, condition string, experimentIDs []string) (comparison.ValidationResult, error)
}

func (m *mockFilterValidator) ValidateFilter(ctx context.Context, condition string, experimentIDs []string) (comparison.ValidationResult, error) {
	if m.ValidateFilterFunc != nil {
		return m.ValidateFilterFunc(ctx, condition, experimentIDs)
	}
	return comparison.ValidationResult{IsValid: true}, nil
}

type mockMetrics struct {
	RecordPageFetchFunc  func(ctx context.Context, datasetID string, rows int, duration time.Duration, failed bool)
	RecordValidationFunc func(ctx context.Context, outcome string)
}

func (m *mockMetrics) RecordPageFetch(ctx context.Context, datasetID string, rows int, duration time.Duration, failed bool) {
	if m.RecordPageFetchFunc != nil {
		m.RecordPageFetchFunc(ctx, datasetID, rows, duration, failed)
	}
}

func (m *mockMetrics) RecordValidation(ctx context.Context, outcome string) {
	if m.RecordValidationFunc != nil {
		m.RecordValidationFunc(ctx, outcome)
	}
}

func (m *mockMetrics) Close(ctx context.Context) error { return nil }

// testServer wires a server around mocks, defaulting any nil mock.
func testServer(datasets *mockDatasetRepo, experiments *mockExperimentRepo, client *mockQueryClient, validator *mockFilterValidator, metrics *mockMetrics) *Server {
	if datasets == nil {
		datasets = &mockDatasetRepo{}
	}
	if experiments == nil {
		experiments = &mockExperimentRepo{}
	}
	if client == nil {
		client = &mockQueryClient{}
	}
	if validator == nil {
		validator = &mockFilterValidator{}
	}
	if metrics == nil {
		metrics = &mockMetrics{}
	}
	cfg := Config{
		Port:              8080,
		PageSize:          2,
		ScrollThresholdPx: 300,
		FilterDebounce:    time.Millisecond,
	}
	return NewServer(cfg, zap.NewNop(), datasets, experiments, client, validator, metrics)
}

// pageFor builds a page of single-run edges for experiment "exp-1".
func pageFor(hasNext bool, exampleIDs ...string) *comparison.Page {
	page := &comparison.Page{PageInfo: comparison.PageInfo{HasNextPage: hasNext}}
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range exampleIDs {
		out := "answer for " + id
		page.Edges = append(page.Edges, comparison.Edge{
			Cursor: "cur-" + id,
			Example: domain.DatasetExample{
				ID:              id,
				Input:           "question " + id,
				ReferenceOutput: "expected " + id,
			},
			Groups: []comparison.RunGroupNode{{
				ExperimentID: "exp-1",
				Runs: []domain.Run{{
					ID:               fmt.Sprintf("run-%s", id),
					ExperimentID:     "exp-1",
					ExampleID:        id,
					RepetitionNumber: 1,
					Output:           &out,
					StartedAt:        started,
					EndedAt:          started.Add(750 * time.Millisecond),
					TokensTotal:      1200,
					CostUSD:          0.02,
				}},
			}},
		})
	}
	if n := len(page.Edges); n > 0 {
		page.PageInfo.EndCursor = page.Edges[n-1].Cursor
	}
	return page
}
