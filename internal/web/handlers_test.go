package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/evalboard/evalboard/internal/comparison"
	"github.com/evalboard/evalboard/internal/domain"
)

func (s *Server) onlyViewID(t *testing.T) string {
	t.Helper()
	s.views.mu.Lock()
	defer s.views.mu.Unlock()
	if len(s.views.views) != 1 {
		t.Fatalf("expected exactly one registered view, got %d", len(s.views.views))
	}
	for id := range s.views.views {
		return id
	}
	return ""
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleDatasets(t *testing.T) {
	s := testServer(nil, nil, nil, nil, nil)

	rec := get(t, s, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "demo") {
		t.Error("expected dataset name in body")
	}
	if !strings.Contains(body, "/datasets/ds-1/compare") {
		t.Error("expected compare link in body")
	}
}

func TestHandleCompare_RendersFirstPage(t *testing.T) {
	client := &mockQueryClient{
		FetchComparisonPageFunc: func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
			if req.After != "" {
				t.Errorf("initial fetch must start without a cursor, got %q", req.After)
			}
			return pageFor(true, "ex-1", "ex-2"), nil
		},
	}
	s := testServer(nil, nil, client, nil, nil)

	rec := get(t, s, "/datasets/ds-1/compare")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"baseline", "candidate", "question ex-1", "answer for ex-2", "load-sentinel", "filter-adopted"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in compare page", want)
		}
	}
}

func TestHandleCompare_UnknownDataset(t *testing.T) {
	datasets := &mockDatasetRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Dataset, error) { return nil, nil },
	}
	s := testServer(datasets, nil, nil, nil, nil)

	if rec := get(t, s, "/datasets/nope/compare"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleCompare_FailedFirstFetchStillRenders(t *testing.T) {
	client := &mockQueryClient{
		FetchComparisonPageFunc: func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
			return nil, errors.New("backend down")
		},
	}
	s := testServer(nil, nil, client, nil, nil)

	rec := get(t, s, "/datasets/ds-1/compare")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite fetch failure, got %d", rec.Code)
	}
	// The sentinel must be present so scrolling retries the fetch.
	if !strings.Contains(rec.Body.String(), "load-sentinel") {
		t.Error("expected retry sentinel in body")
	}
}

func TestHandleViewRows_AppendsNextPage(t *testing.T) {
	client := &mockQueryClient{
		FetchComparisonPageFunc: func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
			if req.After == "" {
				return pageFor(true, "ex-1", "ex-2"), nil
			}
			if req.After != "cur-ex-2" {
				t.Errorf("expected cursor cur-ex-2, got %q", req.After)
			}
			return pageFor(false, "ex-3"), nil
		},
	}
	s := testServer(nil, nil, client, nil, nil)
	get(t, s, "/datasets/ds-1/compare")
	viewID := s.onlyViewID(t)

	rec := get(t, s, "/api/views/"+viewID+"/rows")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "question ex-3") {
		t.Error("expected the newly loaded row in the fragment")
	}
	if strings.Contains(body, "question ex-1") {
		t.Error("fragment must contain only new rows, found an already rendered one")
	}
	if strings.Contains(body, "load-sentinel") {
		t.Error("expected no sentinel once pagination is exhausted")
	}
}

func TestHandleViewRows_FetchErrorKeepsSentinel(t *testing.T) {
	call := 0
	client := &mockQueryClient{
		FetchComparisonPageFunc: func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
			call++
			if call == 1 {
				return pageFor(true, "ex-1"), nil
			}
			return nil, errors.New("backend down")
		},
	}
	s := testServer(nil, nil, client, nil, nil)
	get(t, s, "/datasets/ds-1/compare")
	viewID := s.onlyViewID(t)

	rec := get(t, s, "/api/views/"+viewID+"/rows")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "load-sentinel") {
		t.Error("expected sentinel to be re-rendered for retry after a failed fetch")
	}
}

func TestHandleViewFilter_Valid(t *testing.T) {
	var outcomes []string
	metrics := &mockMetrics{
		RecordValidationFunc: func(ctx context.Context, outcome string) {
			outcomes = append(outcomes, outcome)
		},
	}
	var predicates []string
	client := &mockQueryClient{
		FetchComparisonPageFunc: func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
			predicates = append(predicates, req.Predicate)
			return pageFor(false, "ex-1"), nil
		},
	}
	s := testServer(nil, nil, client, nil, metrics)
	get(t, s, "/datasets/ds-1/compare")
	viewID := s.onlyViewID(t)

	rec := postForm(t, s, "/api/views/"+viewID+"/filter", url.Values{"condition": {"error is not None"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("HX-Trigger"); got != "filter-adopted" {
		t.Errorf("expected filter-adopted trigger, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), "filter applied") {
		t.Error("expected valid status in body")
	}
	if len(outcomes) != 1 || outcomes[0] != "valid" {
		t.Errorf("expected one recorded valid outcome, got %v", outcomes)
	}
	if last := predicates[len(predicates)-1]; last != "error is not None" {
		t.Errorf("expected the adopted predicate on the refetch, got %q", last)
	}
}

func TestHandleViewFilter_Invalid(t *testing.T) {
	validator := &mockFilterValidator{
		ValidateFilterFunc: func(ctx context.Context, condition string, experimentIDs []string) (comparison.ValidationResult, error) {
			return comparison.ValidationResult{IsValid: false, ErrorMessage: `unknown field "latency"`}, nil
		},
	}
	fetches := 0
	client := &mockQueryClient{
		FetchComparisonPageFunc: func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
			fetches++
			return pageFor(false, "ex-1"), nil
		},
	}
	s := testServer(nil, nil, client, validator, nil)
	get(t, s, "/datasets/ds-1/compare")
	viewID := s.onlyViewID(t)
	fetchesBefore := fetches

	rec := postForm(t, s, "/api/views/"+viewID+"/filter", url.Values{"condition": {"latency > 100"}})

	if got := rec.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("a rejected condition must not trigger a reload, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), "unknown field") {
		t.Error("expected the validation message in the body")
	}
	if fetches != fetchesBefore {
		t.Error("a rejected condition must not refetch rows")
	}
}

func TestHandleViewFilter_TransportError(t *testing.T) {
	validator := &mockFilterValidator{
		ValidateFilterFunc: func(ctx context.Context, condition string, experimentIDs []string) (comparison.ValidationResult, error) {
			return comparison.ValidationResult{}, errors.New("connection refused")
		},
	}
	s := testServer(nil, nil, nil, validator, nil)
	get(t, s, "/datasets/ds-1/compare")
	viewID := s.onlyViewID(t)

	rec := postForm(t, s, "/api/views/"+viewID+"/filter", url.Values{"condition": {"error is None"}})

	if got := rec.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("an unreachable validator must not trigger a reload, got %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "could not reach") {
		t.Errorf("expected the generic unavailability message, got %q", body)
	}
	if strings.Contains(body, "connection refused") {
		t.Error("transport details must not leak into the page")
	}
}

func TestHandleViewExample(t *testing.T) {
	client := &mockQueryClient{
		FetchComparisonPageFunc: func(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
			return pageFor(false, "ex-1", "ex-2"), nil
		},
	}
	s := testServer(nil, nil, client, nil, nil)
	get(t, s, "/datasets/ds-1/compare")
	viewID := s.onlyViewID(t)

	rec := get(t, s, "/api/views/"+viewID+"/examples/0")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"question ex-1", "expected ex-1", "answer for ex-1", "baseline"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in detail panel", want)
		}
	}
	// exp-2 ran nothing for this example; its repetitions show as not run.
	if !strings.Contains(body, "not run") {
		t.Error("expected missing repetitions to render as not run")
	}

	if rec := get(t, s, "/api/views/"+viewID+"/examples/9"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unloaded index, got %d", rec.Code)
	}
}

func TestExpiredViewRefreshes(t *testing.T) {
	s := testServer(nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/views/unknown/rows", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Refresh") != "true" {
		t.Error("expected HX-Refresh so an htmx client rebuilds its view")
	}

	// A plain navigation gets the 404 without the refresh header.
	if rec := get(t, s, "/api/views/unknown/rows"); rec.Header().Get("HX-Refresh") != "" {
		t.Error("expected no HX-Refresh for a non-htmx request")
	}
}
