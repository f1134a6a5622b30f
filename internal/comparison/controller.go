package comparison

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/evalboard/evalboard/internal/domain"
)

const (
	// DefaultPageSize is how many edges one fetch requests.
	DefaultPageSize = 50
	// DefaultScrollThresholdPx is how close to the bottom of the scroll
	// container the view must be before the next page is requested.
	DefaultScrollThresholdPx = 300
)

// Controller owns the state of one comparison table view: the loaded
// rows, the pagination cursor, the active filter, and the in-flight
// fetch guard. Methods are safe for concurrent use; at most one page
// fetch is in flight at a time.
type Controller struct {
	client QueryClient

	datasetID     string
	experimentIDs []string
	pageSize      int
	thresholdPx   int

	mu              sync.Mutex
	gen             uint64 // bumped on every pagination reset
	rows            []domain.ComparisonRow
	endCursor       string
	hasNext         bool
	fetching        bool
	activeFilter    string
	tentativeFilter string
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize overrides the fetch page size.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithScrollThreshold overrides the near-bottom threshold in pixels.
func WithScrollThreshold(px int) Option {
	return func(c *Controller) {
		if px > 0 {
			c.thresholdPx = px
		}
	}
}

// NewController creates a controller for one dataset and a fixed set of
// compared experiments. No data is fetched until LoadMore (or one of
// the paths that delegates to it) is called.
func NewController(client QueryClient, datasetID string, experimentIDs []string, opts ...Option) *Controller {
	c := &Controller{
		client:        client,
		datasetID:     datasetID,
		experimentIDs: append([]string(nil), experimentIDs...),
		pageSize:      DefaultPageSize,
		thresholdPx:   DefaultScrollThresholdPx,
		hasNext:       true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplyFilter records the tentative filter text as the user types.
// The fetched page set is not affected until the text is validated and
// adopted via AdoptFilter.
func (c *Controller) ApplyFilter(candidate string) {
	c.mu.Lock()
	c.tentativeFilter = candidate
	c.mu.Unlock()
}

// AdoptFilter promotes a validated condition to the active predicate.
// If the trimmed condition equals the currently active one this is a
// no-op: already-loaded rows are kept and nothing is refetched.
// Otherwise pagination resets to the first page and a fetch with the
// new predicate is issued. Returns whether the predicate changed.
func (c *Controller) AdoptFilter(ctx context.Context, condition string) (bool, error) {
	normalized := strings.TrimSpace(condition)

	c.mu.Lock()
	if normalized == c.activeFilter {
		c.tentativeFilter = condition
		c.mu.Unlock()
		return false, nil
	}
	c.gen++
	c.rows = nil
	c.endCursor = ""
	c.hasNext = true
	c.fetching = false
	c.activeFilter = normalized
	c.tentativeFilter = condition
	c.mu.Unlock()

	return true, c.LoadMore(ctx)
}

// HandleScroll reacts to a scroll event. When the remaining distance to
// the bottom is within the threshold, the next page is known to exist,
// and no fetch is in flight, exactly one fetch is issued.
func (c *Controller) HandleScroll(ctx context.Context, remainingPx int) error {
	if remainingPx > c.thresholdPx {
		return nil
	}
	return c.LoadMore(ctx)
}

// SelectExample returns the row at index for the detail view. Selecting
// the last loaded row while more pages exist triggers the same fetch
// path as scroll-near-end so next/previous navigation does not stall at
// a page boundary; a failed prefetch leaves the selection intact and is
// retried on the next event.
func (c *Controller) SelectExample(ctx context.Context, index int) (domain.ComparisonRow, error) {
	c.mu.Lock()
	if index < 0 || index >= len(c.rows) {
		n := len(c.rows)
		c.mu.Unlock()
		return domain.ComparisonRow{}, fmt.Errorf("row index %d out of range (have %d rows)", index, n)
	}
	row := c.rows[index]
	atEnd := index == len(c.rows)-1 && c.hasNext
	c.mu.Unlock()

	if atEnd {
		// Best effort: the in-flight guard is cleared on failure so a
		// later scroll or selection retries.
		_ = c.LoadMore(ctx)
	}
	return row, nil
}

// LoadMore fetches the next page and appends its rows, preserving the
// order of rows already present. It is a no-op when a fetch is already
// in flight or the server reported no further pages. A fetch error
// leaves previously loaded rows untouched and clears the in-flight
// guard.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.fetching || !c.hasNext {
		c.mu.Unlock()
		return nil
	}
	c.fetching = true
	gen := c.gen
	req := PageRequest{
		DatasetID:     c.datasetID,
		ExperimentIDs: c.experimentIDs,
		Predicate:     c.activeFilter,
		After:         c.endCursor,
		PageSize:      c.pageSize,
	}
	c.mu.Unlock()

	page, err := c.client.FetchComparisonPage(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Pagination was reset while this fetch was in flight; the
		// response belongs to a superseded page set.
		return nil
	}
	c.fetching = false
	if err != nil {
		return fmt.Errorf("fetch comparison page: %w", err)
	}
	c.rows = append(c.rows, DeriveRows(page.Edges)...)
	c.endCursor = page.PageInfo.EndCursor
	c.hasNext = page.PageInfo.HasNextPage
	return nil
}

// Rows returns a snapshot of the loaded rows in server order.
func (c *Controller) Rows() []domain.ComparisonRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ComparisonRow, len(c.rows))
	copy(out, c.rows)
	return out
}

// RowCount returns the number of loaded rows.
func (c *Controller) RowCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// HasNextPage reports whether the server indicated more pages.
func (c *Controller) HasNextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasNext
}

// ActiveFilter returns the adopted predicate, empty for none.
func (c *Controller) ActiveFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeFilter
}

// TentativeFilter returns the filter text as last typed, which may not
// have been validated yet.
func (c *Controller) TentativeFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tentativeFilter
}

// ExperimentIDs returns the compared experiment ids in column order.
func (c *Controller) ExperimentIDs() []string {
	return append([]string(nil), c.experimentIDs...)
}

// DatasetID returns the dataset backing this view.
func (c *Controller) DatasetID() string {
	return c.datasetID
}

// EndCursor returns the cursor after the last loaded row.
func (c *Controller) EndCursor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endCursor
}
