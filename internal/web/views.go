package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evalboard/evalboard/internal/comparison"
	"github.com/evalboard/evalboard/internal/domain"
	"github.com/evalboard/evalboard/internal/ports"
)

// view is the server-side state of one open comparison page: the table
// controller and the filter validator, bound together so an adopted
// filter resets the controller's pagination.
type view struct {
	id          string
	dataset     *domain.Dataset
	experiments []*domain.Experiment
	controller  *comparison.Controller
	validator   *comparison.Validator
	lastSeen    time.Time
}

const viewTTL = 2 * time.Hour

// viewRegistry tracks open comparison views by id. Views idle past the
// TTL are dropped on the next insert.
type viewRegistry struct {
	mu    sync.Mutex
	views map[string]*view
}

func newViewRegistry() *viewRegistry {
	return &viewRegistry{views: make(map[string]*view)}
}

func (reg *viewRegistry) put(v *view) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	now := time.Now()
	for id, old := range reg.views {
		if now.Sub(old.lastSeen) > viewTTL {
			delete(reg.views, id)
		}
	}
	v.lastSeen = now
	reg.views[v.id] = v
}

func (reg *viewRegistry) get(id string) (*view, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	v, ok := reg.views[id]
	if !ok {
		return nil, false
	}
	if time.Since(v.lastSeen) > viewTTL {
		delete(reg.views, id)
		return nil, false
	}
	v.lastSeen = time.Now()
	return v, true
}

// newView wires a controller and validator for one dataset/experiment
// selection. The validator's adoption callback feeds the controller, so
// a successfully validated condition resets pagination exactly once.
func (s *Server) newView(dataset *domain.Dataset, experiments []*domain.Experiment) *view {
	expIDs := make([]string, len(experiments))
	for i, exp := range experiments {
		expIDs[i] = exp.ID
	}

	client := &instrumentedClient{
		inner:   s.queryClient,
		metrics: s.metrics,
	}
	controller := comparison.NewController(client, dataset.ID, expIDs,
		comparison.WithPageSize(s.pageSize),
		comparison.WithScrollThreshold(s.thresholdPx),
	)

	logger := s.logger
	validator := comparison.NewValidator(s.filterValidator, expIDs, func(condition string) {
		if _, err := controller.AdoptFilter(context.Background(), condition); err != nil {
			logger.Warn("refetch after filter adoption failed", zap.Error(err))
		}
	}, comparison.WithDebounce(s.debounce))

	v := &view{
		id:          uuid.NewString(),
		dataset:     dataset,
		experiments: experiments,
		controller:  controller,
		validator:   validator,
	}
	s.views.put(v)
	return v
}

// instrumentedClient decorates the comparison query with fetch metrics.
type instrumentedClient struct {
	inner   comparison.QueryClient
	metrics ports.MetricsExporter
}

func (c *instrumentedClient) FetchComparisonPage(ctx context.Context, req comparison.PageRequest) (*comparison.Page, error) {
	start := time.Now()
	page, err := c.inner.FetchComparisonPage(ctx, req)
	rows := 0
	if page != nil {
		rows = len(page.Edges)
	}
	c.metrics.RecordPageFetch(ctx, req.DatasetID, rows, time.Since(start), err != nil)
	return page, err
}
