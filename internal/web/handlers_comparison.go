package web

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/evalboard/evalboard/internal/comparison"
	"github.com/evalboard/evalboard/internal/shared/middleware"
	"github.com/evalboard/evalboard/internal/web/components"
)

// handleViewRows serves the next page of rows when the sentinel row
// scrolls into view. Only the newly loaded rows are rendered; htmx
// swaps them in place of the sentinel.
func (s *Server) handleViewRows(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views.get(r.PathValue("view"))
	if !ok {
		s.expiredView(w, r)
		return
	}

	start := v.controller.RowCount()
	if err := v.controller.HandleScroll(r.Context(), 0); err != nil {
		// Loaded rows stay as they are; re-rendering the sentinel lets
		// the next reveal retry the fetch.
		s.logger.Warn("page fetch failed", zap.String("view", v.id), zap.Error(err))
	}
	s.render(w, r, components.RowsFragment(s.rowsData(v, start)))
}

// handleViewTable re-renders the whole table body. The compare page
// listens for the filter-adopted event and reloads through here.
func (s *Server) handleViewTable(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views.get(r.PathValue("view"))
	if !ok {
		s.expiredView(w, r)
		return
	}
	s.render(w, r, components.RowsFragment(s.rowsData(v, 0)))
}

// handleViewFilter validates the typed condition. htmx already
// debounces keystrokes client-side, so each request validates
// immediately; the generation counter still discards a response that a
// newer keystroke has superseded.
func (s *Server) handleViewFilter(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views.get(r.PathValue("view"))
	if !ok {
		s.expiredView(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	condition := r.FormValue("condition")
	v.controller.ApplyFilter(condition)
	snap := v.validator.Submit(r.Context(), condition)

	switch snap.State {
	case comparison.StateValid, comparison.StateInvalid, comparison.StateErrored:
		s.metrics.RecordValidation(r.Context(), snap.State.String())
	}
	if snap.State == comparison.StateValid {
		// Tells the table body to reload with the adopted filter.
		middleware.Trigger(w, "filter-adopted")
	}

	s.render(w, r, components.FilterStatus(components.FilterStatusData{
		State:   snap.State.String(),
		Message: snap.ErrorMessage,
	}))
}

// handleViewExample renders the detail panel for one loaded row.
// Selecting the last loaded row prefetches the next page so the "next"
// navigation does not dead-end at a page boundary.
func (s *Server) handleViewExample(w http.ResponseWriter, r *http.Request) {
	v, ok := s.views.get(r.PathValue("view"))
	if !ok {
		s.expiredView(w, r)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	row, err := v.controller.SelectExample(r.Context(), index)
	if err != nil {
		http.Error(w, "Example not loaded", http.StatusNotFound)
		return
	}

	data := components.DetailData{
		ViewID:          v.id,
		Index:           index,
		Loaded:          v.controller.RowCount(),
		HasNext:         index+1 < v.controller.RowCount() || v.controller.HasNextPage(),
		ExampleID:       row.ID,
		Input:           row.Input,
		ReferenceOutput: row.ReferenceOutput,
	}
	for _, exp := range v.experiments {
		detail := components.DetailExperiment{Name: exp.Name}
		group, _ := row.GroupFor(exp.ID)
		reps := exp.Repetitions
		for _, run := range group.Runs {
			if run.RepetitionNumber > reps {
				reps = run.RepetitionNumber
			}
		}
		for rep := 1; rep <= reps; rep++ {
			run, found := group.RunByRepetition(rep)
			if !found {
				detail.Runs = append(detail.Runs, components.RunItem{Repetition: rep, NotRun: true})
				continue
			}
			detail.Runs = append(detail.Runs, s.runItem(run))
		}
		data.Experiments = append(data.Experiments, detail)
	}

	s.render(w, r, components.DetailPanel(data))
}

// expiredView answers requests against a dropped view. For htmx
// requests HX-Refresh reloads the page, which creates a fresh view.
func (s *Server) expiredView(w http.ResponseWriter, r *http.Request) {
	if middleware.IsHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
	}
	http.Error(w, "View expired", http.StatusNotFound)
}
