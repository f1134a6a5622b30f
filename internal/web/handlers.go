package web

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/evalboard/evalboard/internal/domain"
	"github.com/evalboard/evalboard/internal/predicate"
	"github.com/evalboard/evalboard/internal/web/components"
)

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	datasets, err := s.datasetRepo.List(ctx)
	if err != nil {
		s.logger.Error("list datasets failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	items := make([]components.DatasetItem, 0, len(datasets))
	for _, ds := range datasets {
		item := components.DatasetItem{
			ID:         ds.ID,
			Name:       ds.Name,
			CompareURL: "/datasets/" + ds.ID + "/compare",
		}
		if ds.Description != nil {
			item.Description = *ds.Description
		}
		if count, err := s.datasetRepo.CountExamples(ctx, ds.ID); err == nil {
			item.Examples = count
		}
		items = append(items, item)
	}

	s.render(w, r, components.Layout("evalboard", components.DatasetIndex(items)))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	datasetID := r.PathValue("id")

	dataset, err := s.datasetRepo.GetByID(ctx, datasetID)
	if err != nil {
		s.logger.Error("get dataset failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if dataset == nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	experiments, err := s.experimentRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		s.logger.Error("list experiments failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	experiments = filterExperiments(experiments, r.URL.Query().Get("experiments"))
	if len(experiments) == 0 {
		s.render(w, r, components.Layout(dataset.Name, components.ErrorBanner("No experiments to compare for this dataset.")))
		return
	}

	v := s.newView(dataset, experiments)

	// First page. A failed fetch still renders the page; the sentinel
	// row retries once it scrolls into view.
	if err := v.controller.LoadMore(ctx); err != nil {
		s.logger.Warn("initial page fetch failed", zap.String("dataset", datasetID), zap.Error(err))
	}

	data := components.CompareData{
		ViewID:      v.id,
		DatasetName: dataset.Name,
		Status:      components.FilterStatusData{State: "idle"},
		Suggestions: suggestionTexts(),
		Columns:     experimentColumns(experiments),
		Rows:        s.rowsData(v, 0),
	}
	s.render(w, r, components.Layout(dataset.Name, components.ComparePage(data)))
}

func filterExperiments(experiments []*domain.Experiment, param string) []*domain.Experiment {
	if strings.TrimSpace(param) == "" {
		return experiments
	}
	wanted := map[string]bool{}
	for _, id := range strings.Split(param, ",") {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = true
		}
	}
	var out []*domain.Experiment
	for _, exp := range experiments {
		if wanted[exp.ID] {
			out = append(out, exp)
		}
	}
	return out
}

func experimentColumns(experiments []*domain.Experiment) []components.ExperimentColumn {
	cols := make([]components.ExperimentColumn, len(experiments))
	for i, exp := range experiments {
		cols[i] = components.ExperimentColumn{
			ID:          exp.ID,
			Name:        exp.Name,
			Repetitions: exp.Repetitions,
		}
	}
	return cols
}

func suggestionTexts() []string {
	suggestions := predicate.Suggest("")
	out := make([]string, len(suggestions))
	for i, sug := range suggestions {
		out[i] = sug.Text
	}
	return out
}
