package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/evalboard/evalboard/internal/domain"
	"github.com/evalboard/evalboard/internal/util"
	"github.com/evalboard/evalboard/internal/web/components"
)

func (s *Server) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		s.logger.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// rowsData builds the table fragment view model for the controller's
// rows, starting at the given index.
func (s *Server) rowsData(v *view, start int) components.RowsData {
	rows := v.controller.Rows()
	if start > len(rows) {
		start = len(rows)
	}

	data := components.RowsData{
		ViewID:     v.id,
		StartIndex: start,
		Columns:    len(v.experiments),
		HasNext:    v.controller.HasNextPage(),
	}
	for i, row := range rows[start:] {
		index := start + i
		item := components.RowItem{
			Index:           index,
			ExampleID:       row.ID,
			Input:           row.Input,
			ReferenceOutput: row.ReferenceOutput,
			DetailURL:       fmt.Sprintf("/api/views/%s/examples/%d", v.id, index),
		}
		for _, exp := range v.experiments {
			item.Cells = append(item.Cells, s.cellItem(row, exp.ID))
		}
		data.Rows = append(data.Rows, item)
	}
	return data
}

func (s *Server) cellItem(row domain.ComparisonRow, experimentID string) components.CellItem {
	group, ok := row.GroupFor(experimentID)
	if !ok || len(group.Runs) == 0 {
		return components.CellItem{Empty: true}
	}
	cell := components.CellItem{
		AvgLatency: util.FormatLatency(group.AvgLatencyMS),
		Tokens:     util.FormatTokens(group.TokensTotal),
		Cost:       util.FormatCost(group.CostUSD),
	}
	for _, run := range group.Runs {
		cell.Runs = append(cell.Runs, s.runItem(run))
	}
	return cell
}

func (s *Server) runItem(run domain.Run) components.RunItem {
	item := components.RunItem{
		Repetition: run.RepetitionNumber,
		Latency:    util.FormatLatency(run.LatencyMS()),
		TraceURL:   s.traceURL(run.TraceID),
	}
	if run.Failed() {
		item.HasError = true
		item.Error = *run.Error
	} else if run.Output != nil {
		item.Output = *run.Output
	}
	for _, ann := range run.Annotations {
		item.Annotations = append(item.Annotations, s.annotationItem(ann))
	}
	return item
}

func (s *Server) annotationItem(ann domain.Annotation) components.AnnotationItem {
	item := components.AnnotationItem{
		Name:     ann.Name,
		Kind:     string(ann.AnnotatorKind),
		TraceURL: s.traceURL(ann.TraceID),
	}
	if ann.Score != nil {
		item.Score = fmt.Sprintf("%.2f", *ann.Score)
	}
	if ann.Label != nil {
		item.Label = *ann.Label
	}
	return item
}

// traceURL links a trace id to the configured tracing UI. Empty when no
// base URL is configured or the run carries no trace.
func (s *Server) traceURL(traceID *string) string {
	if s.traceBaseURL == "" || traceID == nil || *traceID == "" {
		return ""
	}
	return strings.TrimSuffix(s.traceBaseURL, "/") + "/traces/" + *traceID
}
