package comparison

import (
	"time"

	"github.com/evalboard/evalboard/internal/domain"
)

// DeriveRows folds a page of edges into render-ready comparison rows.
// It is a pure transform: no hidden state, no side effects, and the
// same input always yields the same output. Row order follows edge
// order, and applying it page by page is equivalent to applying it to
// the concatenation of pages.
func DeriveRows(edges []Edge) []domain.ComparisonRow {
	rows := make([]domain.ComparisonRow, 0, len(edges))
	for _, edge := range edges {
		if edge.Example.ID == "" {
			// Incomplete edge, never surfaced as a row.
			continue
		}
		row := domain.ComparisonRow{
			ID:               edge.Example.ID,
			Input:            edge.Example.Input,
			ReferenceOutput:  edge.Example.ReferenceOutput,
			RunsByExperiment: make(map[string]domain.RunGroup, len(edge.Groups)),
		}
		for _, g := range edge.Groups {
			if len(g.Runs) == 0 {
				continue
			}
			row.RunsByExperiment[g.ExperimentID] = aggregateGroup(g)
		}
		rows = append(rows, row)
	}
	return rows
}

func aggregateGroup(node RunGroupNode) domain.RunGroup {
	group := domain.RunGroup{
		ExperimentID: node.ExperimentID,
		Runs:         make([]domain.Run, len(node.Runs)),
	}
	copy(group.Runs, node.Runs)

	var totalLatency time.Duration
	for _, r := range group.Runs {
		totalLatency += r.EndedAt.Sub(r.StartedAt)
		group.TokensTotal += r.TokensTotal
		group.CostUSD += r.CostUSD
	}
	if n := len(group.Runs); n > 0 {
		group.AvgLatencyMS = float64(totalLatency) / float64(time.Millisecond) / float64(n)
	}
	return group
}
