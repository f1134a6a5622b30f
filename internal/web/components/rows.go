package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// RowsFragment renders table rows plus, when more pages exist, a
// sentinel row that fetches the next page once scrolled into view.
func RowsFragment(data RowsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, row := range data.Rows {
			if err := renderRow(ctx, w, row); err != nil {
				return err
			}
		}
		if data.HasNext {
			// Replaced in place by the next fragment when revealed.
			if err := rawf(w, `<tr class="load-sentinel"><td colspan="%d"><span hx-get="/api/views/%s/rows" hx-trigger="revealed" hx-target="closest tr" hx-swap="outerHTML">Loading more&hellip;</span></td></tr>`,
				data.Columns+2, attr(data.ViewID)); err != nil {
				return err
			}
		} else if len(data.Rows) == 0 && data.StartIndex == 0 {
			if err := rawf(w, `<tr><td colspan="%d" class="empty">No examples match the current filter.</td></tr>`, data.Columns+2); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderRow(ctx context.Context, w io.Writer, row RowItem) error {
	if err := raw(w, `<tr>`); err != nil {
		return err
	}
	if err := rawf(w, `<td class="example-cell"><a href="#" hx-get="%s" hx-target="#detail-panel" hx-swap="innerHTML">%s</a></td>`,
		attr(row.DetailURL), attr(truncate(row.Input, 120))); err != nil {
		return err
	}
	if err := rawf(w, `<td class="reference-cell">%s</td>`, attr(truncate(row.ReferenceOutput, 120))); err != nil {
		return err
	}
	for _, cell := range row.Cells {
		if err := renderCell(w, cell); err != nil {
			return err
		}
	}
	return raw(w, `</tr>`)
}

func renderCell(w io.Writer, cell CellItem) error {
	if cell.Empty {
		return raw(w, `<td class="run-cell not-run">not run</td>`)
	}
	if err := raw(w, `<td class="run-cell">`); err != nil {
		return err
	}
	for _, run := range cell.Runs {
		if err := renderRunSummary(w, run); err != nil {
			return err
		}
	}
	if err := rawf(w, `<div class="cell-aggregates muted">avg %s &middot; %s tok &middot; %s</div>`,
		attr(cell.AvgLatency), attr(cell.Tokens), attr(cell.Cost)); err != nil {
		return err
	}
	return raw(w, `</td>`)
}

func renderRunSummary(w io.Writer, run RunItem) error {
	if run.NotRun {
		return rawf(w, `<div class="run not-run muted">rep %d: not run</div>`, run.Repetition)
	}
	// An errored run shows the error in place of output, never both.
	if run.HasError {
		return rawf(w, `<div class="run run-error">rep %d: %s</div>`, run.Repetition, attr(run.Error))
	}
	return rawf(w, `<div class="run">rep %d: %s</div>`, run.Repetition, attr(truncate(run.Output, 90)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
