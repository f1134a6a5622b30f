package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ComparePage renders the full experiment comparison view: the filter
// input, the column headers, the initially loaded rows, and the detail
// panel target.
func ComparePage(data CompareData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := rawf(w, `<h1>%s</h1>`, attr(data.DatasetName)); err != nil {
			return err
		}

		// Filter input. htmx coalesces keystrokes client-side; the
		// server applies last-write-wins on top of that.
		if err := rawf(w, `<div class="filter-bar">
<input type="text" name="condition" id="filter-input" class="filter-input"
 value="%s" placeholder="filter, e.g. error is not None" autocomplete="off"
 list="filter-suggestions"
 hx-post="/api/views/%s/filter" hx-trigger="input changed delay:300ms"
 hx-target="#filter-status" hx-swap="innerHTML">
<datalist id="filter-suggestions">`, attr(data.FilterText), attr(data.ViewID)); err != nil {
			return err
		}
		for _, s := range data.Suggestions {
			if err := rawf(w, `<option value="%s"></option>`, attr(s)); err != nil {
				return err
			}
		}
		if err := raw(w, `</datalist>
<div id="filter-status">`); err != nil {
			return err
		}
		if err := FilterStatus(data.Status).Render(ctx, w); err != nil {
			return err
		}
		if err := raw(w, `</div></div>`); err != nil {
			return err
		}

		// Comparison table. The body reloads itself when a new filter
		// is adopted.
		if err := raw(w, `<table class="comparison"><thead><tr><th>Example</th><th>Reference</th>`); err != nil {
			return err
		}
		for _, col := range data.Columns {
			if err := rawf(w, `<th>%s <span class="muted">&times;%d</span></th>`, attr(col.Name), col.Repetitions); err != nil {
				return err
			}
		}
		if err := rawf(w, `</tr></thead>
<tbody id="comparison-rows" hx-get="/api/views/%s/table" hx-trigger="filter-adopted from:body" hx-swap="innerHTML">`, attr(data.ViewID)); err != nil {
			return err
		}
		if err := RowsFragment(data.Rows).Render(ctx, w); err != nil {
			return err
		}
		if err := raw(w, `</tbody></table>`); err != nil {
			return err
		}

		return raw(w, `<div id="detail-panel"></div>`)
	})
}

// FilterStatus renders the validation state of the filter input.
func FilterStatus(s FilterStatusData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		switch s.State {
		case "pending":
			return raw(w, `<span class="filter-pending">validating&hellip;</span>`)
		case "valid":
			return raw(w, `<span class="filter-ok">filter applied</span>`)
		case "invalid":
			if err := raw(w, `<span class="filter-error">`); err != nil {
				return err
			}
			if err := text(w, s.Message); err != nil {
				return err
			}
			return raw(w, `</span>`)
		case "errored":
			if err := raw(w, `<span class="filter-warn">`); err != nil {
				return err
			}
			if err := text(w, s.Message); err != nil {
				return err
			}
			return raw(w, `</span>`)
		default:
			return nil
		}
	})
}
