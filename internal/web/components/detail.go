package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// DetailPanel renders one selected example with every run of every
// compared experiment, plus previous/next navigation.
func DetailPanel(data DetailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := rawf(w, `<div class="detail"><div class="detail-nav">`); err != nil {
			return err
		}
		if data.Index > 0 {
			if err := rawf(w, `<button hx-get="/api/views/%s/examples/%d" hx-target="#detail-panel" hx-swap="innerHTML">&larr; previous</button>`,
				attr(data.ViewID), data.Index-1); err != nil {
				return err
			}
		}
		if err := rawf(w, `<span class="muted">example %d of %d loaded</span>`, data.Index+1, data.Loaded); err != nil {
			return err
		}
		if data.HasNext {
			if err := rawf(w, `<button hx-get="/api/views/%s/examples/%d" hx-target="#detail-panel" hx-swap="innerHTML">next &rarr;</button>`,
				attr(data.ViewID), data.Index+1); err != nil {
				return err
			}
		}
		if err := raw(w, `</div>`); err != nil {
			return err
		}

		if err := rawf(w, `<section><h2>Input</h2><pre>%s</pre></section>`, attr(data.Input)); err != nil {
			return err
		}
		if err := rawf(w, `<section><h2>Reference output</h2><pre>%s</pre></section>`, attr(data.ReferenceOutput)); err != nil {
			return err
		}

		for _, exp := range data.Experiments {
			if err := rawf(w, `<section class="detail-experiment"><h2>%s</h2>`, attr(exp.Name)); err != nil {
				return err
			}
			for _, run := range exp.Runs {
				if err := renderRunDetail(w, run); err != nil {
					return err
				}
			}
			if err := raw(w, `</section>`); err != nil {
				return err
			}
		}
		return raw(w, `</div>`)
	})
}

func renderRunDetail(w io.Writer, run RunItem) error {
	if run.NotRun {
		return rawf(w, `<div class="run-detail muted">repetition %d: not run</div>`, run.Repetition)
	}

	header := fmt.Sprintf(`<div class="run-detail"><div class="run-head">repetition %d <span class="muted">%s</span>`, run.Repetition, attr(run.Latency))
	if err := raw(w, header); err != nil {
		return err
	}
	if run.TraceURL != "" {
		if err := rawf(w, ` <a href="%s" class="trace-link">trace</a>`, attr(run.TraceURL)); err != nil {
			return err
		}
	}
	if err := raw(w, `</div>`); err != nil {
		return err
	}

	if run.HasError {
		if err := rawf(w, `<pre class="run-error">%s</pre>`, attr(run.Error)); err != nil {
			return err
		}
	} else {
		if err := rawf(w, `<pre>%s</pre>`, attr(run.Output)); err != nil {
			return err
		}
	}

	if len(run.Annotations) > 0 {
		if err := raw(w, `<ul class="annotations">`); err != nil {
			return err
		}
		for _, ann := range run.Annotations {
			if err := rawf(w, `<li><span class="ann-name">%s</span>`, attr(ann.Name)); err != nil {
				return err
			}
			if ann.Score != "" {
				if err := rawf(w, ` <span class="ann-score">%s</span>`, attr(ann.Score)); err != nil {
					return err
				}
			}
			if ann.Label != "" {
				if err := rawf(w, ` <span class="ann-label">%s</span>`, attr(ann.Label)); err != nil {
					return err
				}
			}
			if err := rawf(w, ` <span class="muted">%s</span>`, attr(ann.Kind)); err != nil {
				return err
			}
			if ann.TraceURL != "" {
				if err := rawf(w, ` <a href="%s" class="trace-link">trace</a>`, attr(ann.TraceURL)); err != nil {
					return err
				}
			}
			if err := raw(w, `</li>`); err != nil {
				return err
			}
		}
		if err := raw(w, `</ul>`); err != nil {
			return err
		}
	}
	return raw(w, `</div>`)
}
