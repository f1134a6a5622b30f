package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps a page body in the HTML shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := raw(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>"); err != nil {
			return err
		}
		if err := text(w, title); err != nil {
			return err
		}
		if err := raw(w, `</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="stylesheet" href="/static/app.css">
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
</head><body><header class="topbar"><a href="/" class="brand">evalboard</a></header><main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return raw(w, "</main></body></html>")
	})
}

// ErrorBanner renders an inline error message.
func ErrorBanner(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := raw(w, `<div class="error-banner" role="alert">`); err != nil {
			return err
		}
		if err := text(w, msg); err != nil {
			return err
		}
		return raw(w, "</div>")
	})
}

// DatasetIndex lists the datasets with links to their comparison views.
func DatasetIndex(datasets []DatasetItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := raw(w, `<h1>Datasets</h1>`); err != nil {
			return err
		}
		if len(datasets) == 0 {
			return raw(w, `<p class="empty">No datasets yet. Run <code>evalboard seed</code> for a demo dataset.</p>`)
		}
		if err := raw(w, `<ul class="dataset-list">`); err != nil {
			return err
		}
		for _, d := range datasets {
			if err := rawf(w, `<li><a href="%s">%s</a> <span class="muted">%d examples</span>`, attr(d.CompareURL), attr(d.Name), d.Examples); err != nil {
				return err
			}
			if d.Description != "" {
				if err := rawf(w, `<p class="muted">%s</p>`, attr(d.Description)); err != nil {
					return err
				}
			}
			if err := raw(w, "</li>"); err != nil {
				return err
			}
		}
		return raw(w, "</ul>")
	})
}
