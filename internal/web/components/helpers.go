// Package components renders the comparison UI as templ components.
// The components are written directly against the templ runtime so the
// markup lives next to the view logic it serves.
package components

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// raw writes trusted markup.
func raw(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// text writes user data, HTML-escaped.
func text(w io.Writer, s string) error {
	_, err := io.WriteString(w, templ.EscapeString(s))
	return err
}

// rawf writes trusted markup with formatting. Arguments must already be
// escaped or attribute-safe.
func rawf(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// attr escapes a value for interpolation into a quoted attribute.
func attr(s string) string {
	return templ.EscapeString(s)
}
