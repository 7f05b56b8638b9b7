package retlint

import (
	"fmt"
	"io"
)

// FormatDiagnostics writes one `file:line:col: CODE message` line per diagnostic.
func FormatDiagnostics(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
