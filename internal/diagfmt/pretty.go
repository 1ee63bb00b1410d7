package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"hilo/internal/diag"
	"hilo/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	codeColor    = color.New(color.Faint)
	noteColor    = color.New(color.FgBlue)
)

// Pretty writes diagnostics for people, one per line:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  note: <path>:<line>:<col>: <Message>
//
// Synthesized locations print the bare path.
func Pretty(w io.Writer, diags []diag.Diagnostic, opts PrettyOpts) error {
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	path := formatPath(opts.Path, opts.BaseDir, opts.PathMode)
	for i, d := range diags {
		if opts.Max > 0 && i == opts.Max {
			_, err := fmt.Fprintf(w, "... %d more diagnostic(s) omitted\n", len(diags)-i)
			return err
		}
		_, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			prettyLocation(path, d.Primary),
			paint(severityColor(d.Severity), d.Severity.String()),
			paint(codeColor, d.Code.ID()),
			d.Message)
		if err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s: %s\n", paint(noteColor, "note:"), prettyLocation(path, n.Span), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func prettyLocation(path string, sp source.Span) string {
	if !sp.IsKnown() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, sp.Start.Line, sp.Start.Col)
}
