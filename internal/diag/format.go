package diag

import (
	"cmp"
	"fmt"
	"strings"

	"hilo/internal/source"
)

// Format renders diagnostics one per line as
// "<severity> <code> <location> <message>", followed by indented notes.
func Format(diags []Diagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", severityLabel(d.Severity), d.Code.ID(), d.Primary, sanitizeMessage(d.Message))
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\n  note %s %s", n.Span, sanitizeMessage(n.Msg))
		}
	}
	return b.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

func comparePos(a, b source.Pos) int {
	return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Col, b.Col))
}
