package diagfmt

import (
	"encoding/json"
	"io"

	"hilo/internal/diag"
	"hilo/internal/source"
)

// LocationJSON is a span inside the file named by DiagnosticsOutput.File.
type LocationJSON struct {
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	EndLine uint32 `json:"end_line,omitempty"`
	EndCol  uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// DiagnosticsOutput is the document written for one input file. Omitted
// counts the diagnostics cut by JSONOpts.Max.
type DiagnosticsOutput struct {
	File        string           `json:"file"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Omitted     int              `json:"omitted,omitempty"`
}

// location is nil for synthesized spans.
func location(sp source.Span) *LocationJSON {
	if !sp.Start.IsValid() {
		return nil
	}
	return &LocationJSON{Line: sp.Start.Line, Col: sp.Start.Col, EndLine: sp.End.Line, EndCol: sp.End.Col}
}

// BuildDiagnosticsOutput converts diags without encoding them. Timing
// diagnostics keep their notes even when IncludeNotes is off since the
// note is their payload.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	shown := diags
	if opts.Max > 0 && len(shown) > opts.Max {
		shown = shown[:opts.Max]
	}
	out := DiagnosticsOutput{
		File:        formatPath(opts.Path, opts.BaseDir, opts.PathMode),
		Diagnostics: make([]DiagnosticJSON, 0, len(shown)),
		Omitted:     len(diags) - len(shown),
	}
	for _, d := range shown {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: location(d.Primary),
		}
		if opts.IncludeNotes || d.Code == diag.IOInfo {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: location(n.Span)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

func JSON(w io.Writer, diags []diag.Diagnostic, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(diags, opts))
}
