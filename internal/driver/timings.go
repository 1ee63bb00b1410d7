package driver

import (
	"encoding/json"
	"fmt"

	"hilo/internal/diag"
	"hilo/internal/observ"
	"hilo/internal/source"
)

// timingDiagnostic wraps the phase report of one file in an info
// diagnostic. The note carries the report as JSON for tools reading
// --diag-format json.
func timingDiagnostic(path string, report observ.Report) diag.Diagnostic {
	d := diag.New(diag.SevInfo, diag.IOInfo, source.Unknown,
		fmt.Sprintf("timings (lower): total %.2f ms, %s", report.TotalMS, path))
	payload := struct {
		Kind string `json:"kind"`
		Path string `json:"path"`
		observ.Report
	}{"lower", path, report}
	if data, err := json.Marshal(payload); err == nil {
		d = d.WithNote(source.Unknown, string(data))
	}
	return d
}
