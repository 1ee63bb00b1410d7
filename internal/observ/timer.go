// Package observ measures the phases of a lowering run.
package observ

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Timer records sequential phases. A nil Timer records nothing.
type Timer struct {
	now    func() time.Time
	phases []phase
}

type phase struct {
	name   string
	note   string
	start  time.Time
	dur    time.Duration
	closed bool
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Start opens a phase and returns the function that closes it with a note.
// Only the first close counts.
func (t *Timer) Start(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	i := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: t.now()})
	return func(note string) {
		p := &t.phases[i]
		if p.closed {
			return
		}
		p.closed, p.note = true, note
		p.dur = t.now().Sub(p.start)
	}
}

// Track runs fn as one phase noted with fn's error text.
func (t *Timer) Track(name string, fn func() error) error {
	stop := t.Start(name)
	err := fn()
	if err != nil {
		stop(err.Error())
	} else {
		stop("")
	}
	return err
}

// PhaseReport is one phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func millis(d time.Duration) float64 { return d.Seconds() * 1000 }

// Report sums the phases. Phases still open count as zero.
func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	var total time.Duration
	for _, p := range t.phases {
		total += p.dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the report as an aligned table. Columns are padded by
// display width so wide phase names line up.
func (t *Timer) Summary() string {
	r := t.Report()
	rows := append(r.Phases, PhaseReport{Name: "total", DurationMS: r.TotalMS})
	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row.Name))
	}
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, row := range rows {
		line := fmt.Sprintf("  %s %7.2f ms", runewidth.FillRight(row.Name, width), row.DurationMS)
		if row.Note != "" {
			line += "  // " + row.Note
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
