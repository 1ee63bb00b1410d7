package diag

import "hilo/internal/source"

// Reporter receives diagnostics from a phase.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder collects notes for one diagnostic and hands it to a
// Reporter on Emit. A nil builder is inert.
type ReportBuilder struct {
	to      Reporter
	d       Diagnostic
	emitted bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

// Emit reports the diagnostic. Later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.to != nil {
		b.to.Report(b.d)
	}
}

// BagReporter stores into Bag, subject to the bag's limit.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

type dedupKey struct {
	code    Code
	sev     Severity
	primary source.Span
	msg     string
}

// DedupReporter forwards each distinct (code, severity, span, message)
// once. Notes do not take part in the comparison.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := dedupKey{d.Code, d.Severity, d.Primary, d.Message}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
