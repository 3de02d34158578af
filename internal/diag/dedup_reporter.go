package diag

import "tccl/internal/source"

type reportID struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter forwards each distinct report once. Two reports are the same
// when code, severity, span and message all match; notes are ignored.
type DedupReporter struct {
	next       Reporter
	seen       map[reportID]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[reportID]struct{}{}}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.next == nil {
		return
	}
	id := reportID{code: code, sev: sev, span: primary, msg: msg}
	if _, dup := r.seen[id]; dup {
		r.suppressed++
		return
	}
	r.seen[id] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes)
}

// Suppressed is the number of repeats dropped so far.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
