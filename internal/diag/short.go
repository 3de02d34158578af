package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line:
//
//	<pos>: <SEV> <ID>: <message>
//
// Notes follow on indented lines when includeNotes is set. Multi-line
// messages are folded so every diagnostic stays on a single line.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&sb, "%s: %s %s: %s\n", d.Primary, d.Severity, d.Code.ID(), foldLines(d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note %s: %s\n", n.Span, foldLines(n.Msg))
		}
	}
	return sb.String()
}

func foldLines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\r", "")), " ")
}
