package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tccl/internal/diag"
	"tccl/internal/source"
)

type palette struct {
	path, info, warning, err, code, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		code:    color.New(color.Faint),
		note:    color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.path, p.info, p.warning, p.err, p.code, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warning
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, one per line:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  note: <line>:<col>: <Message>
//
// Positions are omitted for spans the front end left empty. Items are printed
// in bag order; call bag.Sort() first for positional order.
func Pretty(w io.Writer, path string, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	shown := formatPath(path, opts.PathMode, opts.BaseDir)
	for _, d := range bag.Items() {
		loc := shown
		if !d.Primary.Empty() {
			loc += ":" + d.Primary.Start.String()
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			clip(d.Message, opts.Width),
		); err != nil {
			return err
		}
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s%s\n", p.note.Sprint("note:"), notePos(n.Span), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Summary is the closing line of a run, e.g. "2 error(s) in 1 file(s)".
func Summary(errors, files int) string {
	if errors == 0 {
		return fmt.Sprintf("ok, %d file(s)", files)
	}
	return fmt.Sprintf("%d error(s) in %d file(s)", errors, files)
}

func notePos(sp source.Span) string {
	if sp.Empty() {
		return ""
	}
	return sp.Start.String() + ": "
}

// clip shortens msg to width terminal cells; multi-line messages keep only
// their first line.
func clip(msg string, width uint8) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i] + " …"
	}
	if width == 0 || runewidth.StringWidth(msg) <= int(width) {
		return msg
	}
	return runewidth.Truncate(msg, int(width), "…")
}
