package diagfmt

import (
	"encoding/json"
	"io"

	"tccl/internal/diag"
	"tccl/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
}

func makeLocation(path string, span source.Span, includePositions bool) LocationJSON {
	loc := LocationJSON{File: path}
	if includePositions && !span.Empty() {
		loc.StartLine = span.Start.Line
		loc.StartCol = span.Start.Col
		loc.EndLine = span.End.Line
		loc.EndCol = span.End.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Sources are emitted in the given order; Max caps the total.
func BuildDiagnosticsOutput(sources []Source, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	for _, src := range sources {
		if src.Bag == nil {
			continue
		}
		path := formatPath(src.Path, opts.PathMode, opts.BaseDir)
		for _, d := range src.Bag.Items() {
			if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
				return finish(out)
			}
			dj := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Title:    d.Code.Title(),
				Message:  d.Message,
				Location: makeLocation(path, d.Primary, opts.IncludePositions),
			}
			includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
			if includeNotes && len(d.Notes) > 0 {
				dj.Notes = make([]NoteJSON, len(d.Notes))
				for j, note := range d.Notes {
					dj.Notes[j] = NoteJSON{
						Message:  note.Msg,
						Location: makeLocation(path, note.Span, opts.IncludePositions),
					}
				}
			}
			out.Diagnostics = append(out.Diagnostics, dj)
		}
	}
	return finish(out)
}

func finish(out DiagnosticsOutput) DiagnosticsOutput {
	out.Count = len(out.Diagnostics)
	for _, d := range out.Diagnostics {
		if d.Severity == diag.SevError.String() {
			out.Errors++
		}
	}
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, sources []Source, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(sources, opts))
}
