package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"constlit/internal/source"
)

// FormatShort renders diagnostics one per line as
// "<severity> <code> <path>:<line>:<col> <message>", keeping the input order.
// Notes follow their diagnostic when includeNotes is set.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		loc := resolveSpan(fs, d.Primary)
		lines = append(lines, fmt.Sprintf("%s %s %s:%d:%d %s",
			d.Severity.Label(), d.Code.ID(), loc.Path, loc.Line, loc.Column, sanitizeMessage(d.Message)))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			nloc := resolveSpan(fs, note.Span)
			lines = append(lines, fmt.Sprintf("note %s %s:%d:%d %s",
				d.Code.ID(), nloc.Path, nloc.Line, nloc.Column, sanitizeMessage(note.Msg)))
		}
	}
	return strings.Join(lines, "\n")
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) resolvedSpan {
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{Path: "<unknown>"}
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
