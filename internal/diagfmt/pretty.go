package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"constlit/internal/diag"
	"constlit/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, caret, note, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.caret, p.note, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		file := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs, file, opts.PathMode), start.Line, start.Col,
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if file != nil && len(file.Content) > 0 {
			excerpt(w, fs, file, d.Primary, opts, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			nfile := fs.Get(note.Span.File)
			npos, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				p.note.Sprint("note:"), formatPath(fs, nfile, opts.PathMode), npos.Line, npos.Col, note.Msg)
		}
	}
}

// excerpt prints the primary line with Context lines around it and a caret
// line under the span. Spans crossing lines are underlined to the line end.
func excerpt(w io.Writer, fs *source.FileSet, file *source.File, span source.Span, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(span)
	lastLine, err := safecast.Conv[uint32](len(file.LineIdx) + 1)
	if err != nil {
		lastLine = start.Line
	}
	ctx := uint32(max(opts.Context, 0))

	first := start.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := min(start.Line+ctx, lastLine)
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := expandTabs(strings.TrimRight(file.GetLine(ln), "\r\n"))
		if ln != start.Line && text == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		raw := file.GetLine(ln)
		prefix := expandTabs(prefixByCol(raw, start.Col))
		var marked string
		if end.Line == start.Line && end.Col > start.Col {
			marked = expandTabs(prefixByCol(raw, end.Col))[len(prefix):]
		} else {
			marked = text[min(len(prefix), len(text)):]
		}
		pad := runewidth.StringWidth(prefix)
		n := max(runewidth.StringWidth(marked), 1)
		underline := "^" + strings.Repeat("~", n-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
	}
}

// prefixByCol returns the part of line before the 1-based byte column col.
func prefixByCol(line string, col uint32) string {
	if col == 0 {
		return ""
	}
	idx := min(int(col-1), len(line))
	return line[:idx]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
