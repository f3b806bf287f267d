package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"constlit/internal/source"
)

// LiteralEntry is a verdict prepared for output.
type LiteralEntry struct {
	Span       source.Span
	Status     string
	Violations int
}

// HoistEntry is a group of structurally identical valid literals.
type HoistEntry struct {
	Fingerprint string
	Spans       []source.Span
}

// Hoist prints the hoisting candidates, one group per paragraph.
func Hoist(w io.Writer, groups []HoistEntry, fs *source.FileSet, opts PrettyOpts) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "no hoisting candidates")
		return
	}
	head := color.New(color.Bold)
	if opts.Color {
		head.EnableColor()
	} else {
		head.DisableColor()
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fp := g.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		head.Fprintf(w, "hoist %s: %d identical literals\n", fp, len(g.Spans))
		for _, sp := range g.Spans {
			pos, _ := fs.Resolve(sp)
			fmt.Fprintf(w, "  %s:%d:%d\n", formatPath(fs, fs.Get(sp.File), opts.PathMode), pos.Line, pos.Col)
		}
	}
}
