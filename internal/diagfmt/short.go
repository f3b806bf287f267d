package diagfmt

import (
	"fmt"
	"io"

	"constlit/internal/diag"
	"constlit/internal/source"
)

// Short prints one line per diagnostic, the format used by golden tests.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, diag.FormatShort(bag.Items(), fs, includeNotes))
	return err
}
