package driver

import (
	"errors"

	"constlit/internal/constcheck"
)

// ErrNoInputs is returned when the given paths contain no AST documents.
var ErrNoInputs = errors.New("no AST documents found")

// Options содержит опции проверки
type Options struct {
	// Jobs bounds how many documents are checked at once; <= 0 means GOMAXPROCS.
	Jobs int
	// LiteralJobs bounds the literal workers inside one document.
	LiteralJobs    int
	MaxDiagnostics int
	Policy         constcheck.Policy
	// Prelude lists extra built-in names on top of the default prelude.
	Prelude []string
	// Cache is consulted and updated when non-nil.
	Cache *DiskCache
	// Memo deduplicates identical documents within one run; nil disables it.
	Memo          *MemoCache
	EnableTimings bool
	// ValidateTables runs symbol table invariant checks after resolution.
	ValidateTables bool
	BaseDir        string
	Progress       ProgressObserver
}

// DefaultOptions returns the options used by `constlit check` without flags.
func DefaultOptions() Options {
	return Options{
		Policy: constcheck.DefaultPolicy(),
		Memo:   NewMemoCache(64),
	}
}

func (o *Options) progress(ev ProgressEvent) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}
