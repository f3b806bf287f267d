package driver

import (
	"sort"

	"constlit/internal/ast"
	"constlit/internal/constcheck"
	"constlit/internal/diag"
	"constlit/internal/observ"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

// LiteralSummary is the persisted part of a verdict.
type LiteralSummary struct {
	Span       source.Span
	Status     constcheck.Status
	Violations int
}

// HoistSummary lists the positions of one group of identical literals.
type HoistSummary struct {
	Fingerprint string
	Spans       []source.Span
}

// FileResult is the outcome for one AST document. Builder, Symbols and
// Checker are nil when the result was served from a cache.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Builder  *ast.Builder
	ASTFile  ast.FileID
	Symbols  *symbols.Result
	Checker  *constcheck.Checker
	Verdicts []constcheck.Verdict
	Literals []LiteralSummary
	Hoist    []HoistSummary
	Cached   bool
}

// InvalidLiterals counts literals with an Invalid verdict.
func (r *FileResult) InvalidLiterals() int {
	n := 0
	for _, lit := range r.Literals {
		if lit.Status != constcheck.StatusValid {
			n++
		}
	}
	return n
}

// Failed reports whether the document must not proceed to code generation:
// it has an invalid literal or any error diagnostic.
func (r *FileResult) Failed() bool {
	return r.InvalidLiterals() > 0 || (r.Bag != nil && r.Bag.HasErrors())
}

// Result aggregates the outcome of a check run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Bag holds the diagnostics of every document, sorted by location.
	Bag   *diag.Bag
	Timer *observ.Timer
}

// Failed reports whether any document failed; other documents are still
// checked and reported.
func (r *Result) Failed() bool {
	if r == nil {
		return false
	}
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// Stats counts literals across all documents.
func (r *Result) Stats() (total, invalid int) {
	for i := range r.Files {
		total += len(r.Files[i].Literals)
		invalid += r.Files[i].InvalidLiterals()
	}
	return total, invalid
}

// Hoistable returns every hoist group, ordered by position. Groups never span
// documents: fingerprints are built from per-file symbol IDs.
func (r *Result) Hoistable() []HoistSummary {
	var groups []HoistSummary
	for i := range r.Files {
		groups = append(groups, r.Files[i].Hoist...)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Spans[0].Before(groups[j].Spans[0])
	})
	return groups
}
