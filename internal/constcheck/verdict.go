package constcheck

import (
	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

// Status is the outcome of validating one literal.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// IdentifierUse is one free reference inside a constant literal: an
// identifier that is not bound by the literal, or a `this`/`super` keyword.
type IdentifierUse struct {
	Expr ast.ExprID
	Name source.StringID
	// Keyword is "this" or "super" for receiver references, empty otherwise.
	Keyword string
	Span    source.Span
	Symbol  symbols.SymbolID
	Lookup  symbols.LookupStatus
	Kind    symbols.SymbolKind
	Tag     Tag
}

// Verdict is the cached validation result of a literal. Slices are shared
// between callers and must not be modified.
type Verdict struct {
	Literal     ast.ExprID
	Span        source.Span
	Status      Status
	Uses        []IdentifierUse
	Violations  []IdentifierUse
	Diagnostics []diag.Diagnostic
}

func (v Verdict) Valid() bool { return v.Status == StatusValid }

// Report forwards the diagnostics of the verdict to r.
func (v Verdict) Report(r diag.Reporter) {
	if r == nil {
		return
	}
	for _, d := range v.Diagnostics {
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
}
