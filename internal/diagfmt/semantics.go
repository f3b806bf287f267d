package diagfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"

	"constlit/internal/ast"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

// SemanticsInput carries the data required to build a semantic dump.
type SemanticsInput struct {
	Builder *ast.Builder
	Result  *symbols.Result
}

// SemanticsOutput is the scope tree of one document in JSON form.
type SemanticsOutput struct {
	Scopes        []ScopeJSON        `json:"scopes"`
	Symbols       []SymbolJSON       `json:"symbols"`
	ConstLiterals []ConstLiteralJSON `json:"const_literals"`
}

type ScopeJSON struct {
	ID       uint32      `json:"id"`
	Kind     string      `json:"kind"`
	Parent   uint32      `json:"parent,omitempty"`
	Span     source.Span `json:"span"`
	Owner    string      `json:"owner"`
	Instance bool        `json:"instance,omitempty"`
}

type SymbolJSON struct {
	ID    uint32      `json:"id"`
	Name  string      `json:"name"`
	Kind  string      `json:"kind"`
	Scope uint32      `json:"scope"`
	Span  source.Span `json:"span"`
	Flags []string    `json:"flags,omitempty"`
}

// ConstLiteralJSON links a constant function literal to its parameter scope.
type ConstLiteralJSON struct {
	ExprID uint32      `json:"expr_id"`
	Scope  uint32      `json:"scope"`
	Span   source.Span `json:"span"`
}

func buildSemanticsOutput(in *SemanticsInput) (*SemanticsOutput, error) {
	if in == nil || in.Result == nil || in.Result.Table == nil {
		return nil, errors.New("semantics: no symbol table")
	}
	table := in.Result.Table

	output := &SemanticsOutput{
		Scopes:        make([]ScopeJSON, 0, table.Scopes.Len()),
		Symbols:       make([]SymbolJSON, 0, table.Symbols.Len()),
		ConstLiterals: make([]ConstLiteralJSON, 0, len(in.Result.ConstLiterals)),
	}

	// Scopes are stored with sentinel at index 0.
	for idx, scope := range table.Scopes.Data() {
		id, err := safecast.Conv[uint32](idx + 1)
		if err != nil {
			return nil, fmt.Errorf("semantics: scope id overflow: %w", err)
		}
		output.Scopes = append(output.Scopes, ScopeJSON{
			ID:       id,
			Kind:     scope.Kind.String(),
			Parent:   uint32(scope.Parent),
			Span:     scope.Span,
			Owner:    scopeOwnerKindString(scope.Owner.Kind),
			Instance: scope.Instance,
		})
	}

	// Symbols stored with sentinel at index 0.
	for idx, sym := range table.Symbols.Data() {
		id, err := safecast.Conv[uint32](idx + 1)
		if err != nil {
			return nil, fmt.Errorf("semantics: symbol id overflow: %w", err)
		}
		output.Symbols = append(output.Symbols, SymbolJSON{
			ID:    id,
			Name:  table.Name(sym.Name),
			Kind:  sym.Kind.String(),
			Scope: uint32(sym.Scope),
			Span:  sym.Span,
			Flags: sym.Flags.Strings(),
		})
	}

	for _, lit := range in.Result.ConstLiterals {
		entry := ConstLiteralJSON{
			ExprID: uint32(lit),
			Scope:  uint32(in.Result.LiteralScopes[lit]),
		}
		if in.Builder != nil {
			if expr := in.Builder.Exprs.Get(lit); expr != nil {
				entry.Span = expr.Span
			}
		}
		output.ConstLiterals = append(output.ConstLiterals, entry)
	}
	return output, nil
}

// Semantics writes the scope tree of a resolved document as JSON.
func Semantics(w io.Writer, in *SemanticsInput) error {
	output, err := buildSemanticsOutput(in)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func scopeOwnerKindString(kind symbols.ScopeOwnerKind) string {
	switch kind {
	case symbols.ScopeOwnerPrelude:
		return "prelude"
	case symbols.ScopeOwnerFile:
		return "file"
	case symbols.ScopeOwnerItem:
		return "item"
	case symbols.ScopeOwnerMember:
		return "member"
	case symbols.ScopeOwnerStmt:
		return "stmt"
	case symbols.ScopeOwnerExpr:
		return "expr"
	default:
		return "unknown"
	}
}
