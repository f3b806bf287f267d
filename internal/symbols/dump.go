package symbols

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the scope tree below root with the declarations of every scope.
func (t *Table) Dump(w io.Writer, root ScopeID) error {
	return t.dumpScope(w, root, 0)
}

func (t *Table) dumpScope(w io.Writer, id ScopeID, depth int) error {
	scope := t.Scopes.Get(id)
	if scope == nil {
		return nil
	}
	indent := strings.Repeat("  ", depth)
	header := fmt.Sprintf("%s%s #%d", indent, scope.Kind, id)
	if scope.Instance {
		header += " (instance)"
	}
	if info := t.Class(id); info != nil && info.SuperScope.IsValid() {
		header += fmt.Sprintf(" extends #%d", info.SuperScope)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, symID := range scope.Symbols {
		sym := t.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		line := fmt.Sprintf("%s  - %s: %s", indent, t.Name(sym.Name), sym.Kind)
		if sym.IsConstant() && sym.Kind == SymbolConstantLocal {
			line += " [const]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, child := range scope.Children {
		if err := t.dumpScope(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
