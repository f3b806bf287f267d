package symbols

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks the arena invariants: parent and child links agree, every
// library hangs off the prelude, and each scope's name index matches its
// symbol list. All problems are joined into one error.
func (t *Table) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	t.Scopes.each(func(id ScopeID, scope *Scope) {
		if scope.Kind == ScopeInvalid {
			fail("scope %d has invalid kind", id)
		}
		if scope.Kind == ScopeLibrary && scope.Parent != t.prelude {
			fail("library scope %d is not attached to the prelude", id)
		}
		if scope.Parent.IsValid() {
			parent := t.Scopes.Get(scope.Parent)
			switch {
			case parent == nil || scope.Parent == id:
				fail("scope %d has invalid parent %d", id, scope.Parent)
			case !slices.Contains(parent.Children, id):
				fail("scope %d parent %d missing backlink", id, scope.Parent)
			}
		}
		for _, child := range scope.Children {
			c := t.Scopes.Get(child)
			switch {
			case c == nil || child == id:
				fail("scope %d has invalid child %d", id, child)
			case c.Parent != id:
				fail("scope %d child %d missing parent backlink", id, child)
			}
		}

		if len(scope.NameIndex) != len(scope.Symbols) {
			fail("scope %d indexes %d names for %d symbols", id, len(scope.NameIndex), len(scope.Symbols))
		}
		for name, symID := range scope.NameIndex {
			sym := t.Symbols.Get(symID)
			switch {
			case sym == nil:
				fail("scope %d indexes unknown symbol %d", id, symID)
			case sym.Name != name:
				fail("scope %d indexes symbol %d under a foreign name", id, symID)
			case sym.Scope != id:
				fail("symbol %d indexed by scope %d but declared in %d", symID, id, sym.Scope)
			}
		}
	})

	seen := make(map[uint32]SymbolID, t.Symbols.Len())
	t.Symbols.each(func(id SymbolID, sym *Symbol) {
		if sym.Kind == SymbolInvalid {
			fail("symbol %d has invalid kind", id)
		}
		if t.Scopes.Get(sym.Scope) == nil {
			fail("symbol %d references missing scope %d", id, sym.Scope)
		}
		if prev, dup := seen[sym.Seq]; dup {
			fail("symbols %d and %d share sequence number %d", prev, id, sym.Seq)
		}
		seen[sym.Seq] = id
		if sym.Flags&SymbolFlagConstant != 0 && sym.Kind == SymbolLocalVariable {
			fail("symbol %d is a non-const local marked constant", id)
		}
	})

	return errors.Join(errs...)
}
