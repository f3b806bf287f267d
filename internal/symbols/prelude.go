package symbols

import "constlit/internal/source"

// DefaultPrelude lists the built-in library names visible in every file.
func DefaultPrelude() []string {
	return []string{
		"Object", "String", "int", "double", "num", "bool",
		"List", "Map", "Set", "Function", "Null", "dynamic",
		"print", "identical",
	}
}

// mergePrelude combines default builtins with user provided names, keeping
// the first occurrence of each.
func mergePrelude(custom []string) []string {
	defaults := DefaultPrelude()
	if len(custom) == 0 {
		return defaults
	}
	seen := make(map[string]bool, len(defaults)+len(custom))
	result := make([]string, 0, len(defaults)+len(custom))
	for _, name := range append(defaults, custom...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result
}

// EnsurePrelude creates the prelude scope on first use and declares the
// default names plus extra. Later calls return the existing scope.
func (t *Table) EnsurePrelude(extra []string) ScopeID {
	if t.prelude.IsValid() {
		return t.prelude
	}
	t.prelude = t.Scopes.New(ScopePrelude, NoScopeID, ScopeOwner{Kind: ScopeOwnerPrelude}, source.Span{})
	scope := t.Scopes.Get(t.prelude)
	for _, name := range mergePrelude(extra) {
		nameID := t.Strings.Intern(name)
		sym := Symbol{
			Name:  nameID,
			Kind:  SymbolBuiltin,
			Scope: t.prelude,
			Flags: SymbolFlagBuiltin | SymbolFlagHoisted | SymbolFlagConstant,
			Seq:   t.nextSeq(),
		}
		id := t.Symbols.New(&sym)
		scope.Symbols = append(scope.Symbols, id)
		scope.NameIndex[nameID] = id
	}
	return t.prelude
}
