package symbols

import "constlit/internal/source"

// LookupStatus distinguishes why a lookup did or did not succeed.
type LookupStatus uint8

const (
	LookupNotFound LookupStatus = iota
	LookupFound
	// LookupNotYetDeclared means a scope of the chain declares the name, but
	// after the node the lookup started from.
	LookupNotYetDeclared
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotYetDeclared:
		return "not yet declared"
	default:
		return "not found"
	}
}

// LookupFrom resolves name starting at the scope of ref and walking parent
// links up to the prelude. The innermost scope that declares the name wins;
// if that declaration is a local introduced after ref, the result is
// LookupNotYetDeclared together with the later symbol. When lexical lookup
// fails inside a class, instance members inherited from superclasses are
// searched.
func (t *Table) LookupFrom(ref ChainRef, name source.StringID) (SymbolID, LookupStatus) {
	for scopeID := ref.Scope; scopeID.IsValid(); {
		scope := t.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if id, ok := scope.NameIndex[name]; ok {
			if sym := t.Symbols.Get(id); sym != nil {
				if sym.visibleAt(ref.Watermark) {
					return id, LookupFound
				}
				return id, LookupNotYetDeclared
			}
		}
		scopeID = scope.Parent
	}
	if id := t.lookupInherited(t.EnclosingClass(ref.Scope), name); id.IsValid() {
		return id, LookupFound
	}
	return NoSymbolID, LookupNotFound
}

// lookupInherited searches instance members along the superclass chain of
// the class scope. Static members are not inherited.
func (t *Table) lookupInherited(classScope ScopeID, name source.StringID) SymbolID {
	info := t.Class(classScope)
	if info == nil {
		return NoSymbolID
	}
	seen := map[ScopeID]bool{classScope: true}
	for super := info.SuperScope; super.IsValid() && !seen[super]; {
		seen[super] = true
		scope := t.Scopes.Get(super)
		if scope == nil {
			break
		}
		if id, ok := scope.NameIndex[name]; ok {
			if sym := t.Symbols.Get(id); sym != nil &&
				(sym.Kind == SymbolInstanceField || sym.Kind == SymbolInstanceMethod) {
				return id
			}
		}
		next := t.Class(super)
		if next == nil {
			break
		}
		super = next.SuperScope
	}
	return NoSymbolID
}
