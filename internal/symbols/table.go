package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"constlit/internal/ast"
	"constlit/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// ClassInfo links a class declaration to its member scope and superclass.
type ClassInfo struct {
	Item      ast.ItemID
	Symbol    SymbolID
	Scope     ScopeID
	Super     source.StringID
	SuperSpan source.Span
	// SuperScope is the member scope of the resolved superclass; invalid
	// for classes without a superclass declared in the same library.
	SuperScope ScopeID
}

// Table aggregates symbol-related arenas and shared resources of one
// resolution pass. It is read-only once the pass is over.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	prelude  ScopeID
	libRoot  map[ast.FileID]ScopeID
	classes  map[ScopeID]*ClassInfo
	bySymbol map[SymbolID]*ClassInfo
	seq      uint32
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:   NewScopes(scopeCap),
		Symbols:  NewSymbols(symCap),
		Strings:  strings,
		libRoot:  make(map[ast.FileID]ScopeID),
		classes:  make(map[ScopeID]*ClassInfo),
		bySymbol: make(map[SymbolID]*ClassInfo),
	}
}

// PreludeScope returns the prelude scope, or NoScopeID before EnsurePrelude.
func (t *Table) PreludeScope() ScopeID { return t.prelude }

// LibraryRoot returns (and creates if needed) the library scope of an AST file.
func (t *Table) LibraryRoot(file ast.FileID, src source.FileID, span source.Span) ScopeID {
	if scope, ok := t.libRoot[file]; ok {
		return scope
	}
	scope := t.Scopes.New(ScopeLibrary, t.prelude, ScopeOwner{
		Kind:       ScopeOwnerFile,
		SourceFile: src,
		ASTFile:    file,
	}, span)
	t.libRoot[file] = scope
	return scope
}

// Watermark is the sequence number the next declaration will receive.
func (t *Table) Watermark() uint32 { return t.seq }

func (t *Table) nextSeq() uint32 {
	seq := t.seq
	t.seq++
	return seq
}

func (t *Table) registerClass(info *ClassInfo) {
	t.classes[info.Scope] = info
	t.bySymbol[info.Symbol] = info
}

// Class returns class info for a class member scope.
func (t *Table) Class(scope ScopeID) *ClassInfo {
	return t.classes[scope]
}

// ClassOf returns class info for a class symbol.
func (t *Table) ClassOf(sym SymbolID) *ClassInfo {
	return t.bySymbol[sym]
}

// EnclosingClass returns the innermost class scope containing scope.
func (t *Table) EnclosingClass(scope ScopeID) ScopeID {
	for scope.IsValid() {
		s := t.Scopes.Get(scope)
		if s == nil {
			break
		}
		if s.Kind == ScopeClass {
			return scope
		}
		scope = s.Parent
	}
	return NoScopeID
}

// OwnerKind returns the kind of the nearest function-like, class or library
// scope around scope (blocks are transparent).
func (t *Table) OwnerKind(scope ScopeID) ScopeKind {
	for scope.IsValid() {
		s := t.Scopes.Get(scope)
		if s == nil {
			break
		}
		if s.Kind != ScopeBlock {
			return s.Kind
		}
		scope = s.Parent
	}
	return ScopeInvalid
}

// InstanceContext reports whether `this` denotes a receiver at scope: the
// innermost member function around it is an instance method or constructor.
// Local functions and literals are transparent.
func (t *Table) InstanceContext(scope ScopeID) bool {
	for scope.IsValid() {
		s := t.Scopes.Get(scope)
		if s == nil {
			return false
		}
		switch s.Kind {
		case ScopeFunction:
			if s.Owner.Kind == ScopeOwnerMember {
				return s.Instance
			}
		case ScopeClass, ScopeLibrary, ScopePrelude:
			return false
		}
		scope = s.Parent
	}
	return false
}

// Chain expands a chain reference into scopes from innermost to root.
func (t *Table) Chain(ref ChainRef) []ScopeID {
	var chain []ScopeID
	for scope := ref.Scope; scope.IsValid(); {
		s := t.Scopes.Get(scope)
		if s == nil {
			break
		}
		chain = append(chain, scope)
		scope = s.Parent
	}
	return chain
}

// Contains reports whether inner is scope itself or nested inside it.
func (t *Table) Contains(scope, inner ScopeID) bool {
	for inner.IsValid() {
		if inner == scope {
			return true
		}
		s := t.Scopes.Get(inner)
		if s == nil {
			return false
		}
		inner = s.Parent
	}
	return false
}

// Name returns the spelling of an interned name.
func (t *Table) Name(id source.StringID) string {
	s, _ := t.Strings.Lookup(id)
	return s
}
