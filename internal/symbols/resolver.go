package symbols

import (
	"fmt"

	"constlit/internal/diag"
	"constlit/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
}

// Resolver drives scope management and declaration routines of one walk.
type Resolver struct {
	table                 *Table
	reporter              diag.Reporter
	stack                 []ScopeID
	scopeMismatchReported map[ScopeID]bool
}

// NewResolver wires a resolver to an existing scope stack. If root is valid it
// becomes the current scope; otherwise scope-sensitive operations are no-ops.
func NewResolver(table *Table, root ScopeID, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:                 table,
		reporter:              opts.Reporter,
		stack:                 make([]ScopeID, 0, 8),
		scopeMismatchReported: make(map[ScopeID]bool),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Chain captures the scope chain of the node being visited right now.
func (r *Resolver) Chain() ChainRef {
	return ChainRef{Scope: r.CurrentScope(), Watermark: r.table.Watermark()}
}

// Enter creates a child scope, pushes it onto the stack, and returns its ID.
func (r *Resolver) Enter(kind ScopeKind, owner ScopeOwner, span source.Span) ScopeID {
	parent := r.CurrentScope()
	scope := r.table.Scopes.New(kind, parent, owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// Reenter pushes a scope created earlier (class scopes are built while
// predeclaring and walked later).
func (r *Resolver) Reenter(scope ScopeID) {
	if scope.IsValid() {
		r.stack = append(r.stack, scope)
	}
}

// Leave pops the current scope, validating against the expected one. In debug
// builds a mismatch triggers panic; release builds emit a warning diagnostic.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		debugScopeMismatch(expected, top)
		r.reportScopeMismatch(expected, top)
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare installs a symbol into the current scope. Returns false if there is
// no active scope or the name is already taken in that scope.
func (r *Resolver) Declare(name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags, decl SymbolDecl) (SymbolID, bool) {
	return r.DeclareIn(r.CurrentScope(), name, span, kind, flags, decl)
}

// DeclareIn installs a symbol into an explicit scope, reporting duplicates.
func (r *Resolver) DeclareIn(scopeID ScopeID, name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags, decl SymbolDecl) (SymbolID, bool) {
	id, ok := r.declare(scopeID, name, span, kind, flags, decl)
	if !ok && id.IsValid() {
		prev := r.table.Symbols.Get(id)
		r.reportDuplicateSymbol(name, span, prev.Span, prev.Flags)
	}
	return id, ok
}

// DeclareQuiet behaves like Declare but leaves duplicate reporting to the
// caller. On conflict it returns the existing symbol and false.
func (r *Resolver) DeclareQuiet(name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags, decl SymbolDecl) (SymbolID, bool) {
	return r.declare(r.CurrentScope(), name, span, kind, flags, decl)
}

func (r *Resolver) declare(scopeID ScopeID, name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags, decl SymbolDecl) (SymbolID, bool) {
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil || name == source.NoStringID {
		return NoSymbolID, false
	}
	if existing, ok := scope.NameIndex[name]; ok {
		return existing, false
	}
	sym := Symbol{
		Name:  name,
		Kind:  kind,
		Scope: scopeID,
		Span:  span,
		Flags: flags,
		Decl:  decl,
		Seq:   r.table.nextSeq(),
	}
	id := r.table.Symbols.New(&sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[name] = id
	return id, true
}

func (r *Resolver) reportDuplicateSymbol(name source.StringID, span, prevSpan source.Span, prevFlags SymbolFlags) {
	if r.reporter == nil {
		return
	}
	msg := fmt.Sprintf("duplicate declaration of '%s'", r.table.Name(name))
	builder := diag.ReportError(r.reporter, diag.SemaDuplicateSymbol, span, msg)
	noteMsg := "previous declaration here"
	if prevFlags&SymbolFlagBuiltin != 0 {
		noteMsg = "built-in declaration here"
	}
	if prevSpan != (source.Span{}) {
		builder.WithNote(prevSpan, noteMsg)
	}
	builder.Emit()
}

func (r *Resolver) reportScopeMismatch(expected, actual ScopeID) {
	if r.reporter == nil {
		return
	}
	if actual.IsValid() && r.scopeMismatchReported[actual] {
		return
	}
	if actual.IsValid() {
		r.scopeMismatchReported[actual] = true
	}

	var primary source.Span
	actualLabel := fmt.Sprintf("scope #%d", actual)
	if scope := r.table.Scopes.Get(actual); scope != nil {
		primary = scope.Span
		actualLabel = fmt.Sprintf("%s scope #%d", scope.Kind, actual)
	}
	expectedLabel := "unknown scope"
	expectedScope := r.table.Scopes.Get(expected)
	if expectedScope != nil {
		expectedLabel = fmt.Sprintf("%s scope #%d", expectedScope.Kind, expected)
	}

	msg := fmt.Sprintf("scope stack mismatch: closing %s while expecting %s", actualLabel, expectedLabel)
	builder := diag.ReportWarning(r.reporter, diag.SemaScopeMismatch, primary, msg)
	if expectedScope != nil {
		builder.WithNote(expectedScope.Span, "expected scope declared here")
	}
	builder.Emit()
}
