package symbols

// ScopeID identifies a scope in the resolver arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a declaration inside the resolver arena.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// ChainRef is the scope chain attached to an AST node: the innermost scope
// plus the visibility watermark at that node. Locals whose Seq is not below
// the watermark were declared later and are invisible from the node.
type ChainRef struct {
	Scope     ScopeID
	Watermark uint32
}

// IsValid reports whether the chain points at a scope.
func (c ChainRef) IsValid() bool { return c.Scope.IsValid() }
