package symbols

import (
	"constlit/internal/ast"
	"constlit/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid              ScopeKind = iota
	ScopePrelude                        // built-in names, parent of every library
	ScopeLibrary                        // top-level declarations of one file
	ScopeClass                          // class members
	ScopeFunction                       // parameters of a named function, method or constructor
	ScopeBlock                          // generic block scope
	ScopeFunctionLiteral                // parameters of a non-constant function literal
	ScopeConstFunctionLiteral           // parameters of a `const` function literal
)

func (k ScopeKind) String() string {
	switch k {
	case ScopePrelude:
		return "prelude"
	case ScopeLibrary:
		return "library"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeFunctionLiteral:
		return "function literal"
	case ScopeConstFunctionLiteral:
		return "const function literal"
	default:
		return "invalid"
	}
}

// IsFunctionLike reports whether the scope holds parameters of a callable.
func (k ScopeKind) IsFunctionLike() bool {
	return k == ScopeFunction || k == ScopeFunctionLiteral || k == ScopeConstFunctionLiteral
}

// ScopeOwnerKind distinguishes what AST element owns a scope.
type ScopeOwnerKind uint8

const (
	ScopeOwnerUnknown ScopeOwnerKind = iota
	ScopeOwnerPrelude
	ScopeOwnerFile
	ScopeOwnerItem
	ScopeOwnerMember
	ScopeOwnerStmt
	ScopeOwnerExpr
)

// ScopeOwner references an AST construct associated with the scope.
type ScopeOwner struct {
	Kind       ScopeOwnerKind
	SourceFile source.FileID
	ASTFile    ast.FileID
	Item       ast.ItemID
	Member     ast.MemberID
	Stmt       ast.StmtID
	Expr       ast.ExprID
}

// Scope models a lexical scope with a parent-child hierarchy. Names are
// unique within one scope; shadowing across scopes is allowed.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
	// Instance is set on function scopes of instance methods and
	// constructors, where `this` denotes the receiver.
	Instance bool
}
