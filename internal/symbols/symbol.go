package symbols

import (
	"constlit/internal/ast"
	"constlit/internal/source"
)

// SymbolKind is the declaration kind. Every consumer switches over it
// exhaustively; adding a kind must update Classify in constcheck.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolTopLevelVariable
	SymbolTopLevelFunction
	SymbolClass
	SymbolBuiltin
	SymbolStaticField
	SymbolStaticMethod
	SymbolInstanceField
	SymbolInstanceMethod
	SymbolConstantLocal
	SymbolLocalVariable
	SymbolLocalFunction
	SymbolParameter
	SymbolFunctionLiteralParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolTopLevelVariable:
		return "top-level variable"
	case SymbolTopLevelFunction:
		return "top-level function"
	case SymbolClass:
		return "class"
	case SymbolBuiltin:
		return "built-in"
	case SymbolStaticField:
		return "static field"
	case SymbolStaticMethod:
		return "static method"
	case SymbolInstanceField:
		return "instance field"
	case SymbolInstanceMethod:
		return "instance method"
	case SymbolConstantLocal:
		return "constant local"
	case SymbolLocalVariable:
		return "local variable"
	case SymbolLocalFunction:
		return "local function"
	case SymbolParameter:
		return "parameter"
	case SymbolFunctionLiteralParameter:
		return "function literal parameter"
	default:
		return "invalid"
	}
}

// IsMember reports whether the kind belongs to a class body.
func (k SymbolKind) IsMember() bool {
	switch k {
	case SymbolStaticField, SymbolStaticMethod, SymbolInstanceField, SymbolInstanceMethod:
		return true
	default:
		return false
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	// SymbolFlagHoisted symbols are visible throughout their scope,
	// independent of declaration order (members and top-level names).
	SymbolFlagHoisted
	// SymbolFlagDeclaredConst marks a `const` modifier in the source.
	SymbolFlagDeclaredConst
	// SymbolFlagConstant is set once the initializer of a `const`
	// declaration was proven to be a constant expression.
	SymbolFlagConstant
	SymbolFlagFinal
)

var symbolFlagNames = [...]struct {
	flag SymbolFlags
	name string
}{
	{SymbolFlagBuiltin, "builtin"},
	{SymbolFlagHoisted, "hoisted"},
	{SymbolFlagDeclaredConst, "declared_const"},
	{SymbolFlagConstant, "constant"},
	{SymbolFlagFinal, "final"},
}

// Strings lists the set flags in declaration order.
func (f SymbolFlags) Strings() []string {
	var out []string
	for _, fl := range symbolFlagNames {
		if f&fl.flag != 0 {
			out = append(out, fl.name)
		}
	}
	return out
}

// SymbolDecl points back to the AST node that introduced the symbol.
type SymbolDecl struct {
	SourceFile source.FileID
	ASTFile    ast.FileID
	Item       ast.ItemID
	Member     ast.MemberID
	Stmt       ast.StmtID
	Param      ast.ParamID
	// Init is the initializer of variables and fields.
	Init ast.ExprID
}

// Symbol is one declaration. It is immutable once the resolution pass that
// produced it has finished.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Decl  SymbolDecl
	// Seq orders declarations for use-before-declaration checks.
	Seq uint32
}

// IsConstant reports whether the declaration denotes a compile-time constant.
func (s *Symbol) IsConstant() bool {
	return s != nil && s.Flags&SymbolFlagConstant != 0
}

// visibleAt reports whether the symbol can be seen from a node with the
// given watermark.
func (s *Symbol) visibleAt(watermark uint32) bool {
	return s.Flags&SymbolFlagHoisted != 0 || s.Seq < watermark
}
