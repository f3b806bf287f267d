package constcheck

import "constlit/internal/symbols"

// Tag is the access class of a declaration referenced from a constant
// literal.
type Tag uint8

const (
	TagInvalid Tag = iota
	TagTopLevel
	TagStaticMember
	TagConstantLocal
	TagInstanceMember
	TagNonConstantLocal
	TagNonConstantParameter
)

func (t Tag) String() string {
	switch t {
	case TagTopLevel:
		return "TopLevel"
	case TagStaticMember:
		return "StaticMember"
	case TagConstantLocal:
		return "ConstantLocal"
	case TagInstanceMember:
		return "InstanceMember"
	case TagNonConstantLocal:
		return "NonConstantLocal"
	case TagNonConstantParameter:
		return "NonConstantParameter"
	default:
		return "Invalid"
	}
}

// Allowed reports whether declarations with this tag may be referenced from
// the body of a constant literal.
func (t Tag) Allowed() bool {
	switch t {
	case TagTopLevel, TagStaticMember, TagConstantLocal:
		return true
	default:
		return false
	}
}

// Classify labels a declaration. owner is the kind of the nearest non-block
// scope that declares sym (see symbols.Table.OwnerKind).
func Classify(sym *symbols.Symbol, owner symbols.ScopeKind) Tag {
	if sym == nil {
		return TagInvalid
	}
	switch sym.Kind {
	case symbols.SymbolTopLevelVariable,
		symbols.SymbolTopLevelFunction,
		symbols.SymbolClass,
		symbols.SymbolBuiltin:
		return TagTopLevel
	case symbols.SymbolStaticField, symbols.SymbolStaticMethod:
		return TagStaticMember
	case symbols.SymbolInstanceField, symbols.SymbolInstanceMethod:
		return TagInstanceMember
	case symbols.SymbolConstantLocal:
		// a `const` local whose initializer failed the constness check is an
		// ordinary local
		if sym.IsConstant() && owner != symbols.ScopeInvalid {
			return TagConstantLocal
		}
		return TagNonConstantLocal
	case symbols.SymbolLocalVariable, symbols.SymbolLocalFunction:
		return TagNonConstantLocal
	case symbols.SymbolParameter, symbols.SymbolFunctionLiteralParameter:
		return TagNonConstantParameter
	default:
		return TagInvalid
	}
}
