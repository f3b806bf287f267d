package constcheck

import "constlit/internal/symbols"

// Policy configures the access table of the checker.
type Policy struct {
	// AllowConstLocalsInLiterals permits references to constant locals that
	// are declared inside an enclosing non-constant function literal.
	AllowConstLocalsInLiterals bool
}

// DefaultPolicy accepts every constant local, wherever it is declared.
func DefaultPolicy() Policy {
	return Policy{AllowConstLocalsInLiterals: true}
}

// Permits reports whether a declaration with the given tag and owner scope
// kind may be captured by a constant literal.
func (p Policy) Permits(tag Tag, owner symbols.ScopeKind) bool {
	if !tag.Allowed() {
		return false
	}
	if tag == TagConstantLocal && owner == symbols.ScopeFunctionLiteral {
		return p.AllowConstLocalsInLiterals
	}
	return true
}

// rule is the human-readable access rule violated by a rejected capture.
func (p Policy) rule(tag Tag, owner symbols.ScopeKind) string {
	switch tag {
	case TagInstanceMember:
		return "instance members of the enclosing class are not accessible from a constant function literal"
	case TagNonConstantLocal:
		return "only locals declared with a constant initializer are accessible from a constant function literal"
	case TagNonConstantParameter:
		if owner == symbols.ScopeFunction {
			return "parameters of enclosing functions are not accessible from a constant function literal"
		}
		return "parameters of enclosing function literals are not accessible from a constant function literal"
	case TagConstantLocal:
		return "constant locals of enclosing non-constant function literals are not accessible under the configured policy"
	default:
		return "the declaration cannot be classified"
	}
}
