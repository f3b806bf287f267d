//go:build !constlit_debug

package symbols

func debugScopeMismatch(ScopeID, ScopeID) {}
