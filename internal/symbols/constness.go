package symbols

import (
	"fmt"

	"constlit/internal/ast"
	"constlit/internal/diag"
)

type constState uint8

const (
	constUnknown constState = iota
	constVisiting
	constDone
)

// evaluateConstness decides IsConstant for every `const` declaration of the
// file. Initializers may refer to declarations in any order, so each one is
// evaluated on demand with cycle detection.
func (fr *fileResolver) evaluateConstness() {
	ev := constEvaluator{fr: fr, state: make(map[SymbolID]constState)}
	for idx := 1; idx <= fr.table.Symbols.Len(); idx++ {
		id, err := toSymbolID(idx)
		if err != nil {
			break
		}
		sym := fr.table.Symbols.Get(id)
		if sym.Flags&SymbolFlagDeclaredConst == 0 || sym.Decl.ASTFile != fr.fileID {
			continue
		}
		ev.ensure(id)
	}
}

type constEvaluator struct {
	fr    *fileResolver
	state map[SymbolID]constState
}

func (ev *constEvaluator) ensure(id SymbolID) bool {
	sym := ev.fr.table.Symbols.Get(id)
	if sym == nil {
		return false
	}
	switch ev.state[id] {
	case constDone:
		return sym.IsConstant()
	case constVisiting:
		// cycle; the outermost evaluation reports it
		return false
	}
	ev.state[id] = constVisiting
	ok := sym.Decl.Init.IsValid() && ev.isConst(sym.Decl.Init)
	ev.state[id] = constDone
	if ok {
		sym.Flags |= SymbolFlagConstant
		return true
	}
	sym.Flags &^= SymbolFlagConstant
	ev.report(sym)
	return false
}

func (ev *constEvaluator) report(sym *Symbol) {
	name := ev.fr.table.Name(sym.Name)
	if !sym.Decl.Init.IsValid() {
		msg := fmt.Sprintf("const declaration '%s' has no initializer", name)
		diag.ReportError(ev.fr.reporter, diag.SemaConstNotConstant, sym.Span, msg).Emit()
		return
	}
	msg := fmt.Sprintf("const declaration '%s' requires a constant initializer", name)
	b := diag.ReportError(ev.fr.reporter, diag.SemaConstNotConstant, sym.Span, msg)
	if init := ev.fr.builder.Exprs.Get(sym.Decl.Init); init != nil {
		b.WithNote(init.Span, "this expression is not constant")
	}
	b.Emit()
}

// isConst reports whether the expression is a compile-time constant.
func (ev *constEvaluator) isConst(id ast.ExprID) bool {
	exprs := ev.fr.builder.Exprs
	expr := exprs.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.ExprLiteral:
		return true
	case ast.ExprIdent:
		data, ok := exprs.Ident(id)
		if !ok {
			return false
		}
		symID, status := ev.fr.table.LookupFrom(ev.fr.result.ChainOf(id), data.Name)
		if status != LookupFound {
			return false
		}
		return ev.refersToConstant(symID)
	case ast.ExprBinary, ast.ExprUnary, ast.ExprConditional, ast.ExprIs:
		all := true
		exprs.VisitOperands(id, func(sub ast.ExprID) {
			if all && !ev.isConst(sub) {
				all = false
			}
		})
		return all
	case ast.ExprList:
		data, ok := exprs.List(id)
		if !ok || !data.IsConst {
			return false
		}
		for _, elem := range data.Elements {
			if !ev.isConst(elem) {
				return false
			}
		}
		return true
	case ast.ExprFuncLit:
		data, ok := exprs.FuncLit(id)
		return ok && data.IsConst
	default:
		return false
	}
}

func (ev *constEvaluator) refersToConstant(id SymbolID) bool {
	sym := ev.fr.table.Symbols.Get(id)
	if sym == nil {
		return false
	}
	switch sym.Kind {
	case SymbolTopLevelFunction, SymbolStaticMethod, SymbolClass, SymbolBuiltin:
		return true
	case SymbolTopLevelVariable, SymbolStaticField, SymbolInstanceField, SymbolConstantLocal:
		if sym.Flags&SymbolFlagDeclaredConst == 0 {
			return false
		}
		return ev.ensure(id)
	case SymbolInvalid, SymbolInstanceMethod, SymbolLocalVariable, SymbolLocalFunction,
		SymbolParameter, SymbolFunctionLiteralParameter:
		return false
	default:
		return false
	}
}
