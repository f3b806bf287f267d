package constcheck

import (
	"fmt"
	"sort"

	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

// walker collects the free references of one constant literal.
type walker struct {
	c         *Checker
	exprs     *ast.Exprs
	litScope  symbols.ScopeID
	enclosing symbols.ChainRef

	uses  []IdentifierUse
	bad   []IdentifierUse
	diags []diag.Diagnostic
}

func (c *Checker) validate(lit ast.ExprID) Verdict {
	v := Verdict{Literal: lit}
	expr := c.builder.Exprs.Get(lit)
	if expr != nil {
		v.Span = expr.Span
	}
	data, ok := c.builder.Exprs.FuncLit(lit)
	if !ok || !data.IsConst {
		v.Status = StatusInvalid
		v.Diagnostics = []diag.Diagnostic{
			diag.NewError(diag.SynMalformedLiteral, v.Span, "expression is not a constant function literal"),
		}
		return v
	}

	w := &walker{
		c:         c,
		exprs:     c.builder.Exprs,
		litScope:  c.res.LiteralScopes[lit],
		enclosing: c.res.ChainOf(lit),
	}
	if !w.litScope.IsValid() || !w.enclosing.IsValid() {
		v.Status = StatusInvalid
		v.Diagnostics = []diag.Diagnostic{
			diag.NewError(diag.SynMalformedLiteral, v.Span, "constant function literal has no resolved scope"),
		}
		return v
	}

	w.structure(expr.Span, data)
	// defaults are evaluated in the enclosing scope, but belong to the literal
	w.params(data.Params)
	w.body(data.Body)

	sortUses(w.uses)
	sortUses(w.bad)
	sort.SliceStable(w.diags, func(i, j int) bool {
		return w.diags[i].Primary.Before(w.diags[j].Primary)
	})
	v.Uses = w.uses
	v.Violations = w.bad
	v.Diagnostics = w.diags
	v.Status = StatusValid
	if len(w.diags) > 0 {
		v.Status = StatusInvalid
	}
	return v
}

func sortUses(uses []IdentifierUse) {
	sort.SliceStable(uses, func(i, j int) bool {
		return uses[i].Span.Before(uses[j].Span)
	})
}

// structure checks the literal shape: exactly one body and distinct
// parameter names.
func (w *walker) structure(span source.Span, data *ast.ExprFuncLitData) {
	switch {
	case data.Body.IsEmpty():
		w.diags = append(w.diags, diag.NewError(diag.SynMalformedLiteral, span,
			"constant function literal has no body"))
	case data.Body.Block.IsValid() && data.Body.Expr.IsValid():
		exprSpan := span
		if e := w.exprs.Get(data.Body.Expr); e != nil {
			exprSpan = e.Span
		}
		w.diags = append(w.diags, diag.NewError(diag.SynMalformedLiteral, exprSpan,
			"constant function literal has both a block body and an expression body"))
	}

	seen := make(map[source.StringID]source.Span, len(data.Params))
	for _, id := range data.Params {
		param := w.c.builder.Fns.Param(id)
		if param == nil {
			continue
		}
		if first, dup := seen[param.Name]; dup {
			msg := fmt.Sprintf("duplicate parameter '%s'", w.c.table.Name(param.Name))
			w.diags = append(w.diags, diag.NewError(diag.SynDuplicateParam, param.Span, msg).
				WithNote(first, "first declared here"))
			continue
		}
		seen[param.Name] = param.Span
	}
}

func (w *walker) params(ids []ast.ParamID) {
	for _, id := range ids {
		if param := w.c.builder.Fns.Param(id); param != nil {
			w.expr(param.Default)
		}
	}
}

func (w *walker) body(body ast.FnBody) {
	if body.Block.IsValid() {
		w.stmt(body.Block)
	}
	if body.Expr.IsValid() {
		w.expr(body.Expr)
	}
}

func (w *walker) stmt(id ast.StmtID) {
	stmts := w.c.builder.Stmts
	stmt := stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		if block := stmts.Block(id); block != nil {
			for _, child := range block.Stmts {
				w.stmt(child)
			}
		}
	case ast.StmtVar:
		if v := stmts.Var(id); v != nil {
			w.expr(v.Value)
		}
	case ast.StmtFn:
		declID, ok := stmts.Fn(id)
		if !ok {
			return
		}
		if decl := w.c.builder.Fns.Get(declID); decl != nil {
			w.params(decl.Params)
			w.body(decl.Body)
		}
	case ast.StmtExpr, ast.StmtReturn:
		w.expr(stmts.Value(id))
	case ast.StmtIf:
		if s := stmts.If(id); s != nil {
			w.expr(s.Cond)
			w.stmt(s.Then)
			w.stmt(s.Else)
		}
	case ast.StmtWhile:
		if s := stmts.While(id); s != nil {
			w.expr(s.Cond)
			w.stmt(s.Body)
		}
	case ast.StmtForIn:
		if s := stmts.ForIn(id); s != nil {
			w.expr(s.Iterable)
			w.stmt(s.Body)
		}
	}
}

func (w *walker) expr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	expr := w.exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent:
		w.ident(id, expr.Span)
	case ast.ExprThis:
		w.receiver(id, expr.Span, "this")
	case ast.ExprSuper:
		w.receiver(id, expr.Span, "super")
	case ast.ExprFuncLit:
		data, ok := w.exprs.FuncLit(id)
		if !ok {
			return
		}
		w.params(data.Params)
		if data.IsConst {
			// nested constant literals get their own verdict
			return
		}
		w.body(data.Body)
	default:
		w.exprs.VisitOperands(id, w.expr)
	}
}

func (w *walker) ident(id ast.ExprID, span source.Span) {
	data, ok := w.exprs.Ident(id)
	if !ok {
		return
	}
	table := w.c.table
	name := table.Name(data.Name)

	// bound set: parameters of the literal and everything declared inside it
	if symID, status := table.LookupFrom(w.c.res.ChainOf(id), data.Name); symID.IsValid() {
		sym := table.Symbols.Get(symID)
		if sym != nil && table.Contains(w.litScope, sym.Scope) {
			if status == symbols.LookupNotYetDeclared {
				use := IdentifierUse{Expr: id, Name: data.Name, Span: span, Symbol: symID, Lookup: status, Kind: sym.Kind}
				w.useBeforeDeclaration(use, sym, name)
			}
			return
		}
	}

	use := IdentifierUse{Expr: id, Name: data.Name, Span: span}
	use.Symbol, use.Lookup = table.LookupFrom(w.enclosing, data.Name)
	sym := table.Symbols.Get(use.Symbol)
	if sym == nil {
		use.Lookup = symbols.LookupNotFound
	}
	switch use.Lookup {
	case symbols.LookupNotFound:
		msg := fmt.Sprintf("unresolved identifier '%s' in constant function literal", name)
		w.violation(use, diag.NewError(diag.SemaUnresolvedSymbol, span, msg))
		return
	case symbols.LookupNotYetDeclared:
		use.Kind = sym.Kind
		w.useBeforeDeclaration(use, sym, name)
		return
	}

	owner := table.OwnerKind(sym.Scope)
	use.Kind = sym.Kind
	use.Tag = Classify(sym, owner)
	if w.c.policy.Permits(use.Tag, owner) {
		w.uses = append(w.uses, use)
		return
	}
	msg := fmt.Sprintf("%s '%s' cannot be captured by a constant function literal: %s",
		sym.Kind, name, w.c.policy.rule(use.Tag, owner))
	w.violation(use, diag.NewError(diag.SemaIllegalCapture, span, msg).
		WithNote(sym.Span, fmt.Sprintf("'%s' declared here", name)))
}

func (w *walker) useBeforeDeclaration(use IdentifierUse, sym *symbols.Symbol, name string) {
	msg := fmt.Sprintf("%s '%s' is referenced before its declaration", sym.Kind, name)
	w.violation(use, diag.NewError(diag.SemaUseBeforeDeclaration, use.Span, msg).
		WithNote(sym.Span, "declared here"))
}

// receiver handles `this` and `super`: inside an instance member they denote
// the receiver and are captures of instance state.
func (w *walker) receiver(id ast.ExprID, span source.Span, keyword string) {
	use := IdentifierUse{Expr: id, Keyword: keyword, Span: span}
	if !w.c.table.InstanceContext(w.enclosing.Scope) {
		use.Lookup = symbols.LookupNotFound
		msg := fmt.Sprintf("'%s' is not available outside instance members", keyword)
		w.violation(use, diag.NewError(diag.SemaUnresolvedSymbol, span, msg))
		return
	}
	use.Lookup = symbols.LookupFound
	use.Tag = TagInstanceMember
	msg := fmt.Sprintf("'%s' cannot be captured by a constant function literal: %s",
		keyword, w.c.policy.rule(TagInstanceMember, symbols.ScopeClass))
	w.violation(use, diag.NewError(diag.SemaIllegalCapture, span, msg))
}

func (w *walker) violation(use IdentifierUse, d diag.Diagnostic) {
	w.uses = append(w.uses, use)
	w.bad = append(w.bad, use)
	w.diags = append(w.diags, d)
}
