package symbols

import (
	"constlit/internal/ast"
)

func (fr *fileResolver) walkItem(id ast.ItemID) {
	item := fr.builder.Items.Get(id)
	if item == nil {
		return
	}
	fr.walkAnnotations(item.Annotations)
	switch item.Kind {
	case ast.ItemVar:
		if v, ok := fr.builder.Items.Var(id); ok {
			fr.walkExpr(v.Value)
		}
	case ast.ItemFn:
		fr.walkFnDecl(item.Payload, ScopeOwner{Kind: ScopeOwnerItem, Item: id}, false)
	case ast.ItemClass:
		cls, ok := fr.builder.Items.Class(id)
		if !ok {
			return
		}
		symID, ok := fr.result.ItemSymbols[id]
		if !ok {
			return
		}
		info := fr.table.ClassOf(symID)
		if info == nil {
			return
		}
		fr.resolver.Reenter(info.Scope)
		for _, memberID := range cls.Members {
			fr.walkMember(memberID)
		}
		fr.resolver.Leave(info.Scope)
	}
}

func (fr *fileResolver) walkMember(id ast.MemberID) {
	member := fr.builder.Items.Member(id)
	if member == nil {
		return
	}
	fr.walkAnnotations(member.Annotations)
	switch member.Kind {
	case ast.MemberField:
		fr.walkExpr(member.Value)
	case ast.MemberMethod, ast.MemberConstructor:
		instance := !member.Static || member.Kind == ast.MemberConstructor
		fr.walkFnDecl(member.Fn, ScopeOwner{Kind: ScopeOwnerMember, Member: id}, instance)
	}
}

// walkAnnotations visits annotation arguments in the scope that encloses
// the annotated declaration.
func (fr *fileResolver) walkAnnotations(ids []ast.AnnotationID) {
	for _, annID := range ids {
		if ann := fr.builder.Items.Annotation(annID); ann != nil {
			for _, arg := range ann.Args {
				fr.walkExpr(arg)
			}
		}
	}
}

func (fr *fileResolver) owner(o ScopeOwner) ScopeOwner {
	o.SourceFile = fr.sourceFile
	o.ASTFile = fr.fileID
	return o
}

// walkFnDecl handles named functions, methods, constructors and local
// functions. Default values are visited before the parameter scope exists,
// so they cannot see the parameters.
func (fr *fileResolver) walkFnDecl(id ast.PayloadID, owner ScopeOwner, instance bool) {
	decl := fr.builder.Fns.Get(id)
	if decl == nil {
		return
	}
	fr.walkParamDefaults(decl.Params)
	scope := fr.resolver.Enter(ScopeFunction, fr.owner(owner), decl.Span)
	if s := fr.table.Scopes.Get(scope); s != nil {
		s.Instance = instance
	}
	fr.declareParams(decl.Params, SymbolParameter, true)
	fr.walkBody(decl.Body)
	fr.resolver.Leave(scope)
}

func (fr *fileResolver) walkParamDefaults(params []ast.ParamID) {
	for _, paramID := range params {
		if param := fr.builder.Fns.Param(paramID); param != nil {
			fr.walkExpr(param.Default)
		}
	}
}

// declareParams declares parameters in the current scope. Duplicate names of
// const literal parameters are left for the constancy checker to report.
func (fr *fileResolver) declareParams(params []ast.ParamID, kind SymbolKind, report bool) {
	for _, paramID := range params {
		param := fr.builder.Fns.Param(paramID)
		if param == nil {
			continue
		}
		decl := fr.decl()
		decl.Param = paramID
		var (
			symID SymbolID
			ok    bool
		)
		if report {
			symID, ok = fr.resolver.Declare(param.Name, param.Span, kind, 0, decl)
		} else {
			symID, ok = fr.resolver.DeclareQuiet(param.Name, param.Span, kind, 0, decl)
		}
		if ok {
			fr.result.ParamSymbols[paramID] = symID
		}
	}
}

func (fr *fileResolver) walkBody(body ast.FnBody) {
	if body.Block.IsValid() {
		fr.walkStmt(body.Block)
	}
	if body.Expr.IsValid() {
		fr.walkExpr(body.Expr)
	}
}

func (fr *fileResolver) walkStmt(id ast.StmtID) {
	stmt := fr.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	stmtOwner := fr.owner(ScopeOwner{Kind: ScopeOwnerStmt, Stmt: id})
	switch stmt.Kind {
	case ast.StmtBlock:
		block := fr.builder.Stmts.Block(id)
		if block == nil {
			return
		}
		scope := fr.resolver.Enter(ScopeBlock, stmtOwner, stmt.Span)
		for _, child := range block.Stmts {
			fr.walkStmt(child)
		}
		fr.resolver.Leave(scope)
	case ast.StmtVar:
		v := fr.builder.Stmts.Var(id)
		if v == nil {
			return
		}
		// the initializer cannot see the variable it initializes
		fr.walkExpr(v.Value)
		kind := SymbolLocalVariable
		if v.Modifier == ast.VarConst {
			kind = SymbolConstantLocal
		}
		decl := fr.decl()
		decl.Stmt = id
		decl.Init = v.Value
		if symID, ok := fr.resolver.Declare(v.Name, preferSpan(v.NameSpan, stmt.Span), kind, modifierFlags(v.Modifier), decl); ok {
			fr.result.StmtSymbols[id] = symID
		}
	case ast.StmtFn:
		declID, ok := fr.builder.Stmts.Fn(id)
		if !ok {
			return
		}
		fnDecl := fr.builder.Fns.Get(declID)
		if fnDecl == nil {
			return
		}
		decl := fr.decl()
		decl.Stmt = id
		// declared before its body so that it can call itself
		if symID, ok := fr.resolver.Declare(fnDecl.Name, preferSpan(fnDecl.NameSpan, stmt.Span), SymbolLocalFunction, 0, decl); ok {
			fr.result.StmtSymbols[id] = symID
		}
		fr.walkFnDecl(declID, ScopeOwner{Kind: ScopeOwnerStmt, Stmt: id}, false)
	case ast.StmtExpr, ast.StmtReturn:
		fr.walkExpr(fr.builder.Stmts.Value(id))
	case ast.StmtIf:
		s := fr.builder.Stmts.If(id)
		if s == nil {
			return
		}
		fr.walkExpr(s.Cond)
		fr.walkBranch(s.Then)
		fr.walkBranch(s.Else)
	case ast.StmtWhile:
		s := fr.builder.Stmts.While(id)
		if s == nil {
			return
		}
		fr.walkExpr(s.Cond)
		fr.walkBranch(s.Body)
	case ast.StmtForIn:
		s := fr.builder.Stmts.ForIn(id)
		if s == nil {
			return
		}
		fr.walkExpr(s.Iterable)
		scope := fr.resolver.Enter(ScopeBlock, stmtOwner, stmt.Span)
		decl := fr.decl()
		decl.Stmt = id
		flags := SymbolFlags(0)
		if s.Modifier != ast.VarPlain {
			flags = SymbolFlagFinal
		}
		if symID, ok := fr.resolver.Declare(s.Name, preferSpan(s.NameSpan, stmt.Span), SymbolLocalVariable, flags, decl); ok {
			fr.result.StmtSymbols[id] = symID
		}
		fr.walkBranch(s.Body)
		fr.resolver.Leave(scope)
	}
}

// walkBranch gives a non-block branch statement its own scope.
func (fr *fileResolver) walkBranch(id ast.StmtID) {
	stmt := fr.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	if stmt.Kind == ast.StmtBlock {
		fr.walkStmt(id)
		return
	}
	scope := fr.resolver.Enter(ScopeBlock, fr.owner(ScopeOwner{Kind: ScopeOwnerStmt, Stmt: id}), stmt.Span)
	fr.walkStmt(id)
	fr.resolver.Leave(scope)
}

func (fr *fileResolver) walkExpr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	if int(id) < len(fr.result.Chains) {
		fr.result.Chains[id] = fr.resolver.Chain()
	}
	expr := fr.builder.Exprs.Get(id)
	if expr == nil {
		return
	}
	if expr.Kind == ast.ExprFuncLit {
		fr.walkFuncLit(id)
		return
	}
	fr.builder.Exprs.VisitOperands(id, fr.walkExpr)
}

func (fr *fileResolver) walkFuncLit(id ast.ExprID) {
	data, ok := fr.builder.Exprs.FuncLit(id)
	if !ok {
		return
	}
	expr := fr.builder.Exprs.Get(id)
	fr.walkParamDefaults(data.Params)
	kind := ScopeFunctionLiteral
	if data.IsConst {
		kind = ScopeConstFunctionLiteral
		fr.result.ConstLiterals = append(fr.result.ConstLiterals, id)
	}
	scope := fr.resolver.Enter(kind, fr.owner(ScopeOwner{Kind: ScopeOwnerExpr, Expr: id}), expr.Span)
	fr.result.LiteralScopes[id] = scope
	fr.declareParams(data.Params, SymbolFunctionLiteralParameter, !data.IsConst)
	fr.walkBody(data.Body)
	fr.resolver.Leave(scope)
}
