package ast

import (
	"testing"

	"constlit/internal/source"
)

func TestBuilderBuildsConstLiteral(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := b.NewFile(source.Span{}, "main")

	value := b.StringsInterner.Intern("value")
	param := b.Fns.NewParam(Param{Name: value})
	body := b.Exprs.NewIdent(source.Span{Start: 10, End: 15}, value)
	lit := b.Exprs.NewFuncLit(source.Span{Start: 0, End: 15}, ExprFuncLitData{
		IsConst: true,
		Params:  []ParamID{param},
		Body:    FnBody{Expr: body},
	})
	item := b.Items.NewVar(b.StringsInterner.Intern("check"), source.Span{}, source.Span{}, VarConst, lit)
	b.PushItem(file, item)

	data, ok := b.Exprs.FuncLit(lit)
	if !ok || !data.IsConst {
		t.Fatalf("expected const literal payload")
	}
	if _, ok := b.Exprs.Ident(lit); ok {
		t.Fatalf("literal must not decode as identifier")
	}
	if got := b.Name(b.Fns.Param(data.Params[0]).Name); got != "value" {
		t.Fatalf("unexpected param name %q", got)
	}
	if v, ok := b.Items.Var(item); !ok || v.Modifier != VarConst || v.Value != lit {
		t.Fatalf("unexpected var item %+v", v)
	}
	if len(b.Files.Get(file).Items) != 1 {
		t.Fatalf("expected item pushed to file")
	}
}

func TestVisitOperandsSkipsLiteralBodies(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	a := b.Exprs.NewIdent(source.Span{}, b.StringsInterner.Intern("a"))
	inner := b.Exprs.NewIdent(source.Span{}, b.StringsInterner.Intern("inner"))
	lit := b.Exprs.NewFuncLit(source.Span{}, ExprFuncLitData{Body: FnBody{Expr: inner}})
	call := b.Exprs.NewCall(source.Span{}, a, []CallArg{{Value: lit}})

	var seen []ExprID
	b.Exprs.VisitOperands(call, func(id ExprID) { seen = append(seen, id) })
	if len(seen) != 2 || seen[0] != a || seen[1] != lit {
		t.Fatalf("unexpected operands %v", seen)
	}
	seen = nil
	b.Exprs.VisitOperands(lit, func(id ExprID) { seen = append(seen, id) })
	if len(seen) != 0 {
		t.Fatalf("function literal body must not be visited, got %v", seen)
	}
}

func TestStmtAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	v := b.Stmts.NewVar(source.Span{}, VarStmt{Name: b.StringsInterner.Intern("x")})
	if b.Stmts.Block(v) != nil {
		t.Fatalf("var statement must not decode as block")
	}
	ret := b.Stmts.NewReturn(source.Span{}, NoExprID)
	if b.Stmts.Value(ret).IsValid() {
		t.Fatalf("bare return has no value")
	}
	if b.Stmts.Get(StmtID(99)) != nil {
		t.Fatalf("unknown statement must be nil")
	}
}
