package ast

import "constlit/internal/source"

// FnBody holds either a block body or an expression body (`=> expr`).
// Both invalid means the function has no body (abstract or external).
type FnBody struct {
	Block StmtID
	Expr  ExprID
}

func (b FnBody) IsEmpty() bool { return !b.Block.IsValid() && !b.Expr.IsValid() }

// FnDecl is shared by top-level functions, methods, constructors and local
// functions. Function literals carry their parameters in FuncLitData.
type FnDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
	Params   []ParamID
	Body     FnBody
}

// Param is a formal parameter; Default is the default value of an optional one.
type Param struct {
	Name     source.StringID
	Span     source.Span
	Default  ExprID
	Optional bool
	Named    bool
}

type Fns struct {
	Decls  *Arena[FnDecl]
	Params *Arena[Param]
}

func NewFns(capHint uint) *Fns {
	return &Fns{
		Decls:  NewArena[FnDecl](capHint),
		Params: NewArena[Param](capHint),
	}
}

func (f *Fns) New(decl FnDecl) PayloadID {
	return PayloadID(f.Decls.Allocate(decl))
}

func (f *Fns) Get(id PayloadID) *FnDecl {
	return f.Decls.Get(uint32(id))
}

func (f *Fns) NewParam(p Param) ParamID {
	return ParamID(f.Params.Allocate(p))
}

func (f *Fns) Param(id ParamID) *Param {
	return f.Params.Get(uint32(id))
}
