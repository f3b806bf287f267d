package ast

import "constlit/internal/source"

type StmtKind uint8

const (
	StmtBlock StmtKind = iota + 1
	StmtVar
	StmtFn
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtForIn
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "block"
	case StmtVar:
		return "var"
	case StmtFn:
		return "fn"
	case StmtExpr:
		return "expr"
	case StmtReturn:
		return "return"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtForIn:
		return "for-in"
	default:
		return "invalid"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
}

// VarStmt declares a local; it is visible only after its initializer.
type VarStmt struct {
	Modifier VarModifier
	Name     source.StringID
	NameSpan source.Span
	Value    ExprID
}

type ExprStmt struct {
	Value ExprID
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

// ForInStmt binds Name for each element of Iterable inside Body.
type ForInStmt struct {
	Modifier VarModifier
	Name     source.StringID
	NameSpan source.Span
	Iterable ExprID
	Body     StmtID
}

type Stmts struct {
	Arena  *Arena[Stmt]
	Blocks *Arena[BlockStmt]
	Vars   *Arena[VarStmt]
	Exprs  *Arena[ExprStmt]
	Ifs    *Arena[IfStmt]
	Whiles *Arena[WhileStmt]
	ForIns *Arena[ForInStmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:  NewArena[Stmt](capHint),
		Blocks: NewArena[BlockStmt](capHint),
		Vars:   NewArena[VarStmt](capHint),
		Exprs:  NewArena[ExprStmt](capHint),
		Ifs:    NewArena[IfStmt](capHint),
		Whiles: NewArena[WhileStmt](capHint),
		ForIns: NewArena[ForInStmt](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != kind {
		return 0, false
	}
	return uint32(stmt.Payload), true
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(BlockStmt{Stmts: stmts}))
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	if p, ok := s.payload(id, StmtBlock); ok {
		return s.Blocks.Get(p)
	}
	return nil
}

func (s *Stmts) NewVar(span source.Span, v VarStmt) StmtID {
	return s.new(StmtVar, span, s.Vars.Allocate(v))
}

func (s *Stmts) Var(id StmtID) *VarStmt {
	if p, ok := s.payload(id, StmtVar); ok {
		return s.Vars.Get(p)
	}
	return nil
}

// NewFn wraps a local function declaration stored in Fns.
func (s *Stmts) NewFn(span source.Span, decl PayloadID) StmtID {
	return s.new(StmtFn, span, uint32(decl))
}

// Fn returns the FnDecl payload of a local function statement.
func (s *Stmts) Fn(id StmtID) (PayloadID, bool) {
	p, ok := s.payload(id, StmtFn)
	return PayloadID(p), ok
}

func (s *Stmts) NewExpr(span source.Span, value ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(ExprStmt{Value: value}))
}

// NewReturn stores the optional result expression in the ExprStmt arena.
func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Exprs.Allocate(ExprStmt{Value: value}))
}

// Value returns the expression of an expression or return statement.
func (s *Stmts) Value(id StmtID) ExprID {
	stmt := s.Get(id)
	if stmt == nil || (stmt.Kind != StmtExpr && stmt.Kind != StmtReturn) {
		return NoExprID
	}
	if data := s.Exprs.Get(uint32(stmt.Payload)); data != nil {
		return data.Value
	}
	return NoExprID
}

func (s *Stmts) NewIf(span source.Span, v IfStmt) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(v))
}

func (s *Stmts) If(id StmtID) *IfStmt {
	if p, ok := s.payload(id, StmtIf); ok {
		return s.Ifs.Get(p)
	}
	return nil
}

func (s *Stmts) NewWhile(span source.Span, v WhileStmt) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(v))
}

func (s *Stmts) While(id StmtID) *WhileStmt {
	if p, ok := s.payload(id, StmtWhile); ok {
		return s.Whiles.Get(p)
	}
	return nil
}

func (s *Stmts) NewForIn(span source.Span, v ForInStmt) StmtID {
	return s.new(StmtForIn, span, s.ForIns.Allocate(v))
}

func (s *Stmts) ForIn(id StmtID) *ForInStmt {
	if p, ok := s.payload(id, StmtForIn); ok {
		return s.ForIns.Get(p)
	}
	return nil
}
