package ast

import "constlit/internal/source"

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprLiteral
	ExprThis
	ExprSuper
	ExprBinary
	ExprUnary
	ExprConditional
	ExprIs
	ExprCall
	ExprMember
	ExprIndex
	ExprFuncLit
	ExprList
	ExprAssign
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprLiteral:
		return "literal"
	case ExprThis:
		return "this"
	case ExprSuper:
		return "super"
	case ExprBinary:
		return "binary"
	case ExprUnary:
		return "unary"
	case ExprConditional:
		return "conditional"
	case ExprIs:
		return "is"
	case ExprCall:
		return "call"
	case ExprMember:
		return "member"
	case ExprIndex:
		return "index"
	case ExprFuncLit:
		return "fn-literal"
	case ExprList:
		return "list"
	case ExprAssign:
		return "assign"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type LitKind uint8

const (
	LitNull LitKind = iota
	LitBool
	LitInt
	LitDouble
	LitString
)

type ExprIdentData struct {
	Name source.StringID
}

type ExprLiteralData struct {
	Kind  LitKind
	Value string
}

type ExprBinaryData struct {
	Op    string
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      string
	Operand ExprID
}

type ExprConditionalData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// ExprIsData is `Value is Type` (or `is!` when Negated); Type is an identifier.
type ExprIsData struct {
	Value   ExprID
	Type    ExprID
	Negated bool
}

type CallArg struct {
	Name  source.StringID
	Value ExprID
}

type ExprCallData struct {
	Target ExprID
	Args   []CallArg
}

// ExprMemberData is `Target.Name`; Name is looked up dynamically and is never
// resolved against lexical scopes.
type ExprMemberData struct {
	Target   ExprID
	Name     source.StringID
	NameSpan source.Span
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

// ExprFuncLitData is a function literal; IsConst marks `const (params) => body`.
type ExprFuncLitData struct {
	IsConst bool
	Params  []ParamID
	Body    FnBody
}

type ExprListData struct {
	IsConst  bool
	Elements []ExprID
}

type ExprAssignData struct {
	Op     string
	Target ExprID
	Value  ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[ExprIdentData]
	Literals     *Arena[ExprLiteralData]
	Binaries     *Arena[ExprBinaryData]
	Unaries      *Arena[ExprUnaryData]
	Conditionals *Arena[ExprConditionalData]
	Ises         *Arena[ExprIsData]
	Calls        *Arena[ExprCallData]
	Members      *Arena[ExprMemberData]
	Indices      *Arena[ExprIndexData]
	FuncLits     *Arena[ExprFuncLitData]
	Lists        *Arena[ExprListData]
	Assigns      *Arena[ExprAssignData]
}

// NewExprs creates per-kind arenas preallocated with capHint; 0 means 1<<8.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[ExprIdentData](capHint),
		Literals:     NewArena[ExprLiteralData](capHint),
		Binaries:     NewArena[ExprBinaryData](capHint),
		Unaries:      NewArena[ExprUnaryData](capHint),
		Conditionals: NewArena[ExprConditionalData](capHint),
		Ises:         NewArena[ExprIsData](capHint),
		Calls:        NewArena[ExprCallData](capHint),
		Members:      NewArena[ExprMemberData](capHint),
		Indices:      NewArena[ExprIndexData](capHint),
		FuncLits:     NewArena[ExprFuncLitData](capHint),
		Lists:        NewArena[ExprListData](capHint),
		Assigns:      NewArena[ExprAssignData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Len reports how many expressions were allocated.
func (e *Exprs) Len() uint32 {
	return e.Arena.Len()
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewLiteral(span source.Span, kind LitKind, value string) ExprID {
	return e.new(ExprLiteral, span, e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLiteral)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewThis(span source.Span) ExprID {
	return e.new(ExprThis, span, 0)
}

func (e *Exprs) NewSuper(span source.Span) ExprID {
	return e.new(ExprSuper, span, 0)
}

func (e *Exprs) NewBinary(span source.Span, op string, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op string, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewConditional(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprConditional, span, e.Conditionals.Allocate(ExprConditionalData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) Conditional(id ExprID) (*ExprConditionalData, bool) {
	p, ok := e.payload(id, ExprConditional)
	if !ok {
		return nil, false
	}
	return e.Conditionals.Get(p), true
}

func (e *Exprs) NewIs(span source.Span, value, typ ExprID, negated bool) ExprID {
	return e.new(ExprIs, span, e.Ises.Allocate(ExprIsData{Value: value, Type: typ, Negated: negated}))
}

func (e *Exprs) Is(id ExprID) (*ExprIsData, bool) {
	p, ok := e.payload(id, ExprIs)
	if !ok {
		return nil, false
	}
	return e.Ises.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, target ExprID, args []CallArg) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Target: target, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewMember(span source.Span, target ExprID, name source.StringID, nameSpan source.Span) ExprID {
	return e.new(ExprMember, span, e.Members.Allocate(ExprMemberData{Target: target, Name: name, NameSpan: nameSpan}))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

func (e *Exprs) NewFuncLit(span source.Span, data ExprFuncLitData) ExprID {
	return e.new(ExprFuncLit, span, e.FuncLits.Allocate(data))
}

func (e *Exprs) FuncLit(id ExprID) (*ExprFuncLitData, bool) {
	p, ok := e.payload(id, ExprFuncLit)
	if !ok {
		return nil, false
	}
	return e.FuncLits.Get(p), true
}

func (e *Exprs) NewList(span source.Span, isConst bool, elems []ExprID) ExprID {
	return e.new(ExprList, span, e.Lists.Allocate(ExprListData{IsConst: isConst, Elements: elems}))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprList)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}

func (e *Exprs) NewAssign(span source.Span, op string, target, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Op: op, Target: target, Value: value}))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

// VisitOperands calls fn for every direct sub-expression of id except the
// parameters and body of function literals, which introduce their own scope
// and are walked by callers that track bindings.
func (e *Exprs) VisitOperands(id ExprID, fn func(ExprID)) {
	expr := e.Get(id)
	if expr == nil {
		return
	}
	visit := func(ids ...ExprID) {
		for _, sub := range ids {
			if sub.IsValid() {
				fn(sub)
			}
		}
	}
	switch expr.Kind {
	case ExprBinary:
		if data, ok := e.Binary(id); ok {
			visit(data.Left, data.Right)
		}
	case ExprUnary:
		if data, ok := e.Unary(id); ok {
			visit(data.Operand)
		}
	case ExprConditional:
		if data, ok := e.Conditional(id); ok {
			visit(data.Cond, data.Then, data.Else)
		}
	case ExprIs:
		if data, ok := e.Is(id); ok {
			visit(data.Value, data.Type)
		}
	case ExprCall:
		if data, ok := e.Call(id); ok {
			visit(data.Target)
			for _, arg := range data.Args {
				visit(arg.Value)
			}
		}
	case ExprMember:
		if data, ok := e.Member(id); ok {
			visit(data.Target)
		}
	case ExprIndex:
		if data, ok := e.Index(id); ok {
			visit(data.Target, data.Index)
		}
	case ExprList:
		if data, ok := e.List(id); ok {
			visit(data.Elements...)
		}
	case ExprAssign:
		if data, ok := e.Assign(id); ok {
			visit(data.Target, data.Value)
		}
	}
}
