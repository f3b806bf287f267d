package constcheck

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"constlit/internal/ast"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

// HoistGroup is a set of structurally identical valid literals that can
// share one static instance.
type HoistGroup struct {
	Fingerprint string
	Literals    []ast.ExprID
	Spans       []source.Span
}

// Fingerprint hashes the canonical structure of a literal. Source positions
// are ignored; names bound by the literal are encoded by spelling and free
// names by the declaration they resolve to.
func (c *Checker) Fingerprint(lit ast.ExprID) (string, error) {
	if _, ok := c.builder.Exprs.FuncLit(lit); !ok {
		return "", fmt.Errorf("expression %d is not a function literal", lit)
	}
	enc := shapeEncoder{c: c, litScope: c.res.LiteralScopes[lit]}
	payload, err := msgpack.Marshal(enc.expr(lit))
	if err != nil {
		return "", fmt.Errorf("encode literal shape: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// HoistGroups groups valid verdicts by fingerprint. Groups with a single
// literal are dropped; the result is ordered by the first literal's position.
func (c *Checker) HoistGroups(verdicts []Verdict) ([]HoistGroup, error) {
	byPrint := make(map[string]*HoistGroup)
	var order []string
	for i := range verdicts {
		v := &verdicts[i]
		if !v.Valid() {
			continue
		}
		fp, err := c.Fingerprint(v.Literal)
		if err != nil {
			return nil, err
		}
		group, ok := byPrint[fp]
		if !ok {
			group = &HoistGroup{Fingerprint: fp}
			byPrint[fp] = group
			order = append(order, fp)
		}
		group.Literals = append(group.Literals, v.Literal)
		group.Spans = append(group.Spans, v.Span)
	}

	groups := make([]HoistGroup, 0, len(order))
	for _, fp := range order {
		if g := byPrint[fp]; len(g.Literals) > 1 {
			groups = append(groups, *g)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Spans[0].Before(groups[j].Spans[0])
	})
	return groups, nil
}

// shapeEncoder turns a literal into nested slices of scalars.
type shapeEncoder struct {
	c        *Checker
	litScope symbols.ScopeID
}

func (e shapeEncoder) name(id source.StringID) string {
	return e.c.table.Name(id)
}

func (e shapeEncoder) params(ids []ast.ParamID) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		p := e.c.builder.Fns.Param(id)
		if p == nil {
			continue
		}
		out = append(out, []any{e.name(p.Name), e.expr(p.Default), p.Optional, p.Named})
	}
	return out
}

func (e shapeEncoder) body(b ast.FnBody) []any {
	return []any{e.stmt(b.Block), e.expr(b.Expr)}
}

func (e shapeEncoder) stmt(id ast.StmtID) any {
	stmts := e.c.builder.Stmts
	stmt := stmts.Get(id)
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		block := stmts.Block(id)
		if block == nil {
			return nil
		}
		out := []any{"block"}
		for _, child := range block.Stmts {
			out = append(out, e.stmt(child))
		}
		return out
	case ast.StmtVar:
		if v := stmts.Var(id); v != nil {
			return []any{"var", uint8(v.Modifier), e.name(v.Name), e.expr(v.Value)}
		}
	case ast.StmtFn:
		declID, ok := stmts.Fn(id)
		if !ok {
			return nil
		}
		if decl := e.c.builder.Fns.Get(declID); decl != nil {
			return []any{"fn", e.name(decl.Name), e.params(decl.Params), e.body(decl.Body)}
		}
	case ast.StmtExpr, ast.StmtReturn:
		return []any{stmt.Kind.String(), e.expr(stmts.Value(id))}
	case ast.StmtIf:
		if s := stmts.If(id); s != nil {
			return []any{"if", e.expr(s.Cond), e.stmt(s.Then), e.stmt(s.Else)}
		}
	case ast.StmtWhile:
		if s := stmts.While(id); s != nil {
			return []any{"while", e.expr(s.Cond), e.stmt(s.Body)}
		}
	case ast.StmtForIn:
		if s := stmts.ForIn(id); s != nil {
			return []any{"for", uint8(s.Modifier), e.name(s.Name), e.expr(s.Iterable), e.stmt(s.Body)}
		}
	}
	return nil
}

func (e shapeEncoder) expr(id ast.ExprID) any {
	exprs := e.c.builder.Exprs
	expr := exprs.Get(id)
	if expr == nil {
		return nil
	}
	kind := expr.Kind.String()
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := exprs.Ident(id)
		return e.ident(id, data.Name)
	case ast.ExprLiteral:
		data, _ := exprs.Literal(id)
		return []any{kind, uint8(data.Kind), data.Value}
	case ast.ExprThis, ast.ExprSuper:
		return []any{kind}
	case ast.ExprBinary:
		data, _ := exprs.Binary(id)
		return []any{kind, data.Op, e.expr(data.Left), e.expr(data.Right)}
	case ast.ExprUnary:
		data, _ := exprs.Unary(id)
		return []any{kind, data.Op, e.expr(data.Operand)}
	case ast.ExprConditional:
		data, _ := exprs.Conditional(id)
		return []any{kind, e.expr(data.Cond), e.expr(data.Then), e.expr(data.Else)}
	case ast.ExprIs:
		data, _ := exprs.Is(id)
		return []any{kind, e.expr(data.Value), e.expr(data.Type), data.Negated}
	case ast.ExprCall:
		data, _ := exprs.Call(id)
		out := []any{kind, e.expr(data.Target)}
		for _, arg := range data.Args {
			out = append(out, []any{e.name(arg.Name), e.expr(arg.Value)})
		}
		return out
	case ast.ExprMember:
		data, _ := exprs.Member(id)
		return []any{kind, e.expr(data.Target), e.name(data.Name)}
	case ast.ExprIndex:
		data, _ := exprs.Index(id)
		return []any{kind, e.expr(data.Target), e.expr(data.Index)}
	case ast.ExprFuncLit:
		data, _ := exprs.FuncLit(id)
		return []any{kind, data.IsConst, e.params(data.Params), e.body(data.Body)}
	case ast.ExprList:
		data, _ := exprs.List(id)
		out := []any{kind, data.IsConst}
		for _, elem := range data.Elements {
			out = append(out, e.expr(elem))
		}
		return out
	case ast.ExprAssign:
		data, _ := exprs.Assign(id)
		return []any{kind, data.Op, e.expr(data.Target), e.expr(data.Value)}
	}
	return []any{kind}
}

// ident encodes bound names by spelling and free names by their declaration,
// so that two literals referring to different shadowed declarations differ.
func (e shapeEncoder) ident(id ast.ExprID, name source.StringID) any {
	table := e.c.table
	if symID, _ := table.LookupFrom(e.c.res.ChainOf(id), name); symID.IsValid() {
		if sym := table.Symbols.Get(symID); sym != nil {
			if e.litScope.IsValid() && table.Contains(e.litScope, sym.Scope) {
				return []any{"bound", e.name(name)}
			}
			return []any{"free", uint32(symID)}
		}
	}
	return []any{"unresolved", e.name(name)}
}
