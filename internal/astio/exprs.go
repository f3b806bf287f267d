package astio

import (
	"gopkg.in/yaml.v3"

	"constlit/internal/ast"
	"constlit/internal/diag"
)

var exprKinds = []string{
	"ident", "string", "binary", "unary", "cond", "is",
	"call", "member", "index", "fn", "list", "assign",
}

func (d *decoder) expr(n *yaml.Node) ast.ExprID {
	n = deref(n)
	if n == nil {
		return ast.NoExprID
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
		return d.compound(n)
	default:
		d.errorf(diag.SynMalformedDoc, n, "expected an expression")
		return ast.NoExprID
	}
}

func (d *decoder) scalar(n *yaml.Node) ast.ExprID {
	exprs := d.builder.Exprs
	sp := d.span(n)
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return exprs.NewLiteral(sp, ast.LitString, n.Value)
	}
	switch n.ShortTag() {
	case "!!null":
		return exprs.NewLiteral(sp, ast.LitNull, "null")
	case "!!bool":
		return exprs.NewLiteral(sp, ast.LitBool, n.Value)
	case "!!int":
		return exprs.NewLiteral(sp, ast.LitInt, n.Value)
	case "!!float":
		return exprs.NewLiteral(sp, ast.LitDouble, n.Value)
	}
	switch n.Value {
	case "this":
		return exprs.NewThis(sp)
	case "super":
		return exprs.NewSuper(sp)
	}
	name, nameSpan, ok := d.name(n, "identifier")
	if !ok {
		return ast.NoExprID
	}
	return exprs.NewIdent(nameSpan, name)
}

func (d *decoder) compound(n *yaml.Node) ast.ExprID {
	f, ok := d.mapping(n, "expression")
	if !ok {
		return ast.NoExprID
	}
	kind, ok := d.discriminate(f, "expression", exprKinds...)
	if !ok {
		return ast.NoExprID
	}
	exprs := d.builder.Exprs
	sp := d.span(f.node)
	switch kind {
	case "ident":
		d.only(f, "identifier", "ident")
		name, nameSpan, ok := d.name(f.get("ident"), "identifier")
		if !ok {
			return ast.NoExprID
		}
		return exprs.NewIdent(nameSpan, name)
	case "string":
		d.only(f, "string literal", "string")
		return exprs.NewLiteral(sp, ast.LitString, f.get("string").Value)
	case "binary":
		d.only(f, "binary expression", "binary", "left", "right")
		return exprs.NewBinary(sp, f.get("binary").Value, d.required(f, "left"), d.required(f, "right"))
	case "unary":
		d.only(f, "unary expression", "unary", "operand")
		return exprs.NewUnary(sp, f.get("unary").Value, d.required(f, "operand"))
	case "cond":
		d.only(f, "conditional expression", "cond", "then", "else")
		return exprs.NewConditional(sp, d.required(f, "cond"), d.required(f, "then"), d.required(f, "else"))
	case "is":
		d.only(f, "type test", "is", "type", "negated")
		return exprs.NewIs(sp, d.required(f, "is"), d.required(f, "type"), d.flag(f, "negated"))
	case "call":
		d.only(f, "call", "call", "args")
		return exprs.NewCall(sp, d.required(f, "call"), d.args(f.get("args")))
	case "member":
		d.only(f, "member access", "member", "name")
		name, nameSpan, ok := d.name(f.get("name"), "member access")
		if !ok {
			return ast.NoExprID
		}
		return exprs.NewMember(sp, d.required(f, "member"), name, nameSpan)
	case "index":
		d.only(f, "index expression", "index", "at")
		return exprs.NewIndex(sp, d.required(f, "index"), d.required(f, "at"))
	case "fn":
		d.only(f, "function literal", "fn", "const", "body", "expr")
		return exprs.NewFuncLit(sp, ast.ExprFuncLitData{
			IsConst: d.flag(f, "const"),
			Params:  d.params(f.get("fn")),
			Body:    d.body(f),
		})
	case "list":
		d.only(f, "list literal", "list", "const")
		var elems []ast.ExprID
		for _, e := range d.sequence(f.get("list"), "list elements") {
			if id := d.expr(e); id.IsValid() {
				elems = append(elems, id)
			}
		}
		return exprs.NewList(sp, d.flag(f, "const"), elems)
	case "assign":
		d.only(f, "assignment", "assign", "op", "value")
		op := "="
		if o := f.get("op"); o != nil && o.Value != "" {
			op = o.Value
		}
		return exprs.NewAssign(sp, op, d.required(f, "assign"), d.required(f, "value"))
	}
	return ast.NoExprID
}

// required decodes a mandatory sub-expression.
func (d *decoder) required(f fields, key string) ast.ExprID {
	n := f.get(key)
	if n == nil {
		d.errorf(diag.SynMalformedDoc, f.node, "missing '%s'", key)
		return ast.NoExprID
	}
	return d.expr(n)
}

func (d *decoder) args(n *yaml.Node) []ast.CallArg {
	var args []ast.CallArg
	for _, a := range d.sequence(n, "call arguments") {
		a = deref(a)
		if isNamedArg(a) {
			if f, ok := d.mapping(a, "argument"); ok {
				d.only(f, "named argument", "named", "value")
				name, _, ok := d.name(f.get("named"), "named argument")
				if !ok {
					continue
				}
				args = append(args, ast.CallArg{Name: name, Value: d.required(f, "value")})
				continue
			}
		}
		if e := d.expr(a); e.IsValid() {
			args = append(args, ast.CallArg{Value: e})
		}
	}
	return args
}

func isNamedArg(n *yaml.Node) bool {
	if n == nil || n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(n.Content); i += 2 {
		if n.Content[i].Value == "named" {
			return true
		}
	}
	return false
}
