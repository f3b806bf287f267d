package astio

import (
	"gopkg.in/yaml.v3"

	"constlit/internal/ast"
	"constlit/internal/diag"
)

// block decodes a statement list into a block statement.
func (d *decoder) block(n *yaml.Node) ast.StmtID {
	n = deref(n)
	var stmts []ast.StmtID
	for _, s := range d.sequence(n, "statement list") {
		if id := d.stmt(s); id.IsValid() {
			stmts = append(stmts, id)
		}
	}
	return d.builder.Stmts.NewBlock(d.span(n), stmts)
}

// branch accepts either a statement list or a single statement.
func (d *decoder) branch(n *yaml.Node) ast.StmtID {
	n = deref(n)
	if n == nil {
		return ast.NoStmtID
	}
	if n.Kind == yaml.SequenceNode {
		return d.block(n)
	}
	return d.stmt(n)
}

var (
	statementKinds     = []string{"var", "function", "expr", "return", "if", "while", "for", "block"}
	localFunctionKinds = []string{"var", "function", "return", "if", "while", "for", "block"}
)

func (d *decoder) stmt(n *yaml.Node) ast.StmtID {
	f, ok := d.mapping(n, "statement")
	if !ok {
		return ast.NoStmtID
	}
	kinds := statementKinds
	if f.has("function") {
		// у локальной функции expr это тело, а не вид оператора
		kinds = localFunctionKinds
	}
	kind, ok := d.discriminate(f, "statement", kinds...)
	if !ok {
		return ast.NoStmtID
	}
	stmts := d.builder.Stmts
	sp := d.span(f.node)
	switch kind {
	case "var":
		d.only(f, "local variable", "var", "modifier", "value")
		name, nameSpan, ok := d.name(f.get("var"), "local variable")
		if !ok {
			return ast.NoStmtID
		}
		return stmts.NewVar(sp, ast.VarStmt{
			Modifier: d.modifier(f),
			Name:     name,
			NameSpan: nameSpan,
			Value:    d.expr(f.get("value")),
		})
	case "function":
		d.only(f, "local function", "function", "params", "body", "expr")
		name, nameSpan, ok := d.name(f.get("function"), "local function")
		if !ok {
			return ast.NoStmtID
		}
		return stmts.NewFn(sp, d.fnDecl(f, name, nameSpan))
	case "expr":
		d.only(f, "expression statement", "expr")
		return stmts.NewExpr(sp, d.required(f, "expr"))
	case "return":
		d.only(f, "return statement", "return")
		value := ast.NoExprID
		if v := f.get("return"); v != nil && !(v.ShortTag() == "!!null" && v.Value == "") {
			value = d.expr(v)
		}
		return stmts.NewReturn(sp, value)
	case "if":
		d.only(f, "if statement", "if", "then", "else")
		if !f.has("then") {
			d.errorf(diag.SynMalformedDoc, f.node, "if statement requires 'then'")
		}
		return stmts.NewIf(sp, ast.IfStmt{
			Cond: d.required(f, "if"),
			Then: d.branch(f.get("then")),
			Else: d.branch(f.get("else")),
		})
	case "while":
		d.only(f, "while statement", "while", "do")
		return stmts.NewWhile(sp, ast.WhileStmt{
			Cond: d.required(f, "while"),
			Body: d.branch(f.get("do")),
		})
	case "for":
		d.only(f, "for-in statement", "for", "modifier", "in", "do")
		name, nameSpan, ok := d.name(f.get("for"), "loop variable")
		if !ok {
			return ast.NoStmtID
		}
		mod := d.modifier(f)
		if mod == ast.VarConst {
			d.errorf(diag.SynMalformedDoc, f.keys["modifier"], "loop variables cannot be const")
			mod = ast.VarFinal
		}
		return stmts.NewForIn(sp, ast.ForInStmt{
			Modifier: mod,
			Name:     name,
			NameSpan: nameSpan,
			Iterable: d.required(f, "in"),
			Body:     d.branch(f.get("do")),
		})
	case "block":
		d.only(f, "block", "block")
		return d.block(f.get("block"))
	}
	return ast.NoStmtID
}
