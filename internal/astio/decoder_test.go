package astio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/source"
	"constlit/internal/testkit"
)

type decoded struct {
	fs      *source.FileSet
	builder *ast.Builder
	file    ast.FileID
	src     source.FileID
	bag     *diag.Bag
}

func decode(t *testing.T, doc string) decoded {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(0)
	src, file, err := DecodeVirtual(fs, "test.yaml", []byte(doc), builder, Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NoError(t, err)
	return decoded{fs: fs, builder: builder, file: file, src: src, bag: bag}
}

func (d decoded) text(sp source.Span) string {
	content := d.fs.Get(d.src).Content
	return string(content[sp.Start:sp.End])
}

const printerDoc = `library: printer
declarations:
  - var: topLevelVariable
    modifier: const
    value: 1
  - function: topLevelFunction
    params: [a]
    expr: a
  - class: Printer
    members:
      - field: instanceMember
        value: "text"
      - method: printer
        params:
          - name: f
            default: {fn: [], const: true, expr: instanceMember}
        body: []
`

func TestDecodeLibrary(t *testing.T) {
	d := decode(t, printerDoc)
	require.Zero(t, d.bag.Len(), "unexpected diagnostics: %v", d.bag.Items())

	file := d.builder.Files.Get(d.file)
	require.NotNil(t, file)
	assert.Equal(t, "printer", file.Name)
	require.Len(t, file.Items, 3)

	kinds := make([]ast.ItemKind, 0, len(file.Items))
	for _, id := range file.Items {
		kinds = append(kinds, d.builder.Items.Get(id).Kind)
	}
	assert.Equal(t, []ast.ItemKind{ast.ItemVar, ast.ItemFn, ast.ItemClass}, kinds)

	v, ok := d.builder.Items.Var(file.Items[0])
	require.True(t, ok)
	assert.Equal(t, ast.VarConst, v.Modifier)
	lit, ok := d.builder.Exprs.Literal(v.Value)
	require.True(t, ok)
	assert.Equal(t, ast.LitInt, lit.Kind)

	class, ok := d.builder.Items.Class(file.Items[2])
	require.True(t, ok)
	require.Len(t, class.Members, 2)

	field := d.builder.Items.Member(class.Members[0])
	assert.Equal(t, ast.MemberField, field.Kind)
	str, ok := d.builder.Exprs.Literal(field.Value)
	require.True(t, ok)
	assert.Equal(t, ast.LitString, str.Kind)
	assert.Equal(t, "text", str.Value)

	method := d.builder.Items.Member(class.Members[1])
	decl := d.builder.Fns.Get(method.Fn)
	require.Len(t, decl.Params, 1)
	assert.True(t, decl.Body.Block.IsValid())

	param := d.builder.Fns.Param(decl.Params[0])
	assert.True(t, param.Optional)
	fn, ok := d.builder.Exprs.FuncLit(param.Default)
	require.True(t, ok)
	assert.True(t, fn.IsConst)
	assert.Empty(t, fn.Params)

	ident, ok := d.builder.Exprs.Ident(fn.Body.Expr)
	require.True(t, ok)
	assert.Equal(t, "instanceMember", d.builder.Name(ident.Name))
	assert.Equal(t, "instanceMember", d.text(d.builder.Exprs.Get(fn.Body.Expr).Span))
}

func TestDecodeScalars(t *testing.T) {
	d := decode(t, `declarations:
  - function: f
    body:
      - expr: x
      - expr: "x"
      - expr: 2.5
      - expr: true
      - expr: null
      - expr: this
      - expr: super
`)
	require.Zero(t, d.bag.Len())
	file := d.builder.Files.Get(d.file)
	decl := d.builder.Fns.Get(d.builder.Items.Get(file.Items[0]).Payload)
	block := d.builder.Stmts.Block(decl.Body.Block)
	require.Len(t, block.Stmts, 7)

	var kinds []ast.ExprKind
	var lits []ast.LitKind
	for _, s := range block.Stmts {
		e := d.builder.Stmts.Value(s)
		kinds = append(kinds, d.builder.Exprs.Get(e).Kind)
		if l, ok := d.builder.Exprs.Literal(e); ok {
			lits = append(lits, l.Kind)
		}
	}
	assert.Equal(t, []ast.ExprKind{
		ast.ExprIdent, ast.ExprLiteral, ast.ExprLiteral, ast.ExprLiteral,
		ast.ExprLiteral, ast.ExprThis, ast.ExprSuper,
	}, kinds)
	assert.Equal(t, []ast.LitKind{ast.LitString, ast.LitDouble, ast.LitBool, ast.LitNull}, lits)
}

func TestDecodeStatements(t *testing.T) {
	d := decode(t, `declarations:
  - function: main
    body:
      - var: xs
        modifier: final
        value: {list: [1, 2], const: true}
      - for: x
        in: xs
        do:
          - if: {binary: ">", left: x, right: 1}
            then: {return: x}
            else: [{expr: {call: print, args: [x, {named: sep, value: "-"}]}}]
      - while: false
        do: []
      - function: helper
        params: [{name: n, named: true}]
        expr: {member: n, name: length}
      - return:
`)
	require.Zero(t, d.bag.Len(), "unexpected diagnostics: %v", d.bag.Items())
	file := d.builder.Files.Get(d.file)
	decl := d.builder.Fns.Get(d.builder.Items.Get(file.Items[0]).Payload)
	block := d.builder.Stmts.Block(decl.Body.Block)
	require.Len(t, block.Stmts, 5)

	v := d.builder.Stmts.Var(block.Stmts[0])
	require.NotNil(t, v)
	assert.Equal(t, ast.VarFinal, v.Modifier)
	list, ok := d.builder.Exprs.List(v.Value)
	require.True(t, ok)
	assert.True(t, list.IsConst)
	assert.Len(t, list.Elements, 2)

	loop := d.builder.Stmts.ForIn(block.Stmts[1])
	require.NotNil(t, loop)
	body := d.builder.Stmts.Block(loop.Body)
	require.Len(t, body.Stmts, 1)
	branch := d.builder.Stmts.If(body.Stmts[0])
	require.NotNil(t, branch)
	assert.Equal(t, ast.StmtReturn, d.builder.Stmts.Get(branch.Then).Kind)
	assert.Equal(t, ast.StmtBlock, d.builder.Stmts.Get(branch.Else).Kind)

	elseBlock := d.builder.Stmts.Block(branch.Else)
	call, ok := d.builder.Exprs.Call(d.builder.Stmts.Value(elseBlock.Stmts[0]))
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	assert.Equal(t, "sep", d.builder.Name(call.Args[1].Name))

	fnID, ok := d.builder.Stmts.Fn(block.Stmts[3])
	require.True(t, ok)
	helper := d.builder.Fns.Get(fnID)
	assert.True(t, d.builder.Fns.Param(helper.Params[0]).Named)
	_, ok = d.builder.Exprs.Member(helper.Body.Expr)
	assert.True(t, ok)

	assert.False(t, d.builder.Stmts.Value(block.Stmts[4]).IsValid())
}

func TestDecodeStructuralProblems(t *testing.T) {
	d := decode(t, `declarations:
  - var: ok
    colour: red
  - function: 
  - var: a
    function: b
  - something: else
  - class: C
    members:
      - constructor: C
        static: true
`)
	codes := make(map[diag.Code]int)
	for _, item := range d.bag.Items() {
		codes[item.Code]++
	}
	assert.Equal(t, 2, codes[diag.SynUnknownNode])
	assert.Equal(t, 1, codes[diag.SynMissingName])
	assert.Equal(t, 2, codes[diag.SynMalformedDoc])

	file := d.builder.Files.Get(d.file)
	assert.Len(t, file.Items, 2)
}

func TestDecodeLocalFunctionWithExpressionBody(t *testing.T) {
	d := decode(t, `declarations:
  - function: main
    body:
      - function: helper
        params: [z]
        expr: z
      - var: x
        function: y
`)
	require.Equal(t, 1, d.bag.Len(), "unexpected diagnostics: %v", d.bag.Items())
	assert.Contains(t, d.bag.Items()[0].Message, "ambiguous statement")

	file := d.builder.Files.Get(d.file)
	decl := d.builder.Fns.Get(d.builder.Items.Get(file.Items[0]).Payload)
	block := d.builder.Stmts.Block(decl.Body.Block)
	require.Len(t, block.Stmts, 1)
	fnID, ok := d.builder.Stmts.Fn(block.Stmts[0])
	require.True(t, ok)
	helper := d.builder.Fns.Get(fnID)
	assert.Equal(t, "helper", d.builder.Name(helper.Name))
	require.True(t, helper.Body.Expr.IsValid())
	assert.False(t, helper.Body.Block.IsValid())
	assert.Equal(t, "z", d.text(d.builder.Exprs.Get(helper.Body.Expr).Span))
}

func TestDecodeBodyConflict(t *testing.T) {
	d := decode(t, `declarations:
  - function: f
    body: []
    expr: 1
  - var: g
    value: {fn: [], const: true, body: [], expr: 1}
`)
	require.Equal(t, 1, d.bag.Count(diag.SynMalformedDoc))

	file := d.builder.Files.Get(d.file)
	decl := d.builder.Fns.Get(d.builder.Items.Get(file.Items[0]).Payload)
	assert.False(t, decl.Body.Expr.IsValid())

	v, _ := d.builder.Items.Var(file.Items[1])
	fn, ok := d.builder.Exprs.FuncLit(v.Value)
	require.True(t, ok)
	assert.True(t, fn.Body.Block.IsValid())
	assert.True(t, fn.Body.Expr.IsValid())
}

func TestDecodeErrors(t *testing.T) {
	fs := source.NewFileSet()
	builder := ast.NewBuilder(ast.Hints{}, nil)

	_, _, err := DecodeVirtual(fs, "broken.yaml", []byte("declarations: [\n"), builder, Options{})
	require.Error(t, err)

	_, _, err = DecodeVirtual(fs, "empty.yaml", nil, builder, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDocument))
}

func TestDecodeJSON(t *testing.T) {
	d := decode(t, `{"declarations": [{"var": "answer", "modifier": "const", "value": 42}]}`)
	require.Zero(t, d.bag.Len())
	file := d.builder.Files.Get(d.file)
	require.Len(t, file.Items, 1)
	assert.Equal(t, "answer", d.builder.Name(d.builder.Items.Get(file.Items[0]).Name))
}

func TestDecodedSpansStayInsideDocument(t *testing.T) {
	for name, doc := range map[string]string{"printer": printerDoc, "flow": `{declarations: [{var: v, value: {fn: [a], const: true, expr: a}}]}`} {
		d := decode(t, doc)
		require.NoError(t, testkit.CheckSpanInvariants(d.builder, d.file, d.fs.Get(d.src)), name)
	}
}
