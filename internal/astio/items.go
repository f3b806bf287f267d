package astio

import (
	"gopkg.in/yaml.v3"

	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/source"
)

// kindOf picks the discriminating key of a node mapping.
func kindOf(f fields, kinds ...string) (string, int) {
	found, count := "", 0
	for _, k := range kinds {
		if f.has(k) {
			if count == 0 {
				found = k
			}
			count++
		}
	}
	return found, count
}

func (d *decoder) discriminate(f fields, what string, kinds ...string) (string, bool) {
	kind, count := kindOf(f, kinds...)
	switch {
	case count == 0:
		d.errorf(diag.SynUnknownNode, f.node, "unrecognised %s: expected one of %v", what, kinds)
		return "", false
	case count > 1:
		d.errorf(diag.SynMalformedDoc, f.node, "ambiguous %s: several of %v present", what, kinds)
		return "", false
	}
	return kind, true
}

func (d *decoder) item(n *yaml.Node) ast.ItemID {
	f, ok := d.mapping(n, "declaration")
	if !ok {
		return ast.NoItemID
	}
	kind, ok := d.discriminate(f, "declaration", "var", "function", "class")
	if !ok {
		return ast.NoItemID
	}
	span := d.span(f.node)
	name, nameSpan, ok := d.name(f.get(kind), kind+" declaration")
	if !ok {
		return ast.NoItemID
	}

	var id ast.ItemID
	switch kind {
	case "var":
		d.only(f, "variable declaration", "var", "modifier", "value", "annotations")
		id = d.builder.Items.NewVar(name, nameSpan, span, d.modifier(f), d.expr(f.get("value")))
	case "function":
		d.only(f, "function declaration", "function", "params", "body", "expr", "annotations")
		id = d.builder.Items.NewFn(name, nameSpan, span, d.fnDecl(f, name, nameSpan))
	case "class":
		d.only(f, "class declaration", "class", "extends", "members", "annotations")
		class := ast.ClassItem{}
		if super := f.get("extends"); super != nil {
			class.Super, class.SuperSpan, _ = d.name(super, "superclass")
		}
		for _, m := range d.sequence(f.get("members"), "members") {
			if member := d.member(m); member.IsValid() {
				class.Members = append(class.Members, member)
			}
		}
		id = d.builder.Items.NewClass(name, nameSpan, span, class)
	}
	d.builder.Items.Annotate(id, d.annotations(f)...)
	return id
}

func (d *decoder) member(n *yaml.Node) ast.MemberID {
	f, ok := d.mapping(n, "member")
	if !ok {
		return ast.NoMemberID
	}
	kind, ok := d.discriminate(f, "member", "field", "method", "constructor")
	if !ok {
		return ast.NoMemberID
	}
	name, nameSpan, ok := d.name(f.get(kind), kind)
	if !ok {
		return ast.NoMemberID
	}
	m := ast.Member{
		Span:        d.span(f.node),
		Name:        name,
		NameSpan:    nameSpan,
		Static:      d.flag(f, "static"),
		Annotations: d.annotations(f),
	}
	switch kind {
	case "field":
		d.only(f, "field", "field", "static", "modifier", "value", "annotations")
		m.Kind = ast.MemberField
		m.Modifier = d.modifier(f)
		m.Value = d.expr(f.get("value"))
	case "method":
		d.only(f, "method", "method", "static", "params", "body", "expr", "annotations")
		m.Kind = ast.MemberMethod
		m.Fn = d.fnDecl(f, name, nameSpan)
	case "constructor":
		d.only(f, "constructor", "constructor", "static", "params", "body", "expr", "annotations")
		m.Kind = ast.MemberConstructor
		if m.Static {
			d.errorf(diag.SynMalformedDoc, f.keys["static"], "constructors cannot be static")
			m.Static = false
		}
		m.Fn = d.fnDecl(f, name, nameSpan)
	}
	return d.builder.Items.NewMember(m)
}

func (d *decoder) annotations(f fields) []ast.AnnotationID {
	var ids []ast.AnnotationID
	for _, n := range d.sequence(f.get("annotations"), "annotations") {
		af, ok := d.mapping(n, "annotation")
		if !ok {
			continue
		}
		d.only(af, "annotation", "name", "args")
		name, nameSpan, ok := d.name(af.get("name"), "annotation")
		if !ok {
			continue
		}
		ann := ast.Annotation{Name: name, NameSpan: nameSpan, Span: d.span(af.node)}
		for _, arg := range d.sequence(af.get("args"), "annotation arguments") {
			if e := d.expr(arg); e.IsValid() {
				ann.Args = append(ann.Args, e)
			}
		}
		ids = append(ids, d.builder.Items.NewAnnotation(ann))
	}
	return ids
}

// fnDecl decodes parameters and body of a named function.
func (d *decoder) fnDecl(f fields, name source.StringID, nameSpan source.Span) ast.PayloadID {
	decl := ast.FnDecl{
		Name:     name,
		NameSpan: nameSpan,
		Span:     d.span(f.node),
		Params:   d.params(f.get("params")),
		Body:     d.body(f),
	}
	if decl.Body.Block.IsValid() && decl.Body.Expr.IsValid() {
		d.errorf(diag.SynMalformedDoc, f.keys["expr"], "function has both a block body and an expression body")
		decl.Body.Expr = ast.NoExprID
	}
	return d.builder.Fns.New(decl)
}

func (d *decoder) params(n *yaml.Node) []ast.ParamID {
	var ids []ast.ParamID
	for _, p := range d.sequence(n, "params") {
		p = deref(p)
		if p == nil {
			continue
		}
		if p.Kind == yaml.ScalarNode {
			if name, span, ok := d.name(p, "parameter"); ok {
				ids = append(ids, d.builder.Fns.NewParam(ast.Param{Name: name, Span: span}))
			}
			continue
		}
		f, ok := d.mapping(p, "parameter")
		if !ok {
			continue
		}
		d.only(f, "parameter", "name", "default", "optional", "named")
		name, span, ok := d.name(f.get("name"), "parameter")
		if !ok {
			continue
		}
		param := ast.Param{
			Name:     name,
			Span:     span,
			Default:  d.expr(f.get("default")),
			Optional: d.flag(f, "optional"),
			Named:    d.flag(f, "named"),
		}
		if param.Default.IsValid() {
			param.Optional = true
		}
		ids = append(ids, d.builder.Fns.NewParam(param))
	}
	return ids
}

// body decodes `body` (statement list) and `expr` (expression body). Both
// may be present; callers decide whether that is an error.
func (d *decoder) body(f fields) ast.FnBody {
	var body ast.FnBody
	if n := f.get("body"); n != nil {
		body.Block = d.block(n)
	}
	if n := f.get("expr"); n != nil {
		body.Expr = d.expr(n)
	}
	return body
}
