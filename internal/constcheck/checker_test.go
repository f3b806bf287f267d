package constcheck

import (
	"reflect"
	"strings"
	"testing"

	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/symbols"
)

func TestScenarioDefaultParameterNull(t *testing.T) {
	f := setup(t, `declarations:
  - function: printer
    params:
      - name: f
        default: {fn: [], const: true, expr: null}
    body: []
`)
	expectValid(t, f.only(t))
}

func TestScenarioAnnotationOnField(t *testing.T) {
	f := setup(t, `declarations:
  - class: Model
    members:
      - field: name
        annotations:
          - name: Ensure
            args:
              - fn: [value]
                const: true
                expr:
                  binary: "&&"
                  left: {is: value, type: String}
                  right: {binary: ">", left: {member: value, name: length}, right: 0}
`)
	v := f.only(t)
	expectValid(t, v)
	// String is the only free name
	if len(v.Uses) != 1 || v.Uses[0].Tag != TagTopLevel || f.text(v.Uses[0].Span) != "String" {
		t.Fatalf("unexpected uses %+v", v.Uses)
	}
}

func TestScenarioInstanceMemberCapture(t *testing.T) {
	f := setup(t, `declarations:
  - class: Printer
    members:
      - field: instanceMember
        value: 'value'
      - method: printer
        params:
          - name: f
            default: {fn: [], const: true, expr: instanceMember}
        body:
          - expr: {call: f}
`)
	v := f.only(t)
	if v.Valid() {
		t.Fatalf("expected invalid literal")
	}
	if len(v.Diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %+v", v.Diagnostics)
	}
	d := v.Diagnostics[0]
	if d.Code != diag.SemaIllegalCapture || d.Severity != diag.SevError {
		t.Fatalf("expected illegal capture error, got %v", d.Code)
	}
	if got := f.text(d.Primary); got != "instanceMember" {
		t.Fatalf("diagnostic must point at the reference, got %q", got)
	}
	if !strings.Contains(d.Message, "instance field") {
		t.Fatalf("message must name the declaration kind: %q", d.Message)
	}
	if len(d.Notes) != 1 || f.text(d.Notes[0].Span) != "instanceMember" || d.Notes[0].Span == d.Primary {
		t.Fatalf("expected a note at the field declaration, got %+v", d.Notes)
	}
	if len(v.Violations) != 1 || v.Violations[0].Tag != TagInstanceMember || v.Violations[0].Kind != symbols.SymbolInstanceField {
		t.Fatalf("unexpected violations %+v", v.Violations)
	}
}

func TestScenarioLocalCapture(t *testing.T) {
	f := setup(t, `declarations:
  - function: main
    body:
      - var: local
        value: 'value'
      - function: printer
        params:
          - name: f
            default: {fn: [], const: true, expr: local}
        body: []
`)
	v := f.only(t)
	if v.Valid() || len(v.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v %+v", v.Status, v.Diagnostics)
	}
	d := v.Diagnostics[0]
	if d.Code != diag.SemaIllegalCapture || f.text(d.Primary) != "local" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if !strings.Contains(d.Message, "local variable") || !strings.Contains(d.Message, "constant initializer") {
		t.Fatalf("message must name the kind and the rule: %q", d.Message)
	}
}

func TestLocalFunctionCaptureIsIllegal(t *testing.T) {
	f := setup(t, `declarations:
  - function: main
    body:
      - function: helper
        params: [z]
        expr: z
      - var: f
        modifier: final
        value: {fn: [], const: true, expr: helper}
`)
	v := f.only(t)
	if v.Valid() || len(v.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v %+v", v.Status, v.Diagnostics)
	}
	d := v.Diagnostics[0]
	if d.Code != diag.SemaIllegalCapture || f.text(d.Primary) != "helper" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if v.Violations[0].Kind != symbols.SymbolLocalFunction || v.Violations[0].Tag != TagNonConstantLocal {
		t.Fatalf("unexpected violation %+v", v.Violations[0])
	}
	if !strings.Contains(d.Message, "local function") {
		t.Fatalf("message must name the kind: %q", d.Message)
	}
}

func TestScenarioConstantLocal(t *testing.T) {
	f := setup(t, `declarations:
  - function: main
    body:
      - var: constLocal
        modifier: const
        value: 'value'
      - function: printer
        params:
          - name: f
            default: {fn: [], const: true, expr: constLocal}
        body: []
`)
	v := f.only(t)
	expectValid(t, v)
	if len(v.Uses) != 1 || v.Uses[0].Tag != TagConstantLocal {
		t.Fatalf("expected one constant local use, got %+v", v.Uses)
	}
}

func TestAllowedKindsProduceNoDiagnostics(t *testing.T) {
	f := setup(t, `declarations:
  - var: topLevelVariable
    value: 1
  - function: topLevelFunction
    body: []
  - class: Holder
    members:
      - field: staticField
        static: true
      - method: staticMethod
        static: true
        body: []
      - method: run
        body:
          - var: constantLocal
            modifier: const
            value: 2
          - expr:
              fn: []
              const: true
              body:
                - expr: topLevelVariable
                - expr: {call: topLevelFunction}
                - expr: staticField
                - expr: {call: staticMethod}
                - expr: constantLocal
                - expr: {call: Holder}
                - return: {call: print, args: [laterTopLevel]}
  - var: laterTopLevel
    value: 3
`)
	v := f.only(t)
	expectValid(t, v)
	want := []Tag{TagTopLevel, TagTopLevel, TagStaticMember, TagStaticMember, TagConstantLocal, TagTopLevel, TagTopLevel, TagTopLevel}
	if len(v.Uses) != len(want) {
		t.Fatalf("expected %d uses, got %+v", len(want), v.Uses)
	}
	for i, use := range v.Uses {
		if use.Tag != want[i] || use.Lookup != symbols.LookupFound {
			t.Fatalf("use %d (%s): expected %v, got %v", i, f.text(use.Span), want[i], use.Tag)
		}
	}
}

func TestInstanceMembersYieldOneDiagnosticEach(t *testing.T) {
	f := setup(t, `declarations:
  - class: Base
    members:
      - field: inherited
  - class: Derived
    extends: Base
    members:
      - field: field
      - method: method
        body: []
      - method: run
        body:
          - expr:
              fn: []
              const: true
              body:
                - expr: field
                - expr: {call: method}
                - expr: inherited
                - expr: field
`)
	v := f.only(t)
	if got := codes(v)[diag.SemaIllegalCapture]; got != 4 || len(v.Diagnostics) != 4 {
		t.Fatalf("expected one illegal capture per reference, got %+v", v.Diagnostics)
	}
	for _, use := range v.Violations {
		if use.Tag != TagInstanceMember {
			t.Fatalf("unexpected tag %v for %s", use.Tag, f.text(use.Span))
		}
	}
}

func TestViolationsSortedBySourceLocation(t *testing.T) {
	// the right operand is written first, so traversal order and source
	// order disagree
	f := setup(t, `declarations:
  - function: main
    params: [p]
    body:
      - var: a
        value: 1
      - var: b
        value: 2
      - expr:
          fn: []
          const: true
          body:
            - expr: {binary: "+", right: a, left: b}
            - expr: {call: missing, args: [p]}
`)
	v := f.only(t)
	if len(v.Diagnostics) != 4 {
		t.Fatalf("expected 4 diagnostics, got %+v", v.Diagnostics)
	}
	var names []string
	for i, d := range v.Diagnostics {
		names = append(names, f.text(d.Primary))
		if i > 0 && !v.Diagnostics[i-1].Primary.Before(d.Primary) {
			t.Fatalf("diagnostics out of order: %v", names)
		}
	}
	if strings.Join(names, ",") != "a,b,missing,p" {
		t.Fatalf("unexpected order %v", names)
	}
	for i := 1; i < len(v.Violations); i++ {
		if v.Violations[i].Span.Before(v.Violations[i-1].Span) {
			t.Fatalf("violations out of order")
		}
	}
	want := map[diag.Code]int{diag.SemaIllegalCapture: 3, diag.SemaUnresolvedSymbol: 1}
	if got := codes(v); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUnresolvedAndLaterDeclaredAreDistinct(t *testing.T) {
	f := setup(t, `declarations:
  - function: main
    body:
      - expr: {fn: [], const: true, expr: later}
      - var: later
        modifier: const
        value: 1
      - expr: {fn: [], const: true, expr: nowhere}
      - expr:
          fn: []
          const: true
          body:
            - expr: inner
            - var: inner
              value: 2
`)
	cases := []struct {
		code diag.Code
		name string
	}{
		{diag.SemaUseBeforeDeclaration, "later"},
		{diag.SemaUnresolvedSymbol, "nowhere"},
		{diag.SemaUseBeforeDeclaration, "inner"},
	}
	for i, tc := range cases {
		v := f.literal(t, i)
		if v.Valid() || len(v.Diagnostics) != 1 {
			t.Fatalf("%s: expected one diagnostic, got %+v", tc.name, v.Diagnostics)
		}
		d := v.Diagnostics[0]
		if d.Code != tc.code || f.text(d.Primary) != tc.name {
			t.Fatalf("%s: expected %v, got %v at %q", tc.name, tc.code, d.Code, f.text(d.Primary))
		}
		if d.Code.Category() != diag.CategoryUnresolvedIdentifier {
			t.Fatalf("%s: expected unresolved category", tc.name)
		}
		if tc.code == diag.SemaUseBeforeDeclaration && len(d.Notes) != 1 {
			t.Fatalf("%s: expected a note at the later declaration", tc.name)
		}
	}
}

func TestNestedDeclarationsAreBound(t *testing.T) {
	f := setup(t, `declarations:
  - function: main
    body:
      - var: outer
        value: 1
      - expr:
          fn: [x, {name: y, default: 0}]
          const: true
          body:
            - var: tmp
              value: {binary: "+", left: x, right: y}
            - function: helper
              params: [z]
              expr: {binary: "*", left: z, right: tmp}
            - for: item
              in: {list: [1, 2]}
              do:
                - expr: {call: helper, args: [item]}
            - if: {is: x, type: int}
              then: {var: scoped, value: x}
            - return:
                fn: [w]
                expr: {binary: "+", left: w, right: tmp}
`)
	v := f.only(t)
	expectValid(t, v)
	if len(v.Uses) != 1 || f.text(v.Uses[0].Span) != "int" {
		t.Fatalf("only the type name is free, got %+v", v.Uses)
	}
}

func TestNestedLiterals(t *testing.T) {
	f := setup(t, `declarations:
  - function: main
    body:
      - var: outer
        value:
          fn: [p]
          const: true
          body:
            - var: capturesParam
              value: {fn: [], expr: p}
            - var: nestedConst
              value: {fn: [], const: true, expr: p}
      - var: plain
        value:
          fn: [q]
          body:
            - var: inner
              value: {fn: [], const: true, expr: q}
`)
	lits := f.checker.Literals()
	if len(lits) != 3 {
		t.Fatalf("expected 3 const literals, got %d", len(lits))
	}
	// a non-constant literal inside the constant one may use its parameters
	expectValid(t, f.checker.Validate(lits[0]))

	nested := f.checker.Validate(lits[1])
	if nested.Valid() || len(nested.Violations) != 1 || nested.Violations[0].Tag != TagNonConstantParameter {
		t.Fatalf("nested const literal must not capture the outer parameter, got %+v", nested.Violations)
	}
	if !strings.Contains(nested.Diagnostics[0].Message, "function literals") {
		t.Fatalf("unexpected rule text %q", nested.Diagnostics[0].Message)
	}

	inner := f.checker.Validate(lits[2])
	if inner.Valid() || inner.Violations[0].Kind != symbols.SymbolFunctionLiteralParameter {
		t.Fatalf("capture from an enclosing non-const literal must be rejected, got %+v", inner.Violations)
	}
}

func TestReceiverKeywords(t *testing.T) {
	f := setup(t, `declarations:
  - class: C
    extends: Object
    members:
      - method: inst
        body:
          - expr: {fn: [], const: true, expr: this}
          - expr: {fn: [], const: true, expr: {call: {member: super, name: toString}}}
      - method: stat
        static: true
        body:
          - expr: {fn: [], const: true, expr: this}
  - function: top
    expr: {fn: [], const: true, expr: this}
`)
	want := []diag.Code{diag.SemaIllegalCapture, diag.SemaIllegalCapture, diag.SemaUnresolvedSymbol, diag.SemaUnresolvedSymbol}
	for i, code := range want {
		v := f.literal(t, i)
		if len(v.Diagnostics) != 1 || v.Diagnostics[0].Code != code {
			t.Fatalf("literal %d: expected %v, got %+v", i, code, v.Diagnostics)
		}
		if v.Violations[0].Keyword == "" {
			t.Fatalf("literal %d: expected a keyword use", i)
		}
	}
}

const policyDoc = `declarations:
  - function: main
    body:
      - var: f
        value:
          fn: []
          body:
            - var: k
              modifier: const
              value: 1
            - return: {fn: [], const: true, expr: k}
`

func TestPolicySwitchForConstLocalsOfLiterals(t *testing.T) {
	expectValid(t, setup(t, policyDoc).only(t))

	f := setupWith(t, policyDoc, Policy{AllowConstLocalsInLiterals: false})
	v := f.only(t)
	if v.Valid() || len(v.Diagnostics) != 1 || v.Diagnostics[0].Code != diag.SemaIllegalCapture {
		t.Fatalf("strict policy must reject the capture, got %+v", v.Diagnostics)
	}
	if !strings.Contains(v.Diagnostics[0].Message, "policy") {
		t.Fatalf("unexpected rule text %q", v.Diagnostics[0].Message)
	}
}

func TestConstLocalWithNonConstantInitializer(t *testing.T) {
	f := setupWith(t, `declarations:
  - function: main
    body:
      - var: mutable
        value: 1
      - var: fake
        modifier: const
        value: mutable
      - expr: {fn: [], const: true, expr: fake}
`, DefaultPolicy())
	if f.bag.Count(diag.SemaConstNotConstant) != 1 {
		t.Fatalf("expected the resolver to flag the initializer, got %+v", f.bag.Items())
	}
	v := f.only(t)
	if v.Valid() || v.Violations[0].Tag != TagNonConstantLocal {
		t.Fatalf("expected a non-constant local capture, got %+v", v.Violations)
	}
}

func TestMalformedLiterals(t *testing.T) {
	f := setup(t, `declarations:
  - var: noBody
    value: {fn: [], const: true}
  - var: both
    value: {fn: [], const: true, body: [], expr: 1}
  - var: dup
    value: {fn: [a, b, a], const: true, expr: a}
  - var: plain
    value: 1
`)
	want := []diag.Code{diag.SynMalformedLiteral, diag.SynMalformedLiteral, diag.SynDuplicateParam}
	for i, code := range want {
		v := f.literal(t, i)
		if v.Valid() || len(v.Diagnostics) != 1 || v.Diagnostics[0].Code != code {
			t.Fatalf("literal %d: expected %v, got %+v", i, code, v.Diagnostics)
		}
		if code.Category() != diag.CategoryMalformedLiteral {
			t.Fatalf("literal %d: wrong category", i)
		}
	}
	dup := f.literal(t, 2).Diagnostics[0]
	if len(dup.Notes) != 1 || !dup.Notes[0].Span.Before(dup.Primary) {
		t.Fatalf("expected a note at the first parameter, got %+v", dup.Notes)
	}

	file := f.builder.Files.Get(f.res.File)
	v, _ := f.builder.Items.Var(file.Items[3])
	notLiteral := f.checker.Validate(v.Value)
	if notLiteral.Valid() || notLiteral.Diagnostics[0].Code != diag.SynMalformedLiteral {
		t.Fatalf("validating a non-literal must be malformed, got %+v", notLiteral)
	}
	if missing := f.checker.Validate(ast.NoExprID); missing.Valid() {
		t.Fatalf("validating nothing must fail")
	}
}

func TestValidateIsIdempotentAndCached(t *testing.T) {
	f := setup(t, `declarations:
  - class: C
    members:
      - field: x
      - method: m
        body:
          - expr: {fn: [], const: true, expr: {binary: "+", left: x, right: y}}
`)
	lit := f.checker.Literals()[0]
	first := f.checker.Validate(lit)
	second := f.checker.Validate(lit)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("verdicts differ between calls")
	}
	if got := f.checker.computed.Load(); got != 1 {
		t.Fatalf("expected one computation, got %d", got)
	}

	f.checker.Invalidate(lit)
	third := f.checker.Validate(lit)
	if got := f.checker.computed.Load(); got != 2 {
		t.Fatalf("expected recomputation after invalidation, got %d", got)
	}
	if !reflect.DeepEqual(first, third) {
		t.Fatalf("recomputed verdict differs")
	}

	bag := diag.NewBag(0)
	first.Report(diag.BagReporter{Bag: bag})
	if bag.Len() != 2 || bag.Count(diag.SemaIllegalCapture) != 1 || bag.Count(diag.SemaUnresolvedSymbol) != 1 {
		t.Fatalf("unexpected reported diagnostics %+v", bag.Items())
	}
}
