package constcheck

import (
	"testing"

	"constlit/internal/ast"
	"constlit/internal/astio"
	"constlit/internal/diag"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

type fixture struct {
	fs      *source.FileSet
	src     source.FileID
	builder *ast.Builder
	res     *symbols.Result
	bag     *diag.Bag
	checker *Checker
}

func setupWith(t *testing.T, doc string, policy Policy) fixture {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(ast.Hints{}, nil)
	loadBag := diag.NewBag(0)
	src, fileID, err := astio.DecodeVirtual(fs, "test.yaml", []byte(doc), builder, astio.Options{Reporter: diag.BagReporter{Bag: loadBag}})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loadBag.Len() != 0 {
		t.Fatalf("unexpected load diagnostics: %+v", loadBag.Items())
	}
	bag := diag.NewBag(0)
	res := symbols.ResolveFile(builder, fileID, symbols.ResolveOptions{
		Reporter: diag.BagReporter{Bag: bag},
		Validate: true,
	})
	return fixture{
		fs:      fs,
		src:     src,
		builder: builder,
		res:     &res,
		bag:     bag,
		checker: New(builder, &res, Options{Policy: policy}),
	}
}

func setup(t *testing.T, doc string) fixture {
	t.Helper()
	f := setupWith(t, doc, DefaultPolicy())
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected resolve diagnostics: %+v", f.bag.Items())
	}
	return f
}

func (f fixture) text(sp source.Span) string {
	return string(f.fs.Get(f.src).Content[sp.Start:sp.End])
}

// literal validates the n-th constant literal in outer-first order.
func (f fixture) literal(t *testing.T, n int) Verdict {
	t.Helper()
	lits := f.checker.Literals()
	if n >= len(lits) {
		t.Fatalf("expected at least %d const literals, got %d", n+1, len(lits))
	}
	return f.checker.Validate(lits[n])
}

func (f fixture) only(t *testing.T) Verdict {
	t.Helper()
	if got := len(f.checker.Literals()); got != 1 {
		t.Fatalf("expected exactly one const literal, got %d", got)
	}
	return f.literal(t, 0)
}

func codes(v Verdict) map[diag.Code]int {
	out := make(map[diag.Code]int)
	for _, d := range v.Diagnostics {
		out[d.Code]++
	}
	return out
}

func expectValid(t *testing.T, v Verdict) {
	t.Helper()
	if !v.Valid() || len(v.Diagnostics) != 0 {
		t.Fatalf("expected a valid literal, got %v with %+v", v.Status, v.Diagnostics)
	}
}
