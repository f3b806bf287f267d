package symbols

import (
	"testing"

	"constlit/internal/ast"
	"constlit/internal/astio"
	"constlit/internal/diag"
	"constlit/internal/source"
)

type resolved struct {
	builder *ast.Builder
	result  Result
	bag     *diag.Bag
}

func resolveDoc(t *testing.T, doc string, prelude ...string) resolved {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(ast.Hints{}, nil)
	loadBag := diag.NewBag(0)
	_, fileID, err := astio.DecodeVirtual(fs, "test.yaml", []byte(doc), builder, astio.Options{Reporter: diag.BagReporter{Bag: loadBag}})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loadBag.Len() != 0 {
		t.Fatalf("unexpected load diagnostics: %+v", loadBag.Items())
	}
	bag := diag.NewBag(0)
	res := ResolveFile(builder, fileID, ResolveOptions{
		Reporter: diag.BagReporter{Bag: bag},
		Prelude:  prelude,
		Validate: true,
	})
	return resolved{builder: builder, result: res, bag: bag}
}

// idents returns identifier expressions spelled name, in allocation order.
func (r resolved) idents(name string) []ast.ExprID {
	var ids []ast.ExprID
	for idx := uint32(1); idx <= r.builder.Exprs.Len(); idx++ {
		id := ast.ExprID(idx)
		if data, ok := r.builder.Exprs.Ident(id); ok && r.builder.Name(data.Name) == name {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r resolved) lookup(t *testing.T, expr ast.ExprID) (*Symbol, LookupStatus) {
	t.Helper()
	data, ok := r.builder.Exprs.Ident(expr)
	if !ok {
		t.Fatalf("expression %d is not an identifier", expr)
	}
	id, status := r.result.Table.LookupFrom(r.result.ChainOf(expr), data.Name)
	return r.result.Table.Symbols.Get(id), status
}

func (r resolved) symbolNamed(t *testing.T, name string) *Symbol {
	t.Helper()
	for i := range r.result.Table.Symbols.Data() {
		sym := &r.result.Table.Symbols.Data()[i]
		if r.builder.Name(sym.Name) == name {
			return sym
		}
	}
	t.Fatalf("symbol %q not declared", name)
	return nil
}
