package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"constlit/internal/ast"
	"constlit/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a decoded
// AST document:
// 1) file.Span is non-empty and within file content bounds
// 2) every item span is non-empty and fully contained in file.Span
// 3) every expression span points into the same file and stays inside file.Span
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	// 1) file span sanity
	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	// 2) item spans within file span
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		if err := within(item.Span, f.Span, sf.ID); err != nil {
			return fmt.Errorf("item %d: %w", it, err)
		}
		if item.Span.End <= item.Span.Start {
			return fmt.Errorf("empty item span: %v", item.Span)
		}
	}

	// 3) expressions; builders shared between documents hold foreign ones
	for id := uint32(1); id <= b.Exprs.Len(); id++ {
		expr := b.Exprs.Get(ast.ExprID(id))
		if expr == nil || expr.Span.File != sf.ID {
			continue
		}
		if err := within(expr.Span, f.Span, sf.ID); err != nil {
			return fmt.Errorf("expr %d: %w", id, err)
		}
	}
	return nil
}

func within(sp, outer source.Span, file source.FileID) error {
	if sp.File != file {
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, file)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	if sp.Start < outer.Start || sp.End > outer.End {
		return fmt.Errorf("span %v is outside %v", sp, outer)
	}
	return nil
}
