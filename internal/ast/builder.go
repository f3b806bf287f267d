package ast

import (
	"constlit/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder owns every arena of one AST snapshot. Once handed to the resolver
// it is treated as immutable.
type Builder struct {
	Files           *Files
	Items           *Items
	Stmts           *Stmts
	Exprs           *Exprs
	Fns             *Fns
	StringsInterner *source.Interner
}

// NewBuilder creates a builder; a nil interner gets a fresh one.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Items:           NewItems(hints.Items),
		Stmts:           NewStmts(hints.Stmts),
		Exprs:           NewExprs(hints.Exprs),
		Fns:             NewFns(hints.Items),
		StringsInterner: strings,
	}
}

func (b *Builder) NewFile(sp source.Span, name string) FileID {
	return b.Files.New(sp, name)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	if f := b.Files.Get(file); f != nil {
		f.Items = append(f.Items, item)
	}
}

// Name returns the spelling of an interned identifier.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.StringsInterner.Lookup(id)
	return s
}
