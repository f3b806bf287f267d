package ast

import "constlit/internal/source"

// File is one library: the unit the resolver builds a root scope for.
type File struct {
	Span  source.Span
	Name  string
	Items []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(sp source.Span, name string) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp, Name: name}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
