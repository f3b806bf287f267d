package source

import (
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("lib.yaml", []byte("library: a"), 0)
	if id1 != 0 {
		t.Fatalf("expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("lib.yaml", []byte("library: b"), 0)
	if id2 != 1 {
		t.Fatalf("expected second FileID to be 1, got %d", id2)
	}

	latest, ok := fs.GetLatest("lib.yaml")
	if !ok || latest != id2 {
		t.Fatalf("expected latest ID %d, got %d (ok=%v)", id2, latest, ok)
	}
	if got := string(fs.Get(id1).Content); got != "library: a" {
		t.Fatalf("old version lost: %q", got)
	}
	if fs.Get(FileID(7)) != nil {
		t.Fatalf("expected nil for unknown file")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.yaml", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3}, // сам перевод строки относится к первой строке
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Fatalf("offset %d: want %d:%d, got %d:%d", tc.off, tc.line, tc.col, start.Line, start.Col)
		}
	}
}

func TestFileOffsetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.yaml", []byte("имя: x\nvalue: y\n"))
	f := fs.Get(id)

	off := f.Offset(2, 8)
	if got := string(f.Content[off : off+1]); got != "y" {
		t.Fatalf("expected 'y' at 2:8, got %q", got)
	}
	// колонки считаются в рунах, а не в байтах
	off = f.Offset(1, 6)
	if got := string(f.Content[off : off+1]); got != "x" {
		t.Fatalf("expected 'x' at 1:6, got %q", got)
	}
	if got := f.Offset(1, 100); got != 9 {
		t.Fatalf("expected clamp to end of line (9), got %d", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("mem", []byte("first\nsecond")))
	if got := f.GetLine(2); got != "second" {
		t.Fatalf("unexpected line: %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Fatalf("expected empty line, got %q", got)
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/doc.yaml"
	if err := writeFile(path, []byte("\xEF\xBB\xBFa\r\nb")); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
}

func TestSpanOrdering(t *testing.T) {
	a := Span{File: 1, Start: 3, End: 5}
	b := Span{File: 1, Start: 3, End: 9}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %v before %v", a, b)
	}
	if !b.Contains(a) {
		t.Fatalf("expected %v to contain %v", b, a)
	}
	if got := a.Cover(Span{File: 1, Start: 1, End: 4}); got.Start != 1 || got.End != 5 {
		t.Fatalf("unexpected cover %v", got)
	}
}
