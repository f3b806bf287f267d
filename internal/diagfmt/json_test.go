package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"constlit/internal/ast"
	"constlit/internal/astio"
	"constlit/internal/diag"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("printer.yaml", []byte(printerSource))

	bag := diag.NewBag(10)
	d := diag.NewError(diag.SemaIllegalCapture, source.Span{File: fileID, Start: 61, End: 75}, "bad capture").
		WithNote(source.Span{File: fileID, Start: 25, End: 32}, "declared here")
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, got %+v", output)
	}

	got := output.Diagnostics[0]
	if got.Severity != "ERROR" || got.Code != "SEM3010" || got.Category != "IllegalCapture" {
		t.Errorf("unexpected header %+v", got)
	}
	if got.Location.File != "printer.yaml" || got.Location.StartByte != 61 || got.Location.EndByte != 75 {
		t.Errorf("unexpected location %+v", got.Location)
	}
	if got.Location.StartLine != 4 || got.Location.StartCol != 16 {
		t.Errorf("Expected 4:16, got %d:%d", got.Location.StartLine, got.Location.StartCol)
	}
	if len(got.Notes) != 1 || got.Notes[0].Location.StartLine != 2 {
		t.Errorf("unexpected notes %+v", got.Notes)
	}
	if output.Literals != nil || output.Hoist != nil {
		t.Errorf("verdict sections must be omitted")
	}
}

func TestJSONMaxAndVerdicts(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("printer.yaml", []byte(printerSource))

	bag := diag.NewBag(0)
	for i := range uint32(3) {
		bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, source.Span{File: fileID, Start: i, End: i + 1}, "unresolved"))
	}
	opts := JSONOpts{
		Max:          2,
		PathMode:     PathModeBasename,
		IncludeNotes: true,
		Literals: []LiteralEntry{
			{Span: source.Span{File: fileID, Start: 61, End: 75}, Status: "invalid", Violations: 1},
		},
		Hoist: []HoistEntry{{
			Fingerprint: "ab",
			Spans:       []source.Span{{File: fileID, Start: 0}, {File: fileID, Start: 25}},
		}},
	}
	output := BuildDiagnosticsOutput(bag, fs, opts)
	if output.Count != 2 {
		t.Fatalf("Expected count=2, got %d", output.Count)
	}
	if output.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("positions must be omitted without IncludePositions")
	}
	if len(output.Literals) != 1 || output.Literals[0].Status != "invalid" || output.Literals[0].Violations != 1 {
		t.Fatalf("unexpected literals %+v", output.Literals)
	}
	if len(output.Hoist) != 1 || len(output.Hoist[0].Locations) != 2 {
		t.Fatalf("unexpected hoist %+v", output.Hoist)
	}
}

func TestSemanticsDump(t *testing.T) {
	fs := source.NewFileSet()
	builder := ast.NewBuilder(ast.Hints{}, nil)
	_, fileID, err := astio.DecodeVirtual(fs, "s.yaml", []byte(`declarations:
  - var: limit
    modifier: const
    value: 1
  - var: f
    value: {fn: [x], const: true, expr: x}
`), builder, astio.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	res := symbols.ResolveFile(builder, fileID, symbols.ResolveOptions{})

	var buf bytes.Buffer
	if err := Semantics(&buf, &SemanticsInput{Builder: builder, Result: &res}); err != nil {
		t.Fatalf("Semantics: %v", err)
	}
	var out SemanticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.ConstLiterals) != 1 {
		t.Fatalf("expected one const literal, got %+v", out.ConstLiterals)
	}
	var limit *SymbolJSON
	for i := range out.Symbols {
		if out.Symbols[i].Name == "limit" {
			limit = &out.Symbols[i]
		}
	}
	if limit == nil {
		t.Fatalf("limit not dumped")
	}
	found := false
	for _, f := range limit.Flags {
		found = found || f == "constant"
	}
	if !found {
		t.Fatalf("limit must be constant, flags %v", limit.Flags)
	}

	if err := Semantics(&buf, &SemanticsInput{}); err == nil {
		t.Fatalf("expected error without a table")
	}
}
