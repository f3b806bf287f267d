package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelAllowsCoarserScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelRun, ScopeRun, true},
		{LevelRun, ScopeFile, false},
		{LevelFile, ScopeFile, true},
		{LevelFile, ScopeLiteral, false},
		{LevelLiteral, ScopeLiteral, true},
	}
	for _, tc := range cases {
		if got := tc.level.Allows(tc.scope); got != tc.want {
			t.Fatalf("%v.Allows(%v) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if lvl, err := ParseLevel("FILE"); err != nil || lvl != LevelFile {
		t.Fatalf("ParseLevel(FILE) = %v, %v", lvl, err)
	}
	if LevelLiteral.String() != "literal" || LevelOff.String() != "off" {
		t.Fatalf("unexpected level names %q %q", LevelLiteral, LevelOff)
	}
}

func TestSpansNestThroughContext(t *testing.T) {
	rec := NewRecorder(LevelFile, 0)
	ctx := WithTracer(context.Background(), rec)

	ctx, run := Start(ctx, ScopeRun, "check", A("files", "1"))
	fctx, file := Start(ctx, ScopeFile, "check_file", A("path", "a.yaml"))
	lctx, lit := Start(fctx, ScopeLiteral, "validate_literal")
	if lit != nil || lctx != fctx {
		t.Fatalf("literal span must be filtered at LevelFile")
	}
	lit.Set("ignored", "x").End("")
	Mark(fctx, ScopeFile, "cache_hit", "memo")
	file.Set("cached", "true").End("0")
	file.End("again")
	run.End("")

	evs := rec.Events()
	if len(evs) != 5 {
		t.Fatalf("expected 5 events, got %d: %+v", len(evs), evs)
	}
	if evs[1].Parent != run.ID() || evs[2].Parent != file.ID() || evs[2].Kind != KindMark {
		t.Fatalf("unexpected parent chain: %+v", evs)
	}
	end := rec.Named(KindEnd, "check_file")
	if len(end) != 1 {
		t.Fatalf("End must be idempotent, got %d end events", len(end))
	}
	if v, _ := end[0].Attr("cached"); v != "true" {
		t.Fatalf("end event lost attribute: %+v", end[0])
	}
	if v, _ := end[0].Attr("path"); v != "a.yaml" {
		t.Fatalf("end event lost start attribute: %+v", end[0])
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Seq <= evs[i-1].Seq {
			t.Fatalf("sequence numbers not increasing: %+v", evs)
		}
	}
}

func TestRecorderLimitKeepsNewest(t *testing.T) {
	rec := NewRecorder(LevelLiteral, 3)
	for _, name := range []string{"a", "b", "c", "d"} {
		rec.Emit(Event{Kind: KindMark, Scope: ScopeRun, Name: name})
	}
	evs := rec.Events()
	if len(evs) != 3 || evs[0].Name != "b" || evs[2].Name != "d" || rec.Dropped() != 1 {
		t.Fatalf("unexpected events %+v (dropped %d)", evs, rec.Dropped())
	}
}

func TestWriterTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := Open(Config{Level: LevelFile, Format: FormatNDJSON, Writer: &buf})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	ctx, run := Start(ctx, ScopeRun, "check")
	_, file := Start(ctx, ScopeFile, "check_file", A("path", "a.yaml"))
	file.Set("literals", "2").End("ok")
	run.End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind   string            `json:"kind"`
		Scope  string            `json:"scope"`
		Name   string            `json:"name"`
		Parent uint64            `json:"parent"`
		Detail string            `json:"detail"`
		Attrs  map[string]string `json:"attrs"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != "end" || ev.Scope != "file" || ev.Name != "check_file" || ev.Parent != run.ID() ||
		ev.Detail != "ok" || ev.Attrs["literals"] != "2" || ev.Attrs["path"] != "a.yaml" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestTextFormatIndentsFinerScopes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := Open(Config{Level: LevelLiteral, Format: FormatText, Writer: &buf})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	_, lit := Start(ctx, ScopeLiteral, "validate_literal", A("at", "a.yaml:3:7"))
	lit.End("invalid")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], "literal     > validate_literal at=\"a.yaml:3:7\"") {
		t.Fatalf("unexpected begin line %q", lines[0])
	}
	if !strings.Contains(lines[1], "< validate_literal at=\"a.yaml:3:7\" (invalid) ") {
		t.Fatalf("unexpected end line %q", lines[1])
	}
}

func TestOpenPicksFormatByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := Open(Config{Level: LevelRun, Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	_, run := Start(ctx, ScopeRun, "check")
	run.End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(`{"time":`)) {
		t.Fatalf("expected NDJSON output, got %q", data)
	}

	off, err := Open(Config{Level: LevelOff, Path: path})
	if err != nil || off != Nop {
		t.Fatalf("LevelOff must yield Nop, got %v, %v", off, err)
	}
}

func TestNopContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop tracer by default")
	}
	ctx, span := Start(context.Background(), ScopeRun, "x")
	if span != nil || SpanID(ctx) != 0 {
		t.Fatalf("disabled tracing must not open spans")
	}
	span.End("")
	if span.ID() != 0 {
		t.Fatalf("nil span id must be 0")
	}
}
