package constcheck

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"constlit/internal/diag"
)

// manyLiteralsDoc declares n methods, each holding one constant literal that
// captures an instance field and a parameter.
func manyLiteralsDoc(n int) string {
	var sb strings.Builder
	sb.WriteString("declarations:\n  - class: Wide\n    members:\n      - field: state\n")
	for i := range n {
		fmt.Fprintf(&sb, "      - method: m%d\n", i)
		sb.WriteString("        params: [arg]\n")
		sb.WriteString("        body:\n")
		sb.WriteString("          - expr: {fn: [], const: true, expr: {binary: \"+\", left: state, right: arg}}\n")
		sb.WriteString("          - expr: {fn: [], const: true, expr: print}\n")
	}
	return sb.String()
}

func TestCheckAllDeterministicAcrossJobCounts(t *testing.T) {
	const methods = 40
	doc := manyLiteralsDoc(methods)

	var baseline []diag.Diagnostic
	for _, jobs := range []int{1, 3, 8, 0} {
		f := setup(t, doc)
		report, err := CheckAll(context.Background(), f.checker, f.checker.Literals(), CheckOptions{Jobs: jobs})
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		if report.Invalid != methods || !report.Failed() {
			t.Fatalf("jobs=%d: expected %d invalid literals, got %d", jobs, methods, report.Invalid)
		}
		if report.Bag.Len() != 2*methods {
			t.Fatalf("jobs=%d: expected %d diagnostics, got %d", jobs, 2*methods, report.Bag.Len())
		}
		items := report.Bag.Items()
		for i := 1; i < len(items); i++ {
			if items[i].Primary.Before(items[i-1].Primary) {
				t.Fatalf("jobs=%d: diagnostics not sorted at %d", jobs, i)
			}
		}
		for i, lit := range f.checker.Literals() {
			if report.Verdicts[i].Literal != lit {
				t.Fatalf("jobs=%d: verdict %d belongs to another literal", jobs, i)
			}
			if want := i%2 == 1; report.Verdicts[i].Valid() != want {
				t.Fatalf("jobs=%d: literal %d validity %v", jobs, i, report.Verdicts[i].Valid())
			}
		}
		if baseline == nil {
			baseline = append(baseline, items...)
			continue
		}
		if !reflect.DeepEqual(baseline, items) {
			t.Fatalf("jobs=%d: diagnostics differ from the sequential run", jobs)
		}
	}
}

func TestValidateConcurrentCallersShareOneVerdict(t *testing.T) {
	f := setup(t, manyLiteralsDoc(4))
	lits := f.checker.Literals()
	var wg sync.WaitGroup
	results := make([][]Verdict, 8)
	for w := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, lit := range lits {
				results[w] = append(results[w], f.checker.Validate(lit))
			}
		}()
	}
	wg.Wait()
	for w := 1; w < len(results); w++ {
		if !reflect.DeepEqual(results[0], results[w]) {
			t.Fatalf("worker %d saw different verdicts", w)
		}
	}
	if got := f.checker.computed.Load(); got != uint64(len(lits)) {
		t.Fatalf("expected %d computations, got %d", len(lits), got)
	}
}

func TestCheckAllEmptyAndCanceled(t *testing.T) {
	f := setup(t, manyLiteralsDoc(2))
	report, err := CheckAll(context.Background(), f.checker, nil, CheckOptions{})
	if err != nil || report.Failed() || report.Bag.Len() != 0 {
		t.Fatalf("empty input must produce an empty report, got %+v %v", report, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CheckAll(ctx, f.checker, f.checker.Literals(), CheckOptions{Jobs: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSplit(t *testing.T) {
	cases := []struct{ n, parts, chunks int }{
		{1, 8, 1},
		{8, 8, 8},
		{10, 3, 3},
		{9, 4, 3},
	}
	for _, tc := range cases {
		got := split(tc.n, tc.parts)
		if len(got) != tc.chunks {
			t.Fatalf("split(%d, %d): expected %d chunks, got %v", tc.n, tc.parts, tc.chunks, got)
		}
		covered := 0
		for i, ch := range got {
			if i > 0 && ch.lo != got[i-1].hi {
				t.Fatalf("split(%d, %d): gap at %d", tc.n, tc.parts, i)
			}
			covered += ch.hi - ch.lo
		}
		if covered != tc.n {
			t.Fatalf("split(%d, %d): covered %d", tc.n, tc.parts, covered)
		}
	}
}
