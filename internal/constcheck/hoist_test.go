package constcheck

import (
	"context"
	"testing"
)

func TestStructurallyIdenticalLiteralsAreHoistable(t *testing.T) {
	f := setup(t, `declarations:
  - var: limit
    modifier: const
    value: 10
  - function: run
    params: [f]
    body: []
  - function: main
    body:
      - expr: {call: run, args: [{fn: [x], const: true, expr: {binary: "+", left: x, right: limit}}]}
      - expr: {call: run, args: [{fn: [y], const: true, expr: {binary: "+", left: y, right: limit}}]}
      - expr: {call: run, args: [{fn: [x], const: true, expr: {binary: "+", left: x, right: limit}}]}
      - expr: {call: run, args: [{fn: [x], const: true, expr: {binary: "-", left: x, right: limit}}]}
`)
	report, err := CheckAll(context.Background(), f.checker, f.checker.Literals(), CheckOptions{Jobs: 2})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Failed() || report.Bag.Len() != 0 {
		t.Fatalf("all literals must be valid, got %+v", report.Bag.Items())
	}

	lits := f.checker.Literals()
	first, err := f.checker.Fingerprint(lits[0])
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	third, _ := f.checker.Fingerprint(lits[2])
	renamed, _ := f.checker.Fingerprint(lits[1])
	if first != third {
		t.Fatalf("identical literals must share a fingerprint")
	}
	if first == renamed {
		t.Fatalf("bound names are part of the shape")
	}

	groups, err := f.checker.HoistGroups(report.Verdicts)
	if err != nil {
		t.Fatalf("hoist: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Literals) != 2 {
		t.Fatalf("expected one group of two, got %+v", groups)
	}
	if groups[0].Literals[0] != lits[0] || groups[0].Literals[1] != lits[2] {
		t.Fatalf("unexpected group members %+v", groups[0].Literals)
	}
	if groups[0].Fingerprint != first {
		t.Fatalf("group fingerprint mismatch")
	}
}

func TestHoistGroupsSkipInvalidAndDistinguishDeclarations(t *testing.T) {
	f := setup(t, `declarations:
  - var: a
    modifier: const
    value: 1
  - function: main
    body:
      - var: local
        value: 1
      - expr: {fn: [], const: true, expr: local}
      - expr: {fn: [], const: true, expr: local}
      - expr: {fn: [], const: true, expr: a}
      - block:
          - var: a
            modifier: const
            value: 2
          - expr: {fn: [], const: true, expr: a}
`)
	report, err := CheckAll(context.Background(), f.checker, f.checker.Literals(), CheckOptions{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Invalid != 2 {
		t.Fatalf("expected 2 invalid literals, got %d", report.Invalid)
	}
	// both `a` literals are valid but refer to different declarations
	groups, err := f.checker.HoistGroups(report.Verdicts)
	if err != nil {
		t.Fatalf("hoist: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no groups, got %+v", groups)
	}
	if _, err := f.checker.Fingerprint(0); err == nil {
		t.Fatalf("expected an error for a missing literal")
	}
}
