package constcheck

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/trace"
)

// CheckOptions tunes CheckAll.
type CheckOptions struct {
	// Jobs bounds the number of workers; <= 0 means GOMAXPROCS.
	Jobs int
}

// Report is the outcome of CheckAll. Verdicts follow the order of the input
// literals; Bag holds every diagnostic sorted by source location.
type Report struct {
	Verdicts []Verdict
	Bag      *diag.Bag
	Invalid  int
}

// Failed reports whether at least one literal is invalid.
func (r Report) Failed() bool { return r.Invalid > 0 }

// CheckAll validates lits concurrently. Each worker owns a diagnostic bag;
// the bags are merged and sorted afterwards, so the order of diagnostics does
// not depend on scheduling. The context is only consulted between chunks.
func CheckAll(ctx context.Context, c *Checker, lits []ast.ExprID, opts CheckOptions) (Report, error) {
	report := Report{
		Verdicts: make([]Verdict, len(lits)),
		Bag:      diag.NewBag(0),
	}
	if len(lits) == 0 {
		return report, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	chunks := split(len(lits), jobs)
	bags := make([]*diag.Bag, len(chunks))

	// Результаты пишутся по уникальным индексам, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(chunks)))
	for i, ch := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(0)
			for idx := ch.lo; idx < ch.hi; idx++ {
				id := strconv.FormatUint(uint64(lits[idx]), 10)
				_, span := trace.Start(gctx, trace.ScopeLiteral, "validate_literal", trace.A("expr", id))
				v := c.Validate(lits[idx])
				span.Set("diagnostics", strconv.Itoa(len(v.Diagnostics))).End(v.Status.String())
				report.Verdicts[idx] = v
				v.Report(diag.BagReporter{Bag: bag})
			}
			bags[i] = bag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for _, bag := range bags {
		report.Bag.Merge(bag)
	}
	report.Bag.Sort()
	for i := range report.Verdicts {
		if !report.Verdicts[i].Valid() {
			report.Invalid++
		}
	}
	return report, nil
}

type chunk struct{ lo, hi int }

// split cuts n items into at most parts contiguous chunks.
func split(n, parts int) []chunk {
	if parts > n {
		parts = n
	}
	size := (n + parts - 1) / parts
	chunks := make([]chunk, 0, parts)
	for lo := 0; lo < n; lo += size {
		chunks = append(chunks, chunk{lo: lo, hi: min(lo+size, n)})
	}
	return chunks
}
