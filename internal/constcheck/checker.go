package constcheck

import (
	"sync"
	"sync/atomic"

	"constlit/internal/ast"
	"constlit/internal/symbols"
)

// Options configures a Checker.
type Options struct {
	Policy Policy
}

// Checker validates the constant literals of one resolved file. Verdicts are
// computed once per literal and cached; Validate is safe for concurrent use.
type Checker struct {
	builder *ast.Builder
	res     *symbols.Result
	table   *symbols.Table
	policy  Policy

	mu      sync.Mutex
	entries map[ast.ExprID]*entry

	computed atomic.Uint64
}

type entry struct {
	once    sync.Once
	verdict Verdict
}

// New creates a checker over the AST snapshot and resolve result of a file.
// Neither is modified by the checker.
func New(builder *ast.Builder, res *symbols.Result, opts Options) *Checker {
	return &Checker{
		builder: builder,
		res:     res,
		table:   res.Table,
		policy:  opts.Policy,
		entries: make(map[ast.ExprID]*entry),
	}
}

// Literals returns the constant literals of the file, outer before nested.
func (c *Checker) Literals() []ast.ExprID {
	return c.res.ConstLiterals
}

func (c *Checker) Policy() Policy { return c.policy }

// Validate returns the verdict of a constant literal, computing it on first
// use. Passing an expression that is not a constant function literal yields
// an Invalid verdict with a MalformedLiteral diagnostic.
func (c *Checker) Validate(lit ast.ExprID) Verdict {
	e := c.entry(lit)
	e.once.Do(func() {
		c.computed.Add(1)
		e.verdict = c.validate(lit)
	})
	return e.verdict
}

// Invalidate drops the cached verdict of lit; the next Validate recomputes it.
func (c *Checker) Invalidate(lit ast.ExprID) {
	c.mu.Lock()
	delete(c.entries, lit)
	c.mu.Unlock()
}

func (c *Checker) entry(lit ast.ExprID) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[lit]
	if !ok {
		e = &entry{}
		c.entries[lit] = e
	}
	return e
}
