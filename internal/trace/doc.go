// Package trace records what a constlit run spends its time on.
//
// A run is a tree of spans: the driver run, one span per AST document and,
// at the finest level, one span per constant function literal. Events go to a
// text or NDJSON stream (--trace) or into an in-memory Recorder.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "check_file", trace.A("path", p))
//	defer span.End("")
//
// Disabled tracing costs one context lookup per span.
package trace
