// Package constcheck validates `const` function literals.
//
// A constant literal may only reference declarations whose value does not
// depend on the call site: top-level declarations, static members and
// constant locals. Parameters of the literal and everything declared inside
// its body are bound by the literal itself and always accessible.
//
// Checker.Validate computes and caches one Verdict per literal; CheckAll runs
// the validation of many literals in parallel and returns the diagnostics in
// source order. HoistGroups groups structurally identical valid literals.
package constcheck
