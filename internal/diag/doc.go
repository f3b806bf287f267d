// Package diag defines the diagnostic model shared by the loader, the scope
// resolver and the constancy checker.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier with a stable string form (SEM3010).
//     Each code maps onto a Category of the validator's error taxonomy:
//     UnresolvedIdentifier, IllegalCapture or MalformedLiteral.
//   - Message – human oriented text naming the offending declaration kind
//     and the access rule that was violated.
//   - Primary span – the identifier use or node at fault.
//   - Notes – secondary spans such as "declared here".
//
// # Emitting diagnostics
//
// Phases emit through a Reporter, usually via ReportError(...).WithNote(...).Emit().
// BagReporter collects into a Bag. Workers that run in parallel keep one Bag
// each; the driver merges them and calls Bag.Sort so the final order depends
// only on source locations and discovery order, never on scheduling.
//
// Package diag does no formatting beyond FormatShort; rendering lives in
// internal/diagfmt.
package diag
