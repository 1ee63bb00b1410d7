// Package diag is the diagnostic model shared by code generation, lowering
// and the driver.
//
// Producers report through a Reporter. BagReporter collects into a bounded
// Bag and DedupReporter drops repeats before forwarding. Rendering for
// humans and tools lives in diagfmt; Format here is the compact one-line
// form used in errors and tests.
package diag
