// Package rewrite drives pattern-based dialect conversion.
//
// A PatternSet holds rewrite patterns keyed by the operation name they match.
// A Target decides which operations are legal. ApplyPartialConversion sweeps a
// deep clone of the input in post-order, applying patterns to illegal
// operations until none remain or a sweep makes no progress. The input is
// never modified and partial output is never returned.
package rewrite
