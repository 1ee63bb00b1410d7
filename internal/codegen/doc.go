// Package codegen builds High IR from front-end declarations.
//
// A Context owns the per-category symbol tables, the tag naming cache and the
// data layout blueprint of one translation unit. A Generator walks the
// declaration tree and emits hl operations through it; the blueprint is
// flushed into the module once the unit is complete.
package codegen
