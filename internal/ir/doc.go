// Package ir is the generic operation/region/block representation shared by
// the hl and ll dialects.
//
// An Operation has a dotted name ("dialect.op"), operands, typed results,
// attributes and nested regions. Values keep an exact use list so that
// ReplaceAllUsesWith rewires every operand slot. Dialect packages define
// their own types and attributes on top of the Type and Attribute
// interfaces declared here; equality is structural and goes through the
// printed form.
package ir
