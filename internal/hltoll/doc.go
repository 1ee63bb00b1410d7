// Package hltoll lowers the hl dialect to the ll dialect.
//
// Lowering is a partial conversion: every hl operation except hl.typedef and
// every func.func must be rewritten, or the whole unit fails. Types are mapped
// by TypeConverter; operations by the patterns returned from Patterns.
package hltoll
