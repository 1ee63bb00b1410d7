// Package llvm translates lowered ll modules into LLVM IR using the llir
// object model. Only the ll dialect is accepted; type-only hl.typedef
// annotations are skipped.
package llvm
