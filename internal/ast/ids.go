// Package ast models the declarations, statements and expressions a C
// front end hands to the mid-end.
//
// Nodes are plain pointers: a *VarDecl or *FunctionDecl is identity-stable
// for the lifetime of the translation unit and is used directly as a map key
// by the code generator's symbol tables. The mid-end never mutates nodes.
//
// Every declaration also carries a DeclID assigned by Builder. IDs start at 1,
// are never reused, and give anonymous declarations a stable numeric identity.
package ast

// DeclID identifies a declaration inside one translation unit.
type DeclID uint32

// NoDeclID marks the absence of a declaration.
const NoDeclID DeclID = 0

// IsValid reports whether the ID refers to an allocated declaration.
func (id DeclID) IsValid() bool { return id != NoDeclID }
