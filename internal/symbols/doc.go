// Package symbols provides the lexically scoped tables the code generator
// uses to map front-end declarations to IR entities, and the canonical
// naming of tag declarations.
//
// A ScopedTable is a stack of frames. Bindings go into the innermost frame
// and disappear when it is popped; lookups search innermost to outermost.
// Misuse of the frame discipline (Pop without Push, Bind outside any frame)
// is an internal-consistency failure and panics with *InternalError.
package symbols
