// Package irpack stores IR modules as msgpack snapshots.
//
// A snapshot starts with a header naming the payload format as a semantic
// version; readers accept any 1.x payload. Operations are written in
// definition order and values are referred to by their position in that
// order, so identity survives a round trip without explicit ids.
package irpack
