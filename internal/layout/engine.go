// Package layout computes ABI sizes and alignments of front-end types and
// carries them into the IR as a data-layout specification.
//
// Engine answers layout questions about ast types during code generation.
// Blueprint collects the facts the lowering needs and flushes them once
// into the module as the dlti.dl_spec attribute; Analysis reads that
// attribute back from any operation inside the module.
package layout

import (
	"slices"

	"fortio.org/safecast"

	"hilo/internal/ast"
)

// TypeLayout is a size and alignment in bytes. FieldOffsets is only set
// for records.
type TypeLayout struct {
	Size         int
	Align        int
	FieldOffsets []int
}

func (l TypeLayout) SizeBits() int  { return l.Size * 8 }
func (l TypeLayout) AlignBits() int { return l.Align * 8 }

var opaque = TypeLayout{Align: 1}

// Engine computes layouts for one target and remembers every answer,
// failures included.
type Engine struct {
	Target Target
	memo   map[any]result
}

type result struct {
	layout TypeLayout
	err    *Error
}

func New(target Target) *Engine {
	return &Engine{Target: target, memo: make(map[any]result)}
}

// LayoutOf returns the layout of t with typedefs stripped.
func (e *Engine) LayoutOf(t ast.Type) (TypeLayout, error) {
	w := walk{engine: e, open: make(map[any]int)}
	l, err := w.layout(t)
	if err != nil {
		return l, err
	}
	return l, nil
}

// FieldOffset returns the byte offset of field i of rec. Out of range
// indexes yield zero.
func (e *Engine) FieldOffset(rec *ast.RecordType, i int) (int, error) {
	l, err := e.LayoutOf(rec)
	if err != nil || i < 0 || i >= len(l.FieldOffsets) {
		return 0, err
	}
	return l.FieldOffsets[i], nil
}

// memoKey identifies records and enums by declaration so that separate
// type wrappers share an entry.
func memoKey(t ast.Type) any {
	switch t := t.(type) {
	case *ast.RecordType:
		return t.Decl
	case *ast.EnumType:
		return t.Decl
	}
	return t
}

// walk is one LayoutOf call. open maps the types being computed to their
// position in path, which is how self-containing records are detected.
type walk struct {
	engine *Engine
	open   map[any]int
	path   []string
}

func (w *walk) layout(t ast.Type) (TypeLayout, *Error) {
	t = ast.Canonical(t)
	key := memoKey(t)
	if r, ok := w.engine.memo[key]; ok {
		return r.layout, r.err
	}
	if at, ok := w.open[key]; ok {
		err := &Error{Kind: RecursiveRecord, Type: t.String(), Cycle: append(slices.Clone(w.path[at:]), t.String())}
		w.engine.memo[key] = result{opaque, err}
		return opaque, err
	}

	w.open[key] = len(w.path)
	w.path = append(w.path, t.String())
	l, err := w.compute(t)
	w.path = w.path[:len(w.path)-1]
	delete(w.open, key)

	w.engine.memo[key] = result{l, err}
	return l, err
}

func (w *walk) compute(t ast.Type) (TypeLayout, *Error) {
	switch t := t.(type) {
	case *ast.IntType:
		n := max((t.Bits+7)/8, 1)
		return TypeLayout{Size: n, Align: n}, nil
	case *ast.PointerType:
		return w.engine.Target.pointerLayout(), nil
	case *ast.EnumType:
		if t.Decl == nil || t.Decl.Base == nil {
			return TypeLayout{Size: 4, Align: 4}, nil
		}
		return w.layout(t.Decl.Base)
	case *ast.ArrayType:
		return w.array(t)
	case *ast.RecordType:
		return w.record(t)
	}
	return opaque, &Error{Kind: Incomplete, Type: t.String()}
}

func (w *walk) array(t *ast.ArrayType) (TypeLayout, *Error) {
	if t.Len < 0 {
		return opaque, &Error{Kind: NegativeLength, Type: t.String(), Length: t.Len}
	}
	elem, err := w.layout(t.Elem)
	if err != nil {
		return opaque, err
	}
	n, convErr := safecast.Conv[int](t.Len)
	if convErr != nil {
		n = 0
	}
	align := max(elem.Align, 1)
	return TypeLayout{Size: alignTo(elem.Size, align) * n, Align: align}, nil
}

// record lays fields out in order; union members all start at zero.
func (w *walk) record(t *ast.RecordType) (TypeLayout, *Error) {
	out := TypeLayout{Align: 1, FieldOffsets: make([]int, len(t.Decl.Fields))}
	end := 0
	for i, f := range t.Decl.Fields {
		fl, err := w.layout(f.Type)
		if err != nil {
			return opaque, err
		}
		align := max(fl.Align, 1)
		out.Align = max(out.Align, align)
		if t.Decl.Union {
			end = max(end, fl.Size)
			continue
		}
		out.FieldOffsets[i] = alignTo(end, align)
		end = out.FieldOffsets[i] + fl.Size
	}
	out.Size = alignTo(end, out.Align)
	return out, nil
}

func alignTo(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
