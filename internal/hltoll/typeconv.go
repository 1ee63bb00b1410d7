package hltoll

import (
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/ll"
)

const defaultIndexBits = 64

// TypeConverter maps hl types to ll types. A failed conversion means "this
// rewrite cannot proceed here" and is never an error by itself.
type TypeConverter struct {
	dl *layout.DataLayout
}

// NewTypeConverter returns a converter using dl for index widths. dl may be
// nil, in which case index is 64 bits wide.
func NewTypeConverter(dl *layout.DataLayout) *TypeConverter {
	return &TypeConverter{dl: dl}
}

// Convert returns the ll types t lowers to.
func (tc *TypeConverter) Convert(t ir.Type) ([]ir.Type, bool) {
	switch t := t.(type) {
	case *ir.IntegerType:
		return []ir.Type{t}, true
	case *ir.IndexType:
		return []ir.Type{ir.Int(tc.indexBits())}, true
	case *ir.NoneType:
		return []ir.Type{ll.Void}, true
	case *hl.LValueType:
		return tc.pointerTo(t.Elem)
	case *hl.PointerType:
		return tc.pointerTo(t.Elem)
	case *hl.ArrayType:
		return tc.array(t)
	case *ir.FunctionType:
		ft, _, ok := tc.ConvertSignature(t)
		if !ok {
			return nil, false
		}
		return []ir.Type{ft}, true
	case *ll.PointerType, *ll.ArrayType, *ll.VoidType, *ll.FuncType:
		return []ir.Type{t}, true
	default:
		// hl.UnrankedArrayType and hl.RecordType have no lowering.
		return nil, false
	}
}

// ConvertOne converts t to exactly one type.
func (tc *TypeConverter) ConvertOne(t ir.Type) (ir.Type, bool) {
	out, ok := tc.Convert(t)
	if !ok || len(out) != 1 {
		return nil, false
	}
	return out[0], true
}

// InputMapping locates the converted inputs of one original input.
type InputMapping struct {
	InputNo int
	Size    int
}

// SignatureConversion records how original inputs expand.
type SignatureConversion struct {
	Inputs    []InputMapping
	Converted []ir.Type
}

// ConvertSignature converts a function type. Parameters and results are
// converted through their lvalue element, so they are passed by value.
// Exactly one result is required. Variadic is always false because the
// function type does not carry it.
func (tc *TypeConverter) ConvertSignature(ft *ir.FunctionType) (*ll.FuncType, *SignatureConversion, bool) {
	if len(ft.Results) != 1 {
		return nil, nil, false
	}
	conv := &SignatureConversion{Inputs: make([]InputMapping, len(ft.Inputs))}
	for i, in := range ft.Inputs {
		out, ok := tc.Convert(hl.StripLValue(in))
		if !ok {
			return nil, nil, false
		}
		conv.Inputs[i] = InputMapping{InputNo: len(conv.Converted), Size: len(out)}
		conv.Converted = append(conv.Converted, out...)
	}
	res, ok := tc.ConvertOne(hl.StripLValue(ft.Results[0]))
	if !ok {
		return nil, nil, false
	}
	return &ll.FuncType{Result: res, Params: conv.Converted}, conv, true
}

func (tc *TypeConverter) pointerTo(elem ir.Type) ([]ir.Type, bool) {
	if ir.IsNone(elem) {
		return nil, false
	}
	e, ok := tc.ConvertOne(elem)
	if !ok || ll.IsVoid(e) {
		return nil, false
	}
	return []ir.Type{ll.Pointer(e)}, true
}

// array nests ll arrays so that the outermost declared dimension is the
// outermost array: [a][b]T becomes [a x [b x T]].
func (tc *TypeConverter) array(t *hl.ArrayType) ([]ir.Type, bool) {
	shape, scalar := t.Flatten()
	if len(shape) == 0 {
		return nil, false
	}
	elem, ok := tc.ConvertOne(scalar)
	if !ok || ll.IsVoid(elem) {
		return nil, false
	}
	out := elem
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] < 0 {
			return nil, false
		}
		out = &ll.ArrayType{Len: shape[i], Elem: out}
	}
	return []ir.Type{out}, true
}

func (tc *TypeConverter) indexBits() int {
	if tc.dl == nil {
		return defaultIndexBits
	}
	return tc.dl.IndexBits()
}
