package irpack

import (
	"fmt"

	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/ll"
)

// Type kinds.
const (
	kindInt      = "int"
	kindIndex    = "index"
	kindNone     = "none"
	kindFunc     = "func"
	kindLValue   = "hl.lvalue"
	kindHLPtr    = "hl.ptr"
	kindHLArray  = "hl.array"
	kindUnranked = "hl.unranked_array"
	kindRecord   = "hl.record"
	kindLLPtr    = "ll.ptr"
	kindLLArray  = "ll.array"
	kindLLVoid   = "ll.void"
	kindLLFunc   = "ll.func"
)

type typeRecord struct {
	Kind     string       `msgpack:"k"`
	Width    int          `msgpack:"w,omitempty"`
	Len      int64        `msgpack:"n,omitempty"`
	Shape    []int64      `msgpack:"shape,omitempty"`
	Name     string       `msgpack:"name,omitempty"`
	Elem     *typeRecord  `msgpack:"elem,omitempty"`
	Params   []typeRecord `msgpack:"params,omitempty"`
	Results  []typeRecord `msgpack:"results,omitempty"`
	Variadic bool         `msgpack:"variadic,omitempty"`
}

func encodeType(t ir.Type) (typeRecord, error) {
	elem := func(kind string, e ir.Type) (typeRecord, error) {
		er, err := encodeType(e)
		if err != nil {
			return typeRecord{}, err
		}
		return typeRecord{Kind: kind, Elem: &er}, nil
	}
	switch t := t.(type) {
	case *ir.IntegerType:
		return typeRecord{Kind: kindInt, Width: t.Width}, nil
	case *ir.IndexType:
		return typeRecord{Kind: kindIndex}, nil
	case *ir.NoneType:
		return typeRecord{Kind: kindNone}, nil
	case *ir.FunctionType:
		rec := typeRecord{Kind: kindFunc}
		var err error
		if rec.Params, err = encodeTypes(t.Inputs); err != nil {
			return typeRecord{}, err
		}
		if rec.Results, err = encodeTypes(t.Results); err != nil {
			return typeRecord{}, err
		}
		return rec, nil
	case *hl.LValueType:
		return elem(kindLValue, t.Elem)
	case *hl.PointerType:
		return elem(kindHLPtr, t.Elem)
	case *hl.ArrayType:
		rec, err := elem(kindHLArray, t.Elem)
		rec.Shape = t.Shape
		return rec, err
	case *hl.UnrankedArrayType:
		return elem(kindUnranked, t.Elem)
	case *hl.RecordType:
		return typeRecord{Kind: kindRecord, Name: t.Name}, nil
	case *ll.PointerType:
		return elem(kindLLPtr, t.Elem)
	case *ll.ArrayType:
		rec, err := elem(kindLLArray, t.Elem)
		rec.Len = t.Len
		return rec, err
	case *ll.VoidType:
		return typeRecord{Kind: kindLLVoid}, nil
	case *ll.FuncType:
		res, err := encodeType(t.Result)
		if err != nil {
			return typeRecord{}, err
		}
		params, err := encodeTypes(t.Params)
		if err != nil {
			return typeRecord{}, err
		}
		return typeRecord{Kind: kindLLFunc, Results: []typeRecord{res}, Params: params, Variadic: t.Variadic}, nil
	default:
		return typeRecord{}, fmt.Errorf("cannot encode type %s (%T)", t, t)
	}
}

func encodeTypes(ts []ir.Type) ([]typeRecord, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	out := make([]typeRecord, len(ts))
	for i, t := range ts {
		r, err := encodeType(t)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func decodeType(rec *typeRecord) (ir.Type, error) {
	elem := func() (ir.Type, error) {
		if rec.Elem == nil {
			return nil, fmt.Errorf("%s without element type", rec.Kind)
		}
		return decodeType(rec.Elem)
	}
	switch rec.Kind {
	case kindInt:
		if rec.Width <= 0 {
			return nil, fmt.Errorf("integer width %d", rec.Width)
		}
		return ir.Int(rec.Width), nil
	case kindIndex:
		return ir.Index, nil
	case kindNone:
		return ir.None, nil
	case kindFunc:
		in, err := decodeTypes(rec.Params)
		if err != nil {
			return nil, err
		}
		out, err := decodeTypes(rec.Results)
		if err != nil {
			return nil, err
		}
		return &ir.FunctionType{Inputs: in, Results: out}, nil
	case kindLValue, kindHLPtr, kindUnranked, kindLLPtr:
		e, err := elem()
		if err != nil {
			return nil, err
		}
		switch rec.Kind {
		case kindLValue:
			return hl.LValue(e), nil
		case kindHLPtr:
			return hl.Pointer(e), nil
		case kindUnranked:
			return &hl.UnrankedArrayType{Elem: e}, nil
		default:
			return ll.Pointer(e), nil
		}
	case kindHLArray:
		e, err := elem()
		if err != nil {
			return nil, err
		}
		return &hl.ArrayType{Shape: rec.Shape, Elem: e}, nil
	case kindRecord:
		return &hl.RecordType{Name: rec.Name}, nil
	case kindLLArray:
		e, err := elem()
		if err != nil {
			return nil, err
		}
		return &ll.ArrayType{Len: rec.Len, Elem: e}, nil
	case kindLLVoid:
		return ll.Void, nil
	case kindLLFunc:
		if len(rec.Results) != 1 {
			return nil, fmt.Errorf("ll function type with %d results", len(rec.Results))
		}
		res, err := decodeType(&rec.Results[0])
		if err != nil {
			return nil, err
		}
		params, err := decodeTypes(rec.Params)
		if err != nil {
			return nil, err
		}
		return &ll.FuncType{Result: res, Params: params, Variadic: rec.Variadic}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", rec.Kind)
	}
}

func decodeTypes(recs []typeRecord) ([]ir.Type, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	out := make([]ir.Type, len(recs))
	for i := range recs {
		t, err := decodeType(&recs[i])
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
