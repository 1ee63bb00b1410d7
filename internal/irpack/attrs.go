package irpack

import (
	"fmt"

	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/ll"
)

// Attribute kinds.
const (
	attrInt       = "int"
	attrString    = "string"
	attrBool      = "bool"
	attrUnit      = "unit"
	attrType      = "type"
	attrSymbolRef = "symref"
	attrArray     = "array"
	attrDict      = "dict"
	attrCastKind  = "hl.cast_kind"
	attrHLPred    = "hl.predicate"
	attrLLPred    = "ll.predicate"
	attrDLSpec    = "dlti.dl_spec"
)

type attrRecord struct {
	Name  string      `msgpack:"name"`
	Value attrPayload `msgpack:"value"`
}

type attrPayload struct {
	Kind    string        `msgpack:"k"`
	Int     int64         `msgpack:"i,omitempty"`
	Str     string        `msgpack:"s,omitempty"`
	Bool    bool          `msgpack:"b,omitempty"`
	Type    *typeRecord   `msgpack:"t,omitempty"`
	Elems   []attrPayload `msgpack:"elems,omitempty"`
	Dict    []attrRecord  `msgpack:"dict,omitempty"`
	Entries []specRecord  `msgpack:"entries,omitempty"`
}

type specRecord struct {
	Type      typeRecord `msgpack:"t"`
	SizeBits  uint64     `msgpack:"size"`
	AlignBits uint64     `msgpack:"align"`
}

func encodeAttr(a ir.Attribute) (attrPayload, error) {
	withType := func(kind string, t ir.Type) (attrPayload, error) {
		tr, err := encodeType(t)
		if err != nil {
			return attrPayload{}, err
		}
		return attrPayload{Kind: kind, Type: &tr}, nil
	}
	switch a := a.(type) {
	case ir.IntegerAttr:
		p, err := withType(attrInt, a.Type)
		p.Int = a.Value
		return p, err
	case ir.StringAttr:
		return attrPayload{Kind: attrString, Str: string(a)}, nil
	case ir.BoolAttr:
		return attrPayload{Kind: attrBool, Bool: bool(a)}, nil
	case ir.UnitAttr:
		return attrPayload{Kind: attrUnit}, nil
	case ir.TypeAttr:
		return withType(attrType, a.Type)
	case ir.SymbolRefAttr:
		return attrPayload{Kind: attrSymbolRef, Str: string(a)}, nil
	case ir.ArrayAttr:
		p := attrPayload{Kind: attrArray}
		for _, el := range a {
			ep, err := encodeAttr(el)
			if err != nil {
				return attrPayload{}, err
			}
			p.Elems = append(p.Elems, ep)
		}
		return p, nil
	case ir.DictAttr:
		p := attrPayload{Kind: attrDict}
		for _, na := range a {
			ep, err := encodeAttr(na.Value)
			if err != nil {
				return attrPayload{}, err
			}
			p.Dict = append(p.Dict, attrRecord{Name: na.Name, Value: ep})
		}
		return p, nil
	case hl.CastKindAttr:
		return attrPayload{Kind: attrCastKind, Str: string(a.Kind)}, nil
	case hl.PredicateAttr:
		return attrPayload{Kind: attrHLPred, Str: string(a.Pred)}, nil
	case ll.ICmpPredicateAttr:
		return attrPayload{Kind: attrLLPred, Str: string(a.Pred)}, nil
	case layout.SpecAttr:
		p := attrPayload{Kind: attrDLSpec}
		for _, e := range a.Entries {
			tr, err := encodeType(e.Type)
			if err != nil {
				return attrPayload{}, err
			}
			p.Entries = append(p.Entries, specRecord{Type: tr, SizeBits: e.SizeBits, AlignBits: e.AlignBits})
		}
		return p, nil
	default:
		return attrPayload{}, fmt.Errorf("cannot encode attribute %s (%T)", a, a)
	}
}

func decodeAttr(p *attrPayload) (ir.Attribute, error) {
	typ := func() (ir.Type, error) {
		if p.Type == nil {
			return nil, fmt.Errorf("%s attribute without type", p.Kind)
		}
		return decodeType(p.Type)
	}
	switch p.Kind {
	case attrInt:
		t, err := typ()
		if err != nil {
			return nil, err
		}
		return ir.IntegerAttr{Type: t, Value: p.Int}, nil
	case attrString:
		return ir.StringAttr(p.Str), nil
	case attrBool:
		return ir.BoolAttr(p.Bool), nil
	case attrUnit:
		return ir.UnitAttr{}, nil
	case attrType:
		t, err := typ()
		if err != nil {
			return nil, err
		}
		return ir.TypeAttr{Type: t}, nil
	case attrSymbolRef:
		return ir.SymbolRefAttr(p.Str), nil
	case attrArray:
		out := make(ir.ArrayAttr, len(p.Elems))
		for i := range p.Elems {
			a, err := decodeAttr(&p.Elems[i])
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	case attrDict:
		out := make(ir.DictAttr, len(p.Dict))
		for i := range p.Dict {
			a, err := decodeAttr(&p.Dict[i].Value)
			if err != nil {
				return nil, err
			}
			out[i] = ir.NamedAttr{Name: p.Dict[i].Name, Value: a}
		}
		return out, nil
	case attrCastKind:
		return hl.CastKindAttr{Kind: hl.CastKind(p.Str)}, nil
	case attrHLPred:
		return hl.PredicateAttr{Pred: hl.Predicate(p.Str)}, nil
	case attrLLPred:
		return ll.ICmpPredicateAttr{Pred: ll.ICmpPredicate(p.Str)}, nil
	case attrDLSpec:
		spec := layout.SpecAttr{Entries: make([]layout.Entry, len(p.Entries))}
		for i := range p.Entries {
			t, err := decodeType(&p.Entries[i].Type)
			if err != nil {
				return nil, err
			}
			spec.Entries[i] = layout.Entry{Type: t, SizeBits: p.Entries[i].SizeBits, AlignBits: p.Entries[i].AlignBits}
		}
		return spec, nil
	default:
		return nil, fmt.Errorf("unknown attribute kind %q", p.Kind)
	}
}
