package llvm

import (
	"fmt"

	"fortio.org/safecast"
	lltypes "github.com/llir/llvm/ir/types"

	"hilo/internal/ir"
	"hilo/internal/ll"
)

func llvmType(t ir.Type) (lltypes.Type, error) {
	switch t := t.(type) {
	case *ir.IntegerType:
		bits, err := safecast.Conv[uint64](t.Width)
		if err != nil {
			return nil, fmt.Errorf("integer width %d: %w", t.Width, err)
		}
		return lltypes.NewInt(bits), nil
	case *ll.VoidType:
		return lltypes.Void, nil
	case *ll.PointerType:
		elem, err := llvmType(t.Elem)
		if err != nil {
			return nil, err
		}
		return lltypes.NewPointer(elem), nil
	case *ll.ArrayType:
		elem, err := llvmType(t.Elem)
		if err != nil {
			return nil, err
		}
		n, err := safecast.Conv[uint64](t.Len)
		if err != nil {
			return nil, fmt.Errorf("array length %d: %w", t.Len, err)
		}
		return lltypes.NewArray(n, elem), nil
	case *ll.FuncType:
		ret, err := llvmType(t.Result)
		if err != nil {
			return nil, err
		}
		params := make([]lltypes.Type, len(t.Params))
		for i, p := range t.Params {
			if params[i], err = llvmType(p); err != nil {
				return nil, err
			}
		}
		ft := lltypes.NewFunc(ret, params...)
		ft.Variadic = t.Variadic
		return ft, nil
	default:
		return nil, fmt.Errorf("%w: type %s", ErrUnsupported, t)
	}
}

func intType(t ir.Type) (*lltypes.IntType, error) {
	lt, err := llvmType(t)
	if err != nil {
		return nil, err
	}
	it, ok := lt.(*lltypes.IntType)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an integer type", ErrUnsupported, t)
	}
	return it, nil
}
