package ir

import "hilo/internal/source"

const (
	FuncOpName   = "func.func"
	FuncTypeAttr = "function_type"
	ArgAttrsAttr = "arg_attrs"
	VariadicAttr = "variadic"

	// ArgNameAttr carries the source name of a parameter in arg_attrs.
	ArgNameAttr = "hl.name"
)

// DeclareFunc creates a func.func with an empty body region. argAttrs may be
// nil.
func DeclareFunc(b *Builder, loc source.Span, name string, ft *FunctionType, argAttrs []DictAttr) *Operation {
	attrs := []NamedAttr{
		{Name: SymNameAttr, Value: StringAttr(name)},
		{Name: FuncTypeAttr, Value: TypeAttr{Type: ft}},
	}
	fn := b.Create(OpSpec{Name: FuncOpName, Loc: loc, Attrs: attrs, Regions: 1})
	if argAttrs != nil {
		SetArgAttrs(fn, argAttrs)
	}
	return fn
}

// BuildFunc creates a func.func with an entry block whose arguments match
// ft.Inputs.
func BuildFunc(b *Builder, loc source.Span, name string, ft *FunctionType, argAttrs []DictAttr) *Operation {
	fn := DeclareFunc(b, loc, name, ft, argAttrs)
	AddEntryBlock(fn)
	return fn
}

// AddEntryBlock turns a declaration into a definition by giving it an entry
// block with one argument per input.
func AddEntryBlock(fn *Operation) *Block {
	entry := fn.Region(0).AddBlock()
	for _, in := range FuncSignature(fn).Inputs {
		entry.AddArg(in)
	}
	return entry
}

// SetArgAttrs replaces the arg_attrs of fn.
func SetArgAttrs(fn *Operation, argAttrs []DictAttr) {
	arr := make(ArrayAttr, len(argAttrs))
	for i, d := range argAttrs {
		arr[i] = d
	}
	fn.SetAttr(ArgAttrsAttr, arr)
}

// FuncSignature returns the function_type of a func.func.
func FuncSignature(fn *Operation) *FunctionType {
	ft, _ := fn.TypeAttr(FuncTypeAttr).(*FunctionType)
	return ft
}

// ArgAttrs returns the per-argument attribute dictionaries. Missing entries
// are returned as nil.
func ArgAttrs(fn *Operation) []DictAttr {
	arr, ok := fn.Attr(ArgAttrsAttr).(ArrayAttr)
	if !ok {
		return nil
	}
	out := make([]DictAttr, len(arr))
	for i, a := range arr {
		out[i], _ = a.(DictAttr)
	}
	return out
}

// EntryBlock returns the first block of fn's body, or nil for declarations.
func EntryBlock(fn *Operation) *Block {
	return Body(fn)
}
