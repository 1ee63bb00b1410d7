package llvm

import (
	"errors"
	"fmt"

	llir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/ll"
)

// ErrUnsupported reports an operation or type the emitter cannot translate.
var ErrUnsupported = errors.New("unsupported in LLVM emission")

var linkages = map[string]enum.Linkage{
	"":                 enum.LinkageNone,
	ll.LinkageExternal: enum.LinkageExternal,
	"internal":         enum.LinkageInternal,
	"private":          enum.LinkagePrivate,
}

var callingConvs = map[string]enum.CallingConv{
	"":        enum.CallingConvNone,
	ll.CConvC: enum.CallingConvC,
	"fastcc":  enum.CallingConvFast,
}

type emitter struct {
	mod   *llir.Module
	funcs map[string]*llir.Func
}

// Emit translates mod, a builtin.module holding ll.func operations, into an
// LLVM module for target.
func Emit(mod *ir.Operation, target layout.Target) (*llir.Module, error) {
	if mod == nil || mod.Name() != ir.ModuleOpName {
		return nil, fmt.Errorf("%w: expected a %s", ErrUnsupported, ir.ModuleOpName)
	}
	if target.Triple == "" {
		target = layout.X86_64LinuxGNU()
	}
	e := &emitter{mod: llir.NewModule(), funcs: make(map[string]*llir.Func)}
	e.mod.TargetTriple = target.Triple

	body := ir.Body(mod)
	if body == nil {
		return e.mod, nil
	}
	var funcs []*ir.Operation
	for _, op := range body.Ops() {
		switch op.Name() {
		case ll.FuncOp:
			if err := e.declare(op); err != nil {
				return nil, err
			}
			funcs = append(funcs, op)
		case hl.TypedefOp:
		default:
			return nil, fmt.Errorf("%w: %s at %s", ErrUnsupported, op.Name(), op.Loc())
		}
	}
	for _, op := range funcs {
		if err := e.define(op); err != nil {
			return nil, fmt.Errorf("function %s: %w", ir.SymbolName(op), err)
		}
	}
	return e.mod, nil
}

// EmitString returns the textual LLVM assembly of mod.
func EmitString(mod *ir.Operation, target layout.Target) (string, error) {
	m, err := Emit(mod, target)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// declare creates the LLVM function header so that calls can refer to any
// function regardless of order.
func (e *emitter) declare(op *ir.Operation) error {
	name := ir.SymbolName(op)
	if _, dup := e.funcs[name]; dup {
		return fmt.Errorf("duplicate function %q", name)
	}
	ft := ll.FuncTypeOf(op)
	if ft == nil {
		return fmt.Errorf("function %q has no type", name)
	}
	ret, err := llvmType(ft.Result)
	if err != nil {
		return err
	}
	attrs := ir.ArgAttrs(op)
	params := make([]*llir.Param, len(ft.Params))
	for i, p := range ft.Params {
		pt, err := llvmType(p)
		if err != nil {
			return err
		}
		params[i] = llir.NewParam(paramName(attrs, i), pt)
	}
	f := e.mod.NewFunc(name, ret, params...)
	f.Sig.Variadic = ft.Variadic

	linkage, ok := linkages[op.StringAttr(ll.LinkageAttr)]
	if !ok {
		return fmt.Errorf("%w: linkage %q", ErrUnsupported, op.StringAttr(ll.LinkageAttr))
	}
	cconv, ok := callingConvs[op.StringAttr(ll.CConvAttr)]
	if !ok {
		return fmt.Errorf("%w: calling convention %q", ErrUnsupported, op.StringAttr(ll.CConvAttr))
	}
	f.Linkage, f.CallingConv = linkage, cconv
	e.funcs[name] = f
	return nil
}

func paramName(attrs []ir.DictAttr, i int) string {
	if i >= len(attrs) {
		return ""
	}
	if s, ok := attrs[i].Get(ir.ArgNameAttr); ok {
		if name, ok := s.(ir.StringAttr); ok {
			return string(name)
		}
	}
	return ""
}
