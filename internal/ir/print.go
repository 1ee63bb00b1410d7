package ir

import (
	"fmt"
	"io"
	"strings"
)

// Print writes a human-readable rendering of op.
func Print(w io.Writer, op *Operation) error {
	var sb strings.Builder
	p := newPrinter(&sb)
	p.op(op, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

type printer struct {
	sb    *strings.Builder
	names map[*Value]string
	next  int
}

func newPrinter(sb *strings.Builder) *printer {
	return &printer{sb: sb, names: make(map[*Value]string)}
}

func (p *printer) name(v *Value) string {
	if v == nil {
		return "<<null>>"
	}
	if n, ok := p.names[v]; ok {
		return n
	}
	return "%<external>"
}

func (p *printer) define(v *Value) string {
	n := fmt.Sprintf("%%%d", p.next)
	p.next++
	p.names[v] = n
	return n
}

func (p *printer) op(op *Operation, depth int) {
	indent := strings.Repeat("  ", depth)
	p.sb.WriteString(indent)
	if len(op.results) > 0 {
		names := make([]string, len(op.results))
		for i, r := range op.results {
			names[i] = p.define(r)
		}
		p.sb.WriteString(strings.Join(names, ", "))
		p.sb.WriteString(" = ")
	}
	p.sb.WriteString(op.name)
	if len(op.operands) > 0 {
		names := make([]string, len(op.operands))
		for i, o := range op.operands {
			names[i] = p.name(o.value)
		}
		p.sb.WriteString("(" + strings.Join(names, ", ") + ")")
	}
	if len(op.attrs) > 0 {
		p.sb.WriteString(" " + DictAttr(op.attrs).String())
	}
	if len(op.operands) > 0 || len(op.results) > 0 {
		in := make([]Type, len(op.operands))
		for i, o := range op.operands {
			if o.value != nil {
				in[i] = o.value.typ
			} else {
				in[i] = None
			}
		}
		p.sb.WriteString(" : " + (&FunctionType{Inputs: in, Results: op.ResultTypes()}).String())
	}
	for _, r := range op.regions {
		p.region(r, depth)
	}
	if op.loc.IsKnown() {
		p.sb.WriteString(" " + op.loc.String())
	}
	p.sb.WriteByte('\n')
}

func (p *printer) region(r *Region, depth int) {
	indent := strings.Repeat("  ", depth)
	p.sb.WriteString(" {\n")
	for i, b := range r.blocks {
		if len(b.args) > 0 || len(r.blocks) > 1 {
			args := make([]string, len(b.args))
			for j, a := range b.args {
				args[j] = p.define(a) + ": " + a.typ.String()
			}
			fmt.Fprintf(p.sb, "%s^bb%d(%s):\n", indent, i, strings.Join(args, ", "))
		}
		for _, op := range b.ops {
			p.op(op, depth+1)
		}
	}
	p.sb.WriteString(indent + "}")
}
