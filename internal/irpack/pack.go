package irpack

import (
	"errors"
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/vmihailenco/msgpack/v5"

	"hilo/internal/ir"
	"hilo/internal/source"
)

const (
	// Magic identifies snapshot files.
	Magic = "hilo-ir"
	// Format is the payload version written by Encode.
	Format = "1.0.0"
	// Extension is the conventional snapshot file suffix.
	Extension = ".hlpack"

	supportedFormats = "^1"
)

var (
	ErrNotSnapshot = errors.New("not an IR snapshot")
	ErrFormat      = errors.New("unsupported snapshot format")
	ErrCorrupt     = errors.New("corrupt snapshot")
)

// Header precedes every snapshot.
type Header struct {
	Magic  string `msgpack:"magic"`
	Format string `msgpack:"format"`
}

type snapshot struct {
	Header Header   `msgpack:"header"`
	Root   opRecord `msgpack:"root"`
}

type spanRecord struct {
	File      uint32 `msgpack:"f,omitempty"`
	StartLine uint32 `msgpack:"sl,omitempty"`
	StartCol  uint32 `msgpack:"sc,omitempty"`
	EndLine   uint32 `msgpack:"el,omitempty"`
	EndCol    uint32 `msgpack:"ec,omitempty"`
}

type opRecord struct {
	Name     string          `msgpack:"name"`
	Loc      spanRecord      `msgpack:"loc"`
	Operands []uint32        `msgpack:"operands,omitempty"`
	Results  []typeRecord    `msgpack:"results,omitempty"`
	Attrs    []attrRecord    `msgpack:"attrs,omitempty"`
	Regions  [][]blockRecord `msgpack:"regions,omitempty"`
}

type blockRecord struct {
	Args []typeRecord `msgpack:"args,omitempty"`
	Ops  []opRecord   `msgpack:"ops,omitempty"`
}

// CheckFormat reports whether a snapshot of the given format can be read.
func CheckFormat(format string) error {
	v, err := semver.NewVersion(format)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrFormat, format, err)
	}
	c, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrFormat, v, supportedFormats)
	}
	return nil
}

// Encode writes op and everything nested in it to w.
func Encode(w io.Writer, op *ir.Operation) error {
	e := &encoder{ids: make(map[*ir.Value]uint32)}
	root, err := e.op(op)
	if err != nil {
		return err
	}
	snap := snapshot{Header: Header{Magic: Magic, Format: Format}, Root: root}
	return msgpack.NewEncoder(w).Encode(&snap)
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*ir.Operation, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSnapshot, err)
	}
	if snap.Header.Magic != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrNotSnapshot, snap.Header.Magic)
	}
	if err := CheckFormat(snap.Header.Format); err != nil {
		return nil, err
	}
	d := &decoder{}
	op, err := d.op(&snap.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return op, nil
}

// ReadHeader decodes only the header of a snapshot.
func ReadHeader(r io.Reader) (Header, error) {
	var snap struct {
		Header Header `msgpack:"header"`
	}
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrNotSnapshot, err)
	}
	if snap.Header.Magic != Magic {
		return Header{}, fmt.Errorf("%w: magic %q", ErrNotSnapshot, snap.Header.Magic)
	}
	return snap.Header, nil
}

type encoder struct {
	ids  map[*ir.Value]uint32
	next uint32
}

func (e *encoder) define(v *ir.Value) {
	e.ids[v] = e.next
	e.next++
}

func (e *encoder) op(op *ir.Operation) (opRecord, error) {
	rec := opRecord{Name: op.Name(), Loc: spanOf(op.Loc())}
	for i, v := range op.Operands() {
		id, ok := e.ids[v]
		if !ok {
			return opRecord{}, fmt.Errorf("%s at %s: operand #%d is used before its definition", op.Name(), op.Loc(), i)
		}
		rec.Operands = append(rec.Operands, id)
	}
	for _, r := range op.Results() {
		t, err := encodeType(r.Type())
		if err != nil {
			return opRecord{}, err
		}
		rec.Results = append(rec.Results, t)
		e.define(r)
	}
	for _, na := range op.Attrs() {
		a, err := encodeAttr(na.Value)
		if err != nil {
			return opRecord{}, fmt.Errorf("%s: attribute %s: %w", op.Name(), na.Name, err)
		}
		rec.Attrs = append(rec.Attrs, attrRecord{Name: na.Name, Value: a})
	}
	for _, region := range op.Regions() {
		blocks := make([]blockRecord, 0, len(region.Blocks()))
		for _, b := range region.Blocks() {
			br, err := e.block(b)
			if err != nil {
				return opRecord{}, err
			}
			blocks = append(blocks, br)
		}
		rec.Regions = append(rec.Regions, blocks)
	}
	return rec, nil
}

func (e *encoder) block(b *ir.Block) (blockRecord, error) {
	var rec blockRecord
	for _, a := range b.Args() {
		t, err := encodeType(a.Type())
		if err != nil {
			return blockRecord{}, err
		}
		rec.Args = append(rec.Args, t)
		e.define(a)
	}
	for _, op := range b.Ops() {
		or, err := e.op(op)
		if err != nil {
			return blockRecord{}, err
		}
		rec.Ops = append(rec.Ops, or)
	}
	return rec, nil
}

type decoder struct {
	values []*ir.Value
}

func (d *decoder) op(rec *opRecord) (*ir.Operation, error) {
	spec := ir.OpSpec{Name: rec.Name, Loc: rec.Loc.span(), Regions: len(rec.Regions)}
	for _, id := range rec.Operands {
		if int(id) >= len(d.values) {
			return nil, fmt.Errorf("%s: operand refers to undefined value %d", rec.Name, id)
		}
		spec.Operands = append(spec.Operands, d.values[id])
	}
	for i := range rec.Results {
		t, err := decodeType(&rec.Results[i])
		if err != nil {
			return nil, err
		}
		spec.Results = append(spec.Results, t)
	}
	for i := range rec.Attrs {
		a, err := decodeAttr(&rec.Attrs[i].Value)
		if err != nil {
			return nil, fmt.Errorf("%s: attribute %s: %w", rec.Name, rec.Attrs[i].Name, err)
		}
		spec.Attrs = append(spec.Attrs, ir.NamedAttr{Name: rec.Attrs[i].Name, Value: a})
	}
	op := ir.NewOp(spec)
	d.values = append(d.values, op.Results()...)
	for ri, blocks := range rec.Regions {
		region := op.Region(ri)
		for bi := range blocks {
			if err := d.block(region.AddBlock(), &blocks[bi]); err != nil {
				return nil, err
			}
		}
	}
	return op, nil
}

func (d *decoder) block(b *ir.Block, rec *blockRecord) error {
	for i := range rec.Args {
		t, err := decodeType(&rec.Args[i])
		if err != nil {
			return err
		}
		d.values = append(d.values, b.AddArg(t))
	}
	for i := range rec.Ops {
		op, err := d.op(&rec.Ops[i])
		if err != nil {
			return err
		}
		b.Append(op)
	}
	return nil
}

func spanOf(s source.Span) spanRecord {
	return spanRecord{
		File:      uint32(s.File),
		StartLine: s.Start.Line,
		StartCol:  s.Start.Col,
		EndLine:   s.End.Line,
		EndCol:    s.End.Col,
	}
}

func (r spanRecord) span() source.Span {
	return source.Span{
		File:  source.FileID(r.File),
		Start: source.Pos{Line: r.StartLine, Col: r.StartCol},
		End:   source.Pos{Line: r.EndLine, Col: r.EndCol},
	}
}
