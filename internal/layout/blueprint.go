package layout

import (
	"errors"
	"fmt"
	"strings"

	"hilo/internal/ir"
)

// SpecAttrName is the module attribute holding the flushed blueprint.
const SpecAttrName = "dlti.dl_spec"

// ErrAlreadyFlushed reports a second Flush of the same blueprint.
var ErrAlreadyFlushed = errors.New("data layout blueprint already flushed")

// Entry is the layout of one IR type, in bits.
type Entry struct {
	Type      ir.Type
	SizeBits  uint64
	AlignBits uint64
}

// SpecAttr is the dlti.dl_spec attribute.
type SpecAttr struct {
	Entries []Entry
}

func (a SpecAttr) String() string {
	parts := make([]string, len(a.Entries))
	for i, e := range a.Entries {
		parts[i] = fmt.Sprintf("%s = [%d, %d]", e.Type, e.SizeBits, e.AlignBits)
	}
	return "#dlti.dl_spec<" + strings.Join(parts, ", ") + ">"
}

// Lookup returns the entry for t.
func (a SpecAttr) Lookup(t ir.Type) (Entry, bool) {
	key := t.String()
	for _, e := range a.Entries {
		if e.Type.String() == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Blueprint accumulates layout entries during code generation.
type Blueprint struct {
	entries []Entry
	index   map[string]int
	flushed bool
}

// NewBlueprint returns an empty blueprint.
func NewBlueprint() *Blueprint {
	return &Blueprint{index: make(map[string]int)}
}

// Add records the layout of t. The first entry for a type wins.
func (b *Blueprint) Add(t ir.Type, sizeBits, alignBits uint64) bool {
	key := t.String()
	if _, ok := b.index[key]; ok {
		return false
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, Entry{Type: t, SizeBits: sizeBits, AlignBits: alignBits})
	return true
}

// Lookup returns the entry for t.
func (b *Blueprint) Lookup(t ir.Type) (Entry, bool) {
	i, ok := b.index[t.String()]
	if !ok {
		return Entry{}, false
	}
	return b.entries[i], true
}

// Entries returns the entries in insertion order.
func (b *Blueprint) Entries() []Entry {
	return append([]Entry(nil), b.entries...)
}

// Len returns the number of entries.
func (b *Blueprint) Len() int { return len(b.entries) }

// Flush stores the blueprint on module as SpecAttrName. It may run once.
func (b *Blueprint) Flush(module *ir.Operation) error {
	if b.flushed {
		return ErrAlreadyFlushed
	}
	b.flushed = true
	module.SetAttr(SpecAttrName, SpecAttr{Entries: b.Entries()})
	return nil
}
