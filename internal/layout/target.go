package layout

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple    string // e.g. "x86_64-linux-gnu"
	PtrSize   int    // bytes
	PtrAlign  int    // bytes
	IndexBits int    // width of the index type
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:    "x86_64-linux-gnu",
		PtrSize:   8,
		PtrAlign:  8,
		IndexBits: 64,
	}
}

// PointerBits returns the pointer width in bits.
func (t Target) PointerBits() int {
	if t.PtrSize <= 0 {
		return 64
	}
	return t.PtrSize * 8
}

// IndexWidth returns the index width in bits, defaulting to 64.
func (t Target) IndexWidth() int {
	if t.IndexBits <= 0 {
		return 64
	}
	return t.IndexBits
}

func (t Target) pointerLayout() TypeLayout {
	size := t.PtrSize
	if size <= 0 {
		size = 8
	}
	align := t.PtrAlign
	if align <= 0 {
		align = size
	}
	return TypeLayout{Size: size, Align: align}
}
