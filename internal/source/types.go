package source

// FileID identifies a translation unit's primary file.
type FileID uint32

// NoFileID marks locations that do not come from a file (synthesized IR).
const NoFileID FileID = 0

// Pos is a 1-based line/column pair supplied by the front end.
type Pos struct {
	Line uint32
	Col  uint32
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool { return p.Line > 0 }
