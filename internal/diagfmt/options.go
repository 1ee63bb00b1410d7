package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths relative to BaseDir when they lie below it.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Path names the input the diagnostics belong to.
	Path     string
	BaseDir  string
	PathMode PathMode
	// Max limits the number of printed diagnostics; 0 prints all of them.
	Max       int
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Path     string
	BaseDir  string
	PathMode PathMode
	// Max limits the output, not the bag; 0 keeps everything.
	Max int
	// IncludeNotes adds notes; timing diagnostics always carry theirs.
	IncludeNotes bool
}
