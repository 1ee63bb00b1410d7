package diagfmt

import (
	"path/filepath"
	"strings"
)

func formatPath(path, base string, mode PathMode) string {
	if path == "" {
		return "<input>"
	}
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeRelative, PathModeAuto:
		if base == "" {
			return path
		}
		abs, errA := filepath.Abs(path)
		root, errB := filepath.Abs(base)
		if errA != nil || errB != nil {
			return path
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || (mode == PathModeAuto && strings.HasPrefix(rel, "..")) {
			return path
		}
		return rel
	}
	return path
}
