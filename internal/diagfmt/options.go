// Package diagfmt renders diagnostics, token streams and syntax trees
// for the CLI, in both human-readable and JSON form.
package diagfmt

import "path/filepath"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows the path as it was given to the loader.
	PathModeAuto PathMode = iota
	// PathModeBasename strips directories and keeps the file name.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	// Width truncates source preview lines; 0 leaves them unbounded.
	Width       int
	ShowNotes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	// IncludePositions adds line/col alongside byte offsets.
	IncludePositions bool
	PathMode         PathMode
	// Max truncates the output, not the bag; 0 keeps everything.
	Max          int
	IncludeNotes bool
}

func formatPath(path string, mode PathMode) string {
	if mode == PathModeBasename {
		return filepath.Base(path)
	}
	return path
}
