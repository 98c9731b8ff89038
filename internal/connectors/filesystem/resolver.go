package filesystem

import (
	"path/filepath"
	"strings"
)

// FileURI returns the file:// URI for a local path.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}

// PathFromURI converts a file:// URI to a local path. Bare paths pass
// through unchanged.
func PathFromURI(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return filepath.FromSlash(strings.TrimPrefix(uri, "file://"))
	}
	return uri
}
