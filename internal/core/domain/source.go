package domain

import (
	"path/filepath"
	"strings"
)

// SourceFile is a downloaded source before normalisation.
type SourceFile struct {
	// ID is the upstream identifier (e.g. a Drive file id).
	ID string

	// Name is the upstream file name.
	Name string

	// MIMEType is the content type of Content.
	MIMEType string

	// Content is the raw file bytes.
	Content []byte
}

// TitleFromName turns a file name or identifier into a readable title:
// the extension is dropped, separators become spaces and runs of spaces collapse.
func TitleFromName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" {
		return ""
	}
	if ext := filepath.Ext(base); ext != "" && len(ext) <= 5 {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
