package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// NormaliseResult is the plain text extracted from a source file.
type NormaliseResult struct {
	// Text is the extracted text. Paragraphs are separated by blank lines.
	Text string

	// Title is the document title, or a title derived from the file name.
	Title string

	// Author is the document author when the format records one.
	Author string

	// Format names the normaliser that produced the text.
	Format string
}

// Normaliser converts downloaded source files into plain text for chunking.
// Each normaliser handles specific MIME types (e.g. Markdown, HTML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text from a file.
	Normalise(ctx context.Context, file *domain.SourceFile) (*NormaliseResult, error)
}

// NormaliserRegistry dispatches files to the best normaliser for their MIME type.
type NormaliserRegistry interface {
	// Register adds a normaliser.
	Register(n Normaliser)

	// SupportedMIMETypes returns every MIME type with a registered normaliser.
	SupportedMIMETypes() []string

	// Normalise picks the highest-priority normaliser for file.MIMEType.
	// Returns domain.ErrUnsupportedType when none matches.
	Normalise(ctx context.Context, file *domain.SourceFile) (*NormaliseResult, error)
}
