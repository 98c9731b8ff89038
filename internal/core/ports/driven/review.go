package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// RawRow is an unvalidated row from the review surface, keyed by header.
type RawRow map[string]string

// DraftHeaders are the review surface headers for the drafts table.
var DraftHeaders = []string{
	"id", "date", "time", "channel", "format", "book_id",
	"text", "status", "edited_text", "approved_by", "approved_at",
}

// ControlHeaders are the review surface headers for the control table.
var ControlHeaders = []string{"timestamp", "action", "date", "channel", "alias", "status", "note"}

// CatalogHeaders are the review surface headers for the books catalog table.
var CatalogHeaders = []string{"file_id", "title", "mimeType", "url", "status", "updated_at", "note", "author"}

// DraftSheet mirrors drafts onto the collaborative review surface.
type DraftSheet interface {
	// Push appends drafts to the drafts table in one batch.
	Push(ctx context.Context, drafts []domain.Draft) error

	// PullAll returns every row of the drafts table.
	PullAll(ctx context.Context) ([]RawRow, error)
}

// ControlQueue is the append-only request log on the review surface.
type ControlQueue interface {
	// PullRequests returns rows whose status is "request".
	PullRequests(ctx context.Context) ([]domain.ControlRequest, error)

	// UpdateStatus writes status and note back to a row.
	UpdateStatus(ctx context.Context, row int, status, note string) error
}

// SourceCatalog lists sources available for auto-pick.
type SourceCatalog interface {
	// List returns every catalog entry in surface order.
	List(ctx context.Context) ([]domain.CatalogEntry, error)

	// UpdateStatus sets an entry's status and note and stamps updated_at.
	// Unknown ids are ignored.
	UpdateStatus(ctx context.Context, id string, status domain.CatalogStatus, note string) error

	// Append adds new entries to the catalog.
	Append(ctx context.Context, entries []domain.CatalogEntry) error
}

// SourceMetadata looks up title and author for a source id.
type SourceMetadata interface {
	// Lookup returns metadata, or domain.ErrNotFound.
	Lookup(ctx context.Context, sourceID string) (domain.SourceMeta, error)
}
