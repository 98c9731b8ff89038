package domain

import "time"

// CatalogStatus is the lifecycle state of a catalog entry.
type CatalogStatus string

// Catalog states.
const (
	CatalogNew        CatalogStatus = "new"
	CatalogInProgress CatalogStatus = "in_progress"
	CatalogUsed       CatalogStatus = "used"
)

// CatalogEntry is one source record in the external catalog.
type CatalogEntry struct {
	// ID is the source identifier (e.g. a Drive file id).
	ID string

	Title     string
	Author    string
	MIMEType  string
	URL       string
	Status    CatalogStatus
	UpdatedAt time.Time
	Note      string
}

// SourceMeta is title and author metadata for one source.
type SourceMeta struct {
	Title  string
	Author string
}
