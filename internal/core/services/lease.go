package services

import (
	"context"
	"fmt"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// Lease notes written to the catalog.
const (
	leaseNoteAcquired  = "picked by planner"
	leaseNoteCommitted = "drafts generated"
)

// Lease holds one catalog entry in_progress until it is committed as used
// or rolled back to new. A lease is finished by exactly one of Commit or
// Rollback; later calls are no-ops.
type Lease struct {
	catalog driven.SourceCatalog
	entry   domain.CatalogEntry
	done    bool
}

// AcquireLease picks the first new catalog entry and marks it in_progress.
// Returns domain.ErrCatalogEmpty when no entry is new.
func AcquireLease(ctx context.Context, catalog driven.SourceCatalog) (*Lease, error) {
	entries, err := catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	for _, e := range entries {
		if e.Status != domain.CatalogNew {
			continue
		}
		if err := catalog.UpdateStatus(ctx, e.ID, domain.CatalogInProgress, leaseNoteAcquired); err != nil {
			return nil, fmt.Errorf("marking %s in progress: %w", e.ID, err)
		}
		e.Status = domain.CatalogInProgress
		return &Lease{catalog: catalog, entry: e}, nil
	}
	return nil, domain.ErrCatalogEmpty
}

// Entry returns the leased catalog entry.
func (l *Lease) Entry() domain.CatalogEntry {
	return l.entry
}

// Commit marks the entry used.
func (l *Lease) Commit(ctx context.Context) error {
	if l.done {
		return nil
	}
	l.done = true
	if err := l.catalog.UpdateStatus(ctx, l.entry.ID, domain.CatalogUsed, leaseNoteCommitted); err != nil {
		return fmt.Errorf("marking %s used: %w", l.entry.ID, err)
	}
	return nil
}

// Rollback returns the entry to new with reason as the note.
func (l *Lease) Rollback(ctx context.Context, reason string) error {
	if l.done {
		return nil
	}
	l.done = true
	if err := l.catalog.UpdateStatus(ctx, l.entry.ID, domain.CatalogNew, "rollback: "+reason); err != nil {
		return fmt.Errorf("rolling back %s: %w", l.entry.ID, err)
	}
	return nil
}
