// Package domain defines the core business entities for autopost.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: a bounded slice of source text with its embedding
//   - Summary: the structured digest of one source
//   - Draft: one generated post awaiting or past human review
//   - Channel, Slot, ScheduleEntry: the publishing calendar
//   - ControlRequest, CatalogEntry: rows of the review surface
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
