// Package services implements the driving port interfaces.
// Services contain the publishing pipeline (ingest, retrieval,
// summarisation, rendering, planning, review sync, scheduling) and
// orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
