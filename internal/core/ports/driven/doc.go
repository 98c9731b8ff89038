// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Embedder: turns text into vectors, tagging degraded results
//   - Generator: free-text and schema-constrained generation
//   - ChunkStore: chunk and vector persistence
//   - DraftStore: draft persistence with the review lifecycle
//   - ConfigStore: application configuration
//   - ChannelProvider: channel and slot definitions
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DraftSheet, ControlQueue: the collaborative review surface
//   - SourceCatalog, SourceMetadata: auto-pick of the next source and title lookup
//   - SourceFetcher, SourceDiscoverer: downloading and listing source files
//   - SummaryCache: without it, summaries are rebuilt per call
//   - JobStore: run history and control dedupe persistence
//   - PromptStore: user-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
