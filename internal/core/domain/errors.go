package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates a draft status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoSlots indicates a channel has no publishing slots configured.
	ErrNoSlots = errors.New("no slots configured")

	// ErrNoSource indicates a channel has no bound source and no catalog to pick from.
	ErrNoSource = errors.New("no source for channel")

	// ErrCatalogEmpty indicates the source catalog has no entry with status new.
	ErrCatalogEmpty = errors.New("no new source in catalog")

	// ErrUnknownChannel indicates a channel name or alias is not configured.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or could not produce a usable vector.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnsupportedType indicates no normaliser handles a file's MIME type.
	ErrUnsupportedType = errors.New("unsupported file type")
)
