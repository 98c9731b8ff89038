// Package mcp provides an MCP (Model Context Protocol) server adapter for autopost.
// It lets AI assistants search sources, read summaries, list drafts and
// generate days of drafts.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// errToolUnavailable is returned by tools whose service was not wired.
var errToolUnavailable = errors.New("mcp: tool not available in this configuration")
