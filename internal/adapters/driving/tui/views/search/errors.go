package search

import "errors"

// ErrNoSearchService is reported as an ErrorOccurred message when the view
// was built without a search service.
var ErrNoSearchService = errors.New("search: no search service configured")
