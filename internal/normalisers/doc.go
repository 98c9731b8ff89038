// Package normalisers provides implementations of the Normaliser interface
// for the source formats a book may be stored in. Each normaliser knows how
// to extract paragraph-separated text from a specific MIME type.
//
// Normalisers are registered with a Registry at startup; see Defaults.
package normalisers
