// Package memory provides in-process implementations of driven ports.
//
// These are used when no external backend is configured and in tests.
// All types are safe for concurrent use.
package memory
