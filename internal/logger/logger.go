// Package logger provides the worker's console logging.
//
// Events are always printed as "[TAG] message" lines so the publishing
// log reads the same in dry and live runs. Debug and Info output is only
// printed when verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Common event tags.
const (
	TagSchedule = "SCHED"
	TagRun      = "RUN"
	TagSkip     = "SKIP"
	TagDry      = "DRY"
	TagSent     = "SENT"
	TagSendErr  = "SEND ERR"
	TagDrafts   = "DRAFTS"
	TagSheets   = "SHEETS"
	TagSheetErr = "SHEETS ERR"
	TagControl  = "CONTROL"
	TagIngest   = "INGEST"
	TagStart    = "START"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Event prints a tagged line regardless of verbosity.
func Event(tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(output, "[%s] %s\n", strings.ToUpper(tag), msg)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning regardless of verbosity.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
}
