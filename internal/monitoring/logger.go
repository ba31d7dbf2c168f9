package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

var verbose atomic.Bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose enables or disables per-record diagnostics routed through Verbosef.
func SetVerbose(on bool) {
	verbose.Store(on)
}

// Verbose reports whether per-record diagnostics are enabled.
func Verbose() bool {
	return verbose.Load()
}

// Verbosef logs through Logf only when verbose output is enabled. Decoders
// use it for per-record lines that would otherwise flood the console.
func Verbosef(format string, v ...interface{}) {
	if !verbose.Load() {
		return
	}
	Logf(format, v...)
}
