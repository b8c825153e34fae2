// Package monitoring holds the diagnostic logger shared by the processing
// packages. Commands print operator-facing summaries themselves; library code
// reports per-file skips and dropped records through Logf.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or batch tools can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Skip reports that a unit of work (a scan file, a file pair, a sample) was
// not processed. The batch carries on with the next unit.
func Skip(kind, name string, err error) {
	Logf("skip %s %q: %v", kind, name, err)
}
