// Package dbg provides a build-tag-gated debug logger shared by both cores.
//
// In a release build (no `debug` tag) every call compiles down to a no-op so
// the hot interpreter loops pay nothing for logging. Build with `-tags debug`
// to get file/line-annotated tracing on stderr.
package dbg

// Logger is implemented by the debug and no-op backends.
type Logger interface {
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

// log is installed by either debug_log.go or nodebug_log.go's init().
var log Logger

// enabled gates both backends at runtime, independent of the build tag:
// a `debug`-tagged build still honors config.DebugLog=false.
var enabled = true

// SetEnabled toggles logging at runtime. A `debug`-tagged build starts
// enabled; a release build's backend is already a no-op regardless.
func SetEnabled(v bool) { enabled = v }

// Printf logs a formatted message through the active backend.
func Printf(format string, a ...interface{}) {
	if !enabled {
		return
	}
	log.Printf(format, a...)
}

// Println logs a message through the active backend.
func Println(a ...interface{}) {
	if !enabled {
		return
	}
	log.Println(a...)
}
