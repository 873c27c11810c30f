package fs

import "log"

// debugLevel gates DPrintf: a call only logs when its level is at or
// below this package-wide setting.
var debugLevel = 0

// SetDebugLevel adjusts the package-wide debug level. A higher level means
// more verbose. 0 (the default) prints nothing.
func SetDebugLevel(level int) {
	debugLevel = level
}

// DPrintf logs format (via the standard log package) when level is at or
// below the current debug level.
func DPrintf(level int, format string, a ...interface{}) {
	if level <= debugLevel {
		log.Printf(format, a...)
	}
}
