package config

import (
	"fmt"
	"os"
)

// Verbose enables debug output when true
var Verbose bool

// Debugf prints debug messages to stderr when Verbose is true, keeping
// them out of pipeable command output
func Debugf(format string, args ...any) {
	if Verbose {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}
