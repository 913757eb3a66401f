// Package logging wires charmbracelet/log into a small set of named
// per-subsystem loggers, replacing the teacher's console color-coded
// dw_printf-style output with structured leveled logging.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// Subsystem names used as the log prefix across observer logs.
const (
	Splitter  = "splitter"
	Transport = "transport"
	Session   = "session"
	Pipeline  = "pipeline"
	Diag      = "diag"
	Store     = "store"
)

var root = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.000",
})

// SetLevel adjusts the root logger's minimum level; subsystem loggers
// derived via For share it.
func SetLevel(level log.Level) {
	root.SetLevel(level)
}

// For returns a logger tagged with the given subsystem name.
func For(subsystem string) *log.Logger {
	return root.WithPrefix(subsystem)
}
