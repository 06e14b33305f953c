// Package logging provides a shared op/go-logging setup for every package
// in this module, one named logger per component.
package logging

import (
	"os"

	logging "github.com/op/go-logging"
)

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output, shared by all component loggers.
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter wraps Backend with the shared formatter.
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

func init() {
	logging.SetBackend(BackendFormatter)
}

// New returns a named logger for the given component, e.g. "vg/align".
func New(component string) *logging.Logger {
	return logging.MustGetLogger(component)
}
