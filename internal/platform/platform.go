// Package platform isolates OS integration of the application shell:
// single-instance detection, hiding the console window and user-visible
// notices. None of it affects how pages are read.
package platform

import (
	"errors"
	"strings"
)

// ErrAlreadyRunning is returned by Acquire when another process holds the instance lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// InstanceName is the lock name shared by all instances of the reader.
const InstanceName = "touch-fish-reader"

// Integration is implemented once per platform.
type Integration interface {
	// Acquire takes the single-instance lock called name. The returned
	// release func must be called on shutdown.
	Acquire(name string) (release func(), err error)

	// HideConsole hides the console window the process was started from.
	HideConsole() error

	// Notify shows message to the user outside the browser.
	Notify(title, message string)
}

// Current returns the integration for the running platform.
func Current() Integration {
	return current()
}

// lockFileName maps an instance name to a safe file name.
func lockFileName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	return safe + ".lock"
}
