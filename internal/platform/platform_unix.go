//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// unixIntegration uses an flock'ed file as the instance lock. The kernel
// drops the lock when the process exits, so stale lock files are harmless.
type unixIntegration struct {
	dir string
}

func current() Integration {
	return &unixIntegration{dir: os.TempDir()}
}

func (u *unixIntegration) Acquire(name string) (func(), error) {
	path := filepath.Join(u.dir, lockFileName(name))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	// Record the owner for humans inspecting the lock file
	if err := f.Truncate(0); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
	}

	release := func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}
	return release, nil
}

// HideConsole is a no-op: terminals are not owned by the process.
func (u *unixIntegration) HideConsole() error {
	return nil
}

func (u *unixIntegration) Notify(title, message string) {
	log.Warn().Str("title", title).Msg(message)
}
