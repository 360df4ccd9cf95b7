//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package platform

import "github.com/rs/zerolog/log"

// noopIntegration is used where no instance lock primitive is wired.
type noopIntegration struct{}

func current() Integration {
	return noopIntegration{}
}

func (noopIntegration) Acquire(string) (func(), error) {
	return func() {}, nil
}

func (noopIntegration) HideConsole() error {
	return nil
}

func (noopIntegration) Notify(title, message string) {
	log.Warn().Str("title", title).Msg(message)
}
