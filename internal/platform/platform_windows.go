//go:build windows

package platform

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

const (
	swHide            = 0
	mbIconInformation = 0x40
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procShowWindow       = user32.NewProc("ShowWindow")
)

// windowsIntegration uses a named kernel mutex as the instance lock.
type windowsIntegration struct{}

func current() Integration {
	return windowsIntegration{}
}

func (windowsIntegration) Acquire(name string) (func(), error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, false, namePtr)
	if err != nil {
		if handle != 0 {
			windows.CloseHandle(handle)
		}
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to create mutex: %w", err)
	}

	return func() { windows.CloseHandle(handle) }, nil
}

func (windowsIntegration) HideConsole() error {
	if err := procGetConsoleWindow.Find(); err != nil {
		return err
	}
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		// Started without a console
		return nil
	}
	procShowWindow.Call(hwnd, swHide)
	return nil
}

func (windowsIntegration) Notify(title, message string) {
	titlePtr, err1 := windows.UTF16PtrFromString(title)
	messagePtr, err2 := windows.UTF16PtrFromString(message)
	if err1 != nil || err2 != nil {
		log.Warn().Str("title", title).Msg(message)
		return
	}
	if _, err := windows.MessageBox(0, messagePtr, titlePtr, mbIconInformation); err != nil {
		log.Warn().Err(err).Str("title", title).Msg(message)
	}
}
