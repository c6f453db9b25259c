//go:build !windows

// Package console detects how the process was launched and forwards
// Ctrl+C to the main loop on Windows. Other platforms rely on os/signal.
package console

// IsRunningFromConsole always reports true outside Windows.
func IsRunningFromConsole() bool {
	return true
}

// SetupConsoleHandler is a no-op outside Windows.
func SetupConsoleHandler(quit func()) func() {
	return func() {}
}
