//go:build !windows

package daemon

import (
	"errors"

	"go.uber.org/zap"
)

var errTrayUnsupported = errors.New("system tray is only supported on Windows")

// TrayApp is a stub on non-Windows platforms; the daemon runs in console mode
// and `skema-widget watch` follows the snapshot instead
type TrayApp struct {
	logger *zap.Logger
}

// NewTrayApp always fails on this platform
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return nil, errTrayUnsupported
}

// Run does nothing on this platform
func (t *TrayApp) Run() {
}

// Stop does nothing on this platform
func (t *TrayApp) Stop() {
}

// ShowNotification does nothing on this platform
func (t *TrayApp) ShowNotification(title, message string) {
}
