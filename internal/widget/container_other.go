//go:build !darwin && !linux
// +build !darwin,!linux

package widget

// AppGroupDir is not available: there is no shared container to hand the widget
func AppGroupDir(bundleID string) (string, error) {
	return "", ErrUnsupportedPlatform
}
