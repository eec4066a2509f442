//go:build linux
// +build linux

package widget

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppGroupDir returns $XDG_DATA_HOME/group.<bundleID> (default ~/.local/share)
func AppGroupDir(bundleID string) (string, error) {
	group, err := appGroupID(bundleID)
	if err != nil {
		return "", err
	}

	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, group), nil
}
