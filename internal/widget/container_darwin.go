//go:build darwin
// +build darwin

package widget

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppGroupDir returns ~/Library/Group Containers/group.<bundleID>
func AppGroupDir(bundleID string) (string, error) {
	group, err := appGroupID(bundleID)
	if err != nil {
		return "", err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, "Library", "Group Containers", group), nil
}
