package widget

import (
	"fmt"
	"strings"
)

// appGroupID derives the shared container id from the app's bundle identifier
func appGroupID(bundleID string) (string, error) {
	bundleID = strings.TrimSpace(bundleID)
	if bundleID == "" {
		return "", fmt.Errorf("bundle id is required to derive the app group")
	}
	return "group." + bundleID, nil
}
