// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Paths without that prefix, and paths when no home directory is known, are
// returned cleaned but otherwise unchanged.
//
//   - "~/.config/opcalc/history.db" -> "/home/me/.config/opcalc/history.db"
//   - "~" -> "/home/me"
//   - "~other/x" -> "~other/x"
//   - "" -> ""
func ExpandHome(path string) string {
	if path == "" {
		return ""
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return filepath.Clean(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
