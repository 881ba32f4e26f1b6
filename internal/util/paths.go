// Package util holds small path helpers shared across slackmoji.
package util

import (
	"os"
	"path/filepath"
)

// HomeDir returns the user's home directory.
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigDir returns the slackmoji configuration directory,
// e.g. ~/.config/slackmoji on Linux.
func ConfigDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "slackmoji")
	}
	return filepath.Join(HomeDir(), ".config", "slackmoji")
}
