// Package paths resolves the directories gx reads and writes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the per-user directories.
const AppName = "guidex"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// WorkingDir returns the current working directory.
func WorkingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

// DefaultStateDir returns the directory for session state and logs:
// $XDG_STATE_HOME/guidex, or ~/.local/state/guidex.
func DefaultStateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// DefaultDataDir returns the directory holding the record store:
// $XDG_DATA_HOME/guidex, or ~/.local/share/guidex.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultConfigDir returns the directory holding config.toml:
// $XDG_CONFIG_HOME/guidex, or ~/.config/guidex.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// xdgDir resolves AppName under the base named by envVar. Relative bases
// are ignored, as the XDG base directory spec requires.
func xdgDir(envVar string, homeRel ...string) (string, error) {
	if base := os.Getenv(envVar); filepath.IsAbs(base) {
		return filepath.Join(base, AppName), nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, homeRel...), AppName)...), nil
}

// DefaultLogFile returns the log file path inside the state directory.
func DefaultLogFile() (string, error) {
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".log"), nil
}

// ResolveWithDefault returns override when set, else the result of fallback.
func ResolveWithDefault(override string, fallback func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return fallback()
}
