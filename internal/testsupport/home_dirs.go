package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EnsureHomeDirs creates the default state, data and config directories under homeDir.
func EnsureHomeDirs(homeDir string) error {
	for _, dir := range []string{
		filepath.Join(homeDir, ".local", "state", "guidex"),
		filepath.Join(homeDir, ".local", "share", "guidex"),
		filepath.Join(homeDir, ".config", "guidex"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// SetupTestHome creates a temp home directory, ensures guidex dirs, and
// points HOME at it with the XDG overrides cleared.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, name := range []string{"XDG_STATE_HOME", "XDG_DATA_HOME", "XDG_CONFIG_HOME"} {
		t.Setenv(name, "")
	}
	return homeDir
}
