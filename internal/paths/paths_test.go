package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func clearXDG(t *testing.T) {
	t.Helper()
	for _, name := range []string{"XDG_STATE_HOME", "XDG_DATA_HOME", "XDG_CONFIG_HOME"} {
		t.Setenv(name, "")
	}
}

func TestDefaultDirsUseHome(t *testing.T) {
	home := filepath.Join("/tmp", "test-home")
	t.Setenv("HOME", home)
	clearXDG(t)

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{name: "state", fn: DefaultStateDir, want: filepath.Join(home, ".local", "state", "guidex")},
		{name: "data", fn: DefaultDataDir, want: filepath.Join(home, ".local", "share", "guidex")},
		{name: "config", fn: DefaultConfigDir, want: filepath.Join(home, ".config", "guidex")},
		{name: "log", fn: DefaultLogFile, want: filepath.Join(home, ".local", "state", "guidex", "guidex.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDefaultDirsUseXDG(t *testing.T) {
	t.Setenv("HOME", filepath.Join("/tmp", "test-home"))
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CONFIG_HOME", "relative/config")

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{name: "state", fn: DefaultStateDir, want: filepath.Join("/xdg/state", "guidex")},
		{name: "data", fn: DefaultDataDir, want: filepath.Join("/xdg/data", "guidex")},
		{name: "relative config ignored", fn: DefaultConfigDir, want: filepath.Join("/tmp", "test-home", ".config", "guidex")},
		{name: "log", fn: DefaultLogFile, want: filepath.Join("/xdg/state", "guidex", "guidex.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestHomeDirUsesHome(t *testing.T) {
	t.Setenv("HOME", filepath.Join("/tmp", "test-home"))

	home, err := HomeDir()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if home != filepath.Join("/tmp", "test-home") {
		t.Fatalf("expected %s, got %s", filepath.Join("/tmp", "test-home"), home)
	}
}

func TestWorkingDirReturnsCurrentDir(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	resolved, err := WorkingDir()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resolved != workDir {
		t.Fatalf("expected %s, got %s", workDir, resolved)
	}
}

func TestResolveWithDefault(t *testing.T) {
	t.Run("returns override when provided", func(t *testing.T) {
		result, err := ResolveWithDefault("/custom/path", DefaultStateDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != "/custom/path" {
			t.Fatalf("expected /custom/path, got %s", result)
		}
	})

	t.Run("calls default function when override is empty", func(t *testing.T) {
		t.Setenv("HOME", filepath.Join("/tmp", "test-home"))
		clearXDG(t)

		result, err := ResolveWithDefault("", DefaultStateDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		expected := filepath.Join("/tmp", "test-home", ".local", "state", "guidex")
		if result != expected {
			t.Fatalf("expected %s, got %s", expected, result)
		}
	})

	t.Run("propagates error from default function", func(t *testing.T) {
		errorFn := func() (string, error) {
			return "", os.ErrNotExist
		}

		_, err := ResolveWithDefault("", errorFn)
		if err != os.ErrNotExist {
			t.Fatalf("expected os.ErrNotExist, got %v", err)
		}
	})
}
