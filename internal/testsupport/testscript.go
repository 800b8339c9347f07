package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	gxPath    string
	buildErr  error
)

// BuildGX builds the gx binary once and returns its path.
func BuildGX(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "gx-bin-")
		if err != nil {
			buildErr = err
			return
		}

		gxPath = filepath.Join(binDir, "gx")
		cmd := exec.Command("go", "build", "-o", gxPath, "./cmd/gx")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build gx: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return gxPath
}

// SetupScriptEnv configures common environment variables for testscript.
// The insight key and owner variables are cleared so scripts run offline.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("GX", BuildGX(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("GEMINI_API_KEY", "")
	env.Setenv("API_KEY", "")
	env.Setenv("GUIDEX_OWNER", "")
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdJSONID finds a record by title in a JSON array and stores its ID in an
// env var. Works for goals and for tasks nested under a goal.
func CmdJSONID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("jsonid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: jsonid FILE TITLE VAR")
	}

	var items []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Tasks []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"tasks"`
	}
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse list: %v", err)
	}

	title := args[1]
	for _, item := range items {
		if item.Title == title {
			ts.Setenv(args[2], item.ID)
			return
		}
		for _, task := range item.Tasks {
			if task.Title == title {
				ts.Setenv(args[2], task.ID)
				return
			}
		}
	}

	ts.Fatalf("record with title %q not found", title)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
