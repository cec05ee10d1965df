package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/baaaaaaaka/xword-builder/internal/config"
)

func newTempStore(t *testing.T) *config.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workspace.json")
	store, err := config.NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

// runCLI executes the root command against store and returns stdout.
func runCLI(t *testing.T, store *config.Store, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", store.Path()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRunCLI(t *testing.T, store *config.Store, args ...string) string {
	t.Helper()
	out, err := runCLI(t, store, args...)
	if err != nil {
		t.Fatalf("xword %v: %v", args, err)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
