// Package testutil provides shared test helpers for setting up
// repositories and index stores.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/okvist/gitnote/internal/index"
	"github.com/okvist/gitnote/internal/storage"
)

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestRepo creates a temporary repository root with a notes directory
// and returns the root plus a storage provider over it.
func TestRepo(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, files
}

// TestStore returns an index store over a fresh repository, seeded
// with fixed metadata.
func TestStore(t *testing.T) (*index.Store, storage.Provider) {
	t.Helper()
	_, files := TestRepo(t)
	return index.NewStore(files, "data.json", "Alice", "Blog", Logger()), files
}

// GitInit initializes a real git repository at root with a local
// identity so commits work in CI. The test is skipped when the git
// binary is unavailable.
func GitInit(t *testing.T, root string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
		{"config", "commit.gpgsign", "false"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = root
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
}
