package gitrepo

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// initRepo creates a real git repository in a temp dir. Tests are
// skipped when the git binary is unavailable.
func initRepo(t *testing.T) (*Client, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	root := t.TempDir()
	c := NewClient(root, "notes", testLogger())
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
		{"config", "commit.gpgsign", "false"},
	} {
		if _, err := c.run(args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	return c, root
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsRepo(t *testing.T) {
	c := NewClient(t.TempDir(), "notes", testLogger())
	if c.IsRepo() {
		t.Error("bare temp dir should not be a repo")
	}
	c2, _ := initRepo(t)
	if !c2.IsRepo() {
		t.Error("initialized dir should be a repo")
	}
}

func TestHasRemote(t *testing.T) {
	c, _ := initRepo(t)
	has, err := c.HasRemote()
	if err != nil {
		t.Fatalf("HasRemote: %v", err)
	}
	if has {
		t.Error("fresh repo should have no remote")
	}

	if _, err := c.run("remote", "add", "origin", "https://example.com/repo.git"); err != nil {
		t.Fatal(err)
	}
	has, err = c.HasRemote()
	if err != nil {
		t.Fatalf("HasRemote: %v", err)
	}
	if !has {
		t.Error("remote should be detected")
	}
}

func TestStageAndCommit(t *testing.T) {
	c, root := initRepo(t)
	write(t, root, "notes/a.md", "#A\n\nbody\nPosted on 01-01-2024 10:00:00\n")

	// Stage tolerates paths that don't exist.
	if err := c.Stage("notes", "data.json", "images"); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := c.Commit("test commit"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Clean tree: commit is a no-op, not an error.
	if err := c.Commit("empty"); err != nil {
		t.Fatalf("Commit on clean tree: %v", err)
	}
}

func TestCommit_NothingStagedIsSkipped(t *testing.T) {
	c, root := initRepo(t)
	write(t, root, "notes/a.md", "#A\n\nbody\nPosted on 01-01-2024 10:00:00\n")
	if err := c.Stage("notes"); err != nil {
		t.Fatal(err)
	}
	if err := c.Commit("initial"); err != nil {
		t.Fatal(err)
	}

	// An untracked file alone must not produce a commit attempt, which
	// would fail with "nothing added to commit".
	write(t, root, "data.json", "{}")
	if err := c.Commit("sync"); err != nil {
		t.Fatalf("Commit with only untracked files: %v", err)
	}

	// Same for an unstaged modification of a tracked file.
	write(t, root, "notes/a.md", "#A\n\nchanged\nPosted on 01-01-2024 10:00:00\n")
	if err := c.Commit("sync"); err != nil {
		t.Fatalf("Commit with only unstaged changes: %v", err)
	}

	out, err := c.run("rev-list", "--count", "HEAD")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1" {
		t.Errorf("commit count = %s, want 1", out)
	}
}

func TestChangedNoteFiles(t *testing.T) {
	c, root := initRepo(t)
	write(t, root, "notes/a.md", "#A\n\nv1\nPosted on 01-01-2024 10:00:00\n")
	write(t, root, "notes/b.txt", "not a note")
	if err := c.Stage("notes"); err != nil {
		t.Fatal(err)
	}

	// Before the first commit the staged files are reported.
	changed, err := c.ChangedNoteFiles()
	if err != nil {
		t.Fatalf("ChangedNoteFiles: %v", err)
	}
	if len(changed) != 1 || changed[0] != "notes/a.md" {
		t.Fatalf("changed = %v, want [notes/a.md]", changed)
	}

	if err := c.Commit("initial"); err != nil {
		t.Fatal(err)
	}
	changed, err = c.ChangedNoteFiles()
	if err != nil {
		t.Fatalf("ChangedNoteFiles: %v", err)
	}
	if len(changed) != 0 {
		t.Fatalf("changed = %v, want none after commit", changed)
	}

	// Modify the note: it shows up against HEAD.
	write(t, root, "notes/a.md", "#A\n\nv2\nPosted on 01-01-2024 10:00:00\n")
	changed, err = c.ChangedNoteFiles()
	if err != nil {
		t.Fatalf("ChangedNoteFiles: %v", err)
	}
	if len(changed) != 1 || changed[0] != "notes/a.md" {
		t.Fatalf("changed = %v, want [notes/a.md]", changed)
	}
}

func TestChangedNoteFiles_IgnoresOutsideNotesDir(t *testing.T) {
	c, root := initRepo(t)
	write(t, root, "notes/in.md", "#In\n\nbody\nPosted on 01-01-2024 10:00:00\n")
	write(t, root, "drafts/out.md", "#Out\n\nbody\nPosted on 01-01-2024 10:00:00\n")
	if err := c.Stage("notes", "drafts"); err != nil {
		t.Fatal(err)
	}

	changed, err := c.ChangedNoteFiles()
	if err != nil {
		t.Fatalf("ChangedNoteFiles: %v", err)
	}
	if len(changed) != 1 || changed[0] != "notes/in.md" {
		t.Fatalf("changed = %v, want [notes/in.md]", changed)
	}
}
