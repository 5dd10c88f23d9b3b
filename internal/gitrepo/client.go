// Package gitrepo shells out to git for the change-set provider
// contract: staging note paths, listing changed note files, and
// recording commits.
package gitrepo

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Client executes git commands inside the repository root. notesDir
// scopes which changed paths count as note files.
type Client struct {
	root     string
	notesDir string
	logger   *slog.Logger
}

// NewClient creates a git client for the given repository root.
func NewClient(root, notesDir string, logger *slog.Logger) *Client {
	return &Client{root: root, notesDir: notesDir, logger: logger}
}

// run executes a git command in the repository root and returns its
// trimmed combined output.
func (c *Client) run(args ...string) (string, error) {
	c.logger.Debug("git", slog.Any("args", args), slog.String("dir", c.root))

	cmd := exec.Command("git", args...)
	cmd.Dir = c.root

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, fmt.Errorf("git %s: %w: %s", args[0], err, output)
	}
	return output, nil
}

// IsRepo reports whether the root contains a git repository.
func (c *Client) IsRepo() bool {
	_, err := os.Stat(filepath.Join(c.root, ".git"))
	return err == nil
}

// HasRemote reports whether at least one remote is configured.
func (c *Client) HasRemote() (bool, error) {
	out, err := c.run("remote")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Stage marks paths for the next commit with --ignore-removal, one
// call per path so a missing path never blocks the others.
func (c *Client) Stage(paths ...string) error {
	for _, p := range paths {
		if _, err := c.run("add", "--ignore-removal", p); err != nil {
			c.logger.Debug("stage skipped", slog.String("path", p), slog.String("error", err.Error()))
		}
	}
	return nil
}

// ChangedNoteFiles returns repository-relative paths of Markdown
// files under the notes directory that differ from HEAD. On a
// repository without any commit yet, the staged files are reported
// instead.
func (c *Client) ChangedNoteFiles() ([]string, error) {
	args := []string{"diff", "--name-only", "HEAD"}
	if !c.hasHead() {
		args = []string{"diff", "--name-only", "--cached"}
	}
	out, err := c.run(args...)
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(c.notesDir, "/") + "/"
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, ".md") || !strings.HasPrefix(line, prefix) {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// Commit records a snapshot of the staged changes. Nothing staged is
// not an error; the commit is simply skipped. Untracked or unstaged
// files alone never trigger a commit, since plain commit would refuse
// them anyway.
func (c *Client) Commit(message string) error {
	staged, err := c.run("diff", "--cached", "--name-only")
	if err != nil {
		return err
	}
	if staged == "" {
		c.logger.Debug("commit skipped: nothing staged")
		return nil
	}
	_, err = c.run("commit", "-m", message)
	return err
}

// hasHead reports whether the repository has at least one commit.
func (c *Client) hasHead() bool {
	_, err := c.run("rev-parse", "--verify", "HEAD")
	return err == nil
}
