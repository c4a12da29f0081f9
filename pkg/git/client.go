// Package git wraps the git command line as a black box: repository
// initialization, staging, commits and best-effort pushes for a data
// directory that doubles as a checkout.
package git

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LockFileName guards the stage-then-commit sequence against concurrent
// grit processes sharing one data directory. Callers keeping the data
// directory clean should gitignore it.
const LockFileName = ".grit.lock"

// Client executes git commands in a fixed working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{WorkDir: workDir, Logger: logger}
}

// IsInstalled reports whether a git binary is available on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Lock acquires a file-based lock in the working directory. It blocks
// until the lock is acquired and returns the unlock function.
func (c *Client) Lock() (func(), error) {
	path := filepath.Join(c.WorkDir, LockFileName)

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(path)
			}, nil
		}

		if os.IsExist(err) {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// Run executes a raw git command in the working directory.
// It does NOT acquire the lock; callers manage transaction safety.
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether the working directory is already a git checkout.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Init initializes a repository if one does not exist. Idempotent: git
// init on an existing repository is harmless.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add stages files.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(args...)
	return err
}

// Commit records staged changes.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("commit", "-m", msg)
	return err
}

// CommitAll stages everything under the root and commits. When nothing
// actually changed it is a silent no-op, not an error.
func (c *Client) CommitAll(msg string) error {
	if err := c.Add("-A", "."); err != nil {
		return err
	}

	status, err := c.Run("status", "--porcelain")
	if err != nil {
		return err
	}
	if status == "" {
		if c.Logger != nil {
			c.Logger.Debug("nothing to commit", "dir", c.WorkDir)
		}
		return nil
	}

	return c.Commit(msg)
}

// Status returns the porcelain status of the repository.
func (c *Client) Status() (string, error) {
	return c.Run("status", "--porcelain")
}

// HasRemote reports whether any push target is configured.
func (c *Client) HasRemote() bool {
	out, err := c.Run("remote")
	return err == nil && out != ""
}

// Pull rebases local commits onto the upstream branch.
func (c *Client) Pull() error {
	_, err := c.Run("pull", "--rebase")
	return err
}

// Push sends local commits to the configured remote.
func (c *Client) Push() error {
	_, err := c.Run("push")
	return err
}
