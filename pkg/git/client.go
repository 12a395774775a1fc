// Package git runs the git binary on behalf of versioned board files.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LockFile is the name of the advisory lock taken around git commands.
const LockFile = ".muralis.lock"

// ErrLockTimeout is returned when the lock could not be taken in time.
var ErrLockTimeout = errors.New("timed out waiting for git lock")

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir     string
	Logger      *slog.Logger
	LockTimeout time.Duration
	lockPath    string
}

// Revision is one commit touching a file.
type Revision struct {
	Hash    string    `json:"hash"`
	Time    time.Time `json:"time"`
	Subject string    `json:"subject"`
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir:     workDir,
		Logger:      logger,
		LockTimeout: 10 * time.Second,
		lockPath:    LockFile,
	}
}

// IsInstalled reports whether a git binary is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Lock acquires the file-based lock, polling until LockTimeout elapses.
func (c *Client) Lock() (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)
	deadline := time.Now().Add(c.LockTimeout)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if c.LockTimeout > 0 && time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Run executes a raw git command in the working directory.
// It does not take the lock; callers wrap multi-step operations with Lock.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether WorkDir is inside a work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Init initializes a repository and makes sure commits have an identity.
func (c *Client) Init(ctx context.Context) error {
	if _, err := c.Run(ctx, "init"); err != nil {
		return err
	}
	if _, err := c.Run(ctx, "config", "user.email"); err != nil {
		if _, err := c.Run(ctx, "config", "user.email", "muralis@localhost"); err != nil {
			return err
		}
		if _, err := c.Run(ctx, "config", "user.name", "muralis"); err != nil {
			return err
		}
	}
	return nil
}

// Add stages files, including deletions.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Commit records staged changes.
func (c *Client) Commit(ctx context.Context, msg string) error {
	_, err := c.Run(ctx, "commit", "-m", msg)
	return err
}

// Status returns the porcelain status, optionally limited to files.
func (c *Client) Status(ctx context.Context, files ...string) (string, error) {
	args := append([]string{"status", "--porcelain", "--"}, files...)
	return c.Run(ctx, args...)
}

// Log lists up to limit commits touching file, newest first.
func (c *Client) Log(ctx context.Context, file string, limit int) ([]Revision, error) {
	args := []string{"log", "--format=%h%x09%cI%x09%s"}
	if limit > 0 {
		args = append(args, fmt.Sprintf("-n%d", limit))
	}
	out, err := c.Run(ctx, append(args, "--", file)...)
	if err != nil {
		// A fresh repository has no HEAD yet.
		if strings.Contains(out, "does not have any commits") {
			return nil, nil
		}
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var revs []Revision
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("unexpected git log date %q: %w", parts[1], err)
		}
		revs = append(revs, Revision{Hash: parts[0], Time: ts, Subject: parts[2]})
	}
	return revs, nil
}

// Show returns file as of rev.
func (c *Client) Show(ctx context.Context, rev, file string) ([]byte, error) {
	out, err := c.Run(ctx, "show", rev+":"+file)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
