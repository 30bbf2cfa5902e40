// Package git shells out to the git executable for the few operations the
// provisioning pipeline needs. Pattern inspired by github.com/cli/cli.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

type Client struct {
	GitPath string
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewClient() *Client {
	gitPath, _ := exec.LookPath("git")
	return &Client{
		GitPath: gitPath,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Command creates a git command running in dir (or the current directory when
// dir is empty). Do not set Stdout/Stderr if you plan to use CombinedOutput().
func (c *Client) Command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.GitPath, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	return cmd
}

func (c *Client) Clone(ctx context.Context, cloneURL, targetPath string) error {
	cmd := c.Command(ctx, "", "clone", cloneURL, targetPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &GitError{
			Args:   cmd.Args,
			Stderr: string(output),
			err:    err,
		}
	}
	return nil
}

func (c *Client) Pull(ctx context.Context, repoDir string) error {
	cmd := c.Command(ctx, repoDir, "pull", "--ff-only")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &GitError{
			Args:   cmd.Args,
			Stderr: string(output),
			err:    err,
		}
	}
	return nil
}

func (c *Client) Checkout(ctx context.Context, repoDir, ref string) error {
	cmd := c.Command(ctx, repoDir, "checkout", ref)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &GitError{
			Args:   cmd.Args,
			Stderr: string(output),
			err:    err,
		}
	}
	return nil
}

// IsRepository reports whether dir is the root of a git working tree.
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// CloneOrPull makes the fetch step re-runnable: a fresh target is cloned, an
// existing checkout is fast-forwarded. Anything else at the target path is a
// hard error rather than a silent conflict.
func (c *Client) CloneOrPull(ctx context.Context, cloneURL, ref, targetPath string) error {
	_, err := os.Stat(targetPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err = c.Clone(ctx, cloneURL, targetPath); err != nil {
			return fmt.Errorf("could not clone '%s' into '%s': %w", cloneURL, targetPath, err)
		}
	case err != nil:
		return fmt.Errorf("could not stat clone target '%s': %w", targetPath, err)
	case !IsRepository(targetPath):
		return fmt.Errorf("clone target '%s' exists but is not a git repository; remove it or point parent_dir elsewhere", targetPath)
	default:
		if err = c.Pull(ctx, targetPath); err != nil {
			return fmt.Errorf("could not update existing checkout '%s': %w", targetPath, err)
		}
	}

	if ref != "" {
		if err := c.Checkout(ctx, targetPath, ref); err != nil {
			return fmt.Errorf("could not check out ref '%s': %w", ref, err)
		}
	}
	return nil
}
