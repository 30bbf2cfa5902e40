package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GitError carries the combined output of a failed git invocation.
type GitError struct {
	ExitCode int
	Stderr   string
	Args     []string
	err      error
}

func (e *GitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", strings.Join(e.Args, " "), strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Args, " "), e.err)
}

func (e *GitError) Unwrap() error {
	return e.err
}

// GetExitCode returns the exit code from a git error, or -1 if not available.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var gitErr *GitError
	if errors.As(err, &gitErr) && gitErr.ExitCode != 0 {
		return gitErr.ExitCode
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
