// Package installer wraps the host package managers used during provisioning.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/emanuelegiona/gesturepad/internal/logging"
)

// Runner executes an external command; tests swap in a stub.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("could not find '%s' on PATH: %w", name, err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	logging.Debugf("Running %s %s", name, strings.Join(args, " "))
	if err = cmd.Run(); err != nil {
		return fmt.Errorf("'%s %s' failed: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func defaultRunner() Runner {
	return execRunner{stdout: os.Stdout, stderr: os.Stderr}
}
