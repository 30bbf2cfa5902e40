package installer

import (
	"context"
	"fmt"
)

type Apt struct {
	runner Runner
}

func NewApt() *Apt {
	return &Apt{runner: defaultRunner()}
}

func NewAptWithRunner(r Runner) *Apt {
	return &Apt{runner: r}
}

// Install installs the given system packages. apt-get is idempotent for
// already-installed packages, so re-running the stage is safe.
func (a *Apt) Install(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	args := append([]string{"install", "-y"}, packages...)
	if err := a.runner.Run(ctx, "apt-get", args...); err != nil {
		return fmt.Errorf("could not install system packages: %w", err)
	}
	return nil
}
