package installer

import (
	"context"
	"fmt"
)

type Pip struct {
	runner Runner
	python string
}

func NewPip() *Pip {
	return &Pip{runner: defaultRunner(), python: "python3"}
}

func NewPipWithRunner(r Runner) *Pip {
	return &Pip{runner: r, python: "python3"}
}

// Install installs the given Python packages for the GesturePad application.
func (p *Pip) Install(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	args := append([]string{"-m", "pip", "install"}, packages...)
	if err := p.runner.Run(ctx, p.python, args...); err != nil {
		return fmt.Errorf("could not install Python packages: %w", err)
	}
	return nil
}
