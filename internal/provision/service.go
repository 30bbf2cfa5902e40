// Package provision runs the setup pipeline that prepares a patched MediaPipe
// checkout for the GesturePad application: system packages, Python packages,
// the checkout itself, and the vendored file patches, in that order.
package provision

import (
	"context"
	"fmt"

	"github.com/emanuelegiona/gesturepad/internal/config"
	"github.com/emanuelegiona/gesturepad/internal/db"
	"github.com/emanuelegiona/gesturepad/internal/git"
	"github.com/emanuelegiona/gesturepad/internal/installer"
	"github.com/emanuelegiona/gesturepad/internal/logging"
)

const (
	StageLibs  = "libs"
	StagePip   = "pip"
	StageFetch = "mediapipe"
	StagePatch = "patch"
)

// Stages in execution order. A stage only runs when every stage before it
// succeeded; the first failure halts the pipeline.
func Stages() []string {
	return []string{StageLibs, StagePip, StageFetch, StagePatch}
}

type Service struct {
	cfg config.Config
	git *git.Client
	apt *installer.Apt
	pip *installer.Pip
}

func NewService(cfg config.Config) *Service {
	return &Service{
		cfg: cfg,
		git: git.NewClient(),
		apt: installer.NewApt(),
		pip: installer.NewPip(),
	}
}

// RunAll executes every stage in order, stopping at the first failure.
func (s *Service) RunAll(ctx context.Context) error {
	for _, stage := range Stages() {
		if err := s.RunStage(ctx, stage); err != nil {
			return err
		}
	}
	logging.Info("Provisioning complete")
	return nil
}

// RunStage executes a single stage, recording start and outcome in the state
// database.
func (s *Service) RunStage(ctx context.Context, stage string) error {
	fn, err := s.stageFunc(stage)
	if err != nil {
		return err
	}

	d, err := db.New(ctx)
	if err != nil {
		return fmt.Errorf("could not open state database: %w", err)
	}
	defer func() {
		_ = d.Close()
	}()

	id, err := d.Queries().StartStageRun(ctx, stage)
	if err != nil {
		return fmt.Errorf("could not record stage start: %w", err)
	}

	logging.Infof("Running stage '%s'", stage)
	stageErr := fn(ctx, d)

	status, detail := db.StatusOK, ""
	if stageErr != nil {
		status, detail = db.StatusFailed, stageErr.Error()
	}
	if err = d.Queries().FinishStageRun(ctx, id, status, detail); err != nil {
		logging.Error("could not record stage outcome", err)
	}

	if stageErr != nil {
		return fmt.Errorf("stage '%s' failed: %w", stage, stageErr)
	}
	logging.Infof("Stage '%s' finished", stage)
	return nil
}

func (s *Service) stageFunc(stage string) (func(context.Context, *db.Database) error, error) {
	switch stage {
	case StageLibs:
		return s.installLibs, nil
	case StagePip:
		return s.installPip, nil
	case StageFetch:
		return s.fetchMediaPipe, nil
	case StagePatch:
		return s.applyPatches, nil
	default:
		return nil, fmt.Errorf("unknown stage '%s'", stage)
	}
}
