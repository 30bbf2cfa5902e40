package provision

import (
	"context"
	"fmt"

	"github.com/emanuelegiona/gesturepad/internal/appconfig"
	"github.com/emanuelegiona/gesturepad/internal/db"
	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/emanuelegiona/gesturepad/internal/patch"
)

func (s *Service) installLibs(ctx context.Context, _ *db.Database) error {
	return s.apt.Install(ctx, s.cfg.AptPackages)
}

func (s *Service) installPip(ctx context.Context, _ *db.Database) error {
	return s.pip.Install(ctx, s.cfg.PipPackages)
}

// fetchMediaPipe clones or updates the MediaPipe checkout and records its
// absolute location in the application config, as the original Makefile did
// through the configuration helper script.
func (s *Service) fetchMediaPipe(ctx context.Context, _ *db.Database) error {
	target := s.cfg.MediaPipeDir()
	if err := s.git.CloneOrPull(ctx, s.cfg.MediaPipeRepo, s.cfg.MediaPipeRef, target); err != nil {
		return err
	}

	ac, err := appconfig.Load(s.cfg.AppConfigPath)
	if err != nil {
		return err
	}
	if err = ac.SetMediaPipeDir(target); err != nil {
		return err
	}
	if err = ac.Save(s.cfg.AppConfigPath); err != nil {
		return err
	}
	logging.Infof("MediaPipe checkout ready at %s", target)
	return nil
}

// applyPatches overwrites the vendored files inside the checkout. There is no
// rollback: pairs applied before a failure stay applied and are recorded, so
// status and verify show exactly how far the stage got.
func (s *Service) applyPatches(ctx context.Context, d *db.Database) error {
	set := patch.NewSet(s.cfg.VendorDir, s.cfg.MediaPipeDir())
	applied, applyErr := set.Apply()
	for _, a := range applied {
		if err := d.Queries().UpsertPatchRecord(ctx, a.Destination, a.SHA256); err != nil {
			return fmt.Errorf("could not record patch '%s': %w", a.Destination, err)
		}
	}
	if applyErr != nil {
		return applyErr
	}
	logging.Infof("Applied %d patches", len(applied))
	return nil
}

// Verify checks every patch destination against its vendored source.
func (s *Service) Verify() error {
	set := patch.NewSet(s.cfg.VendorDir, s.cfg.MediaPipeDir())
	mismatches := set.Verify()
	if len(mismatches) == 0 {
		logging.Infof("All %d patch destinations match their vendored sources", len(set.Pairs))
		return nil
	}
	for _, m := range mismatches {
		logging.Infof("Mismatch at %s: %s", m.Pair.Destination, m.Reason)
	}
	return fmt.Errorf("%d of %d patch destinations do not match", len(mismatches), len(set.Pairs))
}

// WatchPatches re-applies patches whenever a vendored source file changes.
func (s *Service) WatchPatches(ctx context.Context) error {
	set := patch.NewSet(s.cfg.VendorDir, s.cfg.MediaPipeDir())
	return set.Watch(ctx)
}

// Status returns the most recent run of every stage and the recorded patches.
func (s *Service) Status(ctx context.Context) ([]db.StageRun, []db.PatchRecord, error) {
	d, err := db.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open state database: %w", err)
	}
	defer func() {
		_ = d.Close()
	}()

	runs, err := d.Queries().LatestStageRuns(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read stage runs: %w", err)
	}
	records, err := d.Queries().PatchRecords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read patch records: %w", err)
	}
	return runs, records, nil
}
