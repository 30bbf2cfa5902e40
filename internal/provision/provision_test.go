package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/emanuelegiona/gesturepad/internal/config"
	"github.com/emanuelegiona/gesturepad/internal/db"
	"github.com/emanuelegiona/gesturepad/internal/git"
	"github.com/emanuelegiona/gesturepad/internal/installer"
	"github.com/emanuelegiona/gesturepad/internal/patch"
	"github.com/emanuelegiona/gesturepad/internal/util"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	calls [][]string
	err   error
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.err
}

// testService redirects the state database to a temporary directory and wires
// stub runners in place of apt-get and pip.
func testService(t *testing.T, cfg config.Config, aptRunner, pipRunner installer.Runner) *Service {
	util.ConfigDir = t.TempDir()
	return &Service{
		cfg: cfg,
		git: git.NewClient(),
		apt: installer.NewAptWithRunner(aptRunner),
		pip: installer.NewPipWithRunner(pipRunner),
	}
}

// testCheckoutConfig builds a vendor directory and a fake checkout under
// parent_dir/mediapipe where every patch destination already exists.
func testCheckoutConfig(t *testing.T) config.Config {
	parentDir := t.TempDir()
	vendorDir := t.TempDir()
	checkoutDir := filepath.Join(parentDir, "mediapipe")

	for _, pair := range patch.DefaultPairs() {
		src := filepath.Join(vendorDir, pair.Source)
		require.NoError(t, os.WriteFile(src, []byte("patched "+pair.Source), 0644))

		dst := filepath.Join(checkoutDir, pair.Destination)
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
		require.NoError(t, os.WriteFile(dst, []byte("upstream "+pair.Destination), 0644))
	}

	return config.Config{
		ParentDir:     parentDir,
		VendorDir:     vendorDir,
		AppConfigPath: filepath.Join(t.TempDir(), "config.json"),
		AptPackages:   []string{"portaudio19-dev"},
		PipPackages:   []string{"numpy"},
	}
}

func TestRunAllStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	aptRunner := &stubRunner{err: errors.New("no network")}
	pipRunner := &stubRunner{}
	s := testService(t, testCheckoutConfig(t), aptRunner, pipRunner)

	err := s.RunAll(ctx)
	require.ErrorContains(t, err, "stage 'libs' failed")

	// Later stages never ran.
	require.Empty(t, pipRunner.calls)

	runs, records, err := s.Status(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, StageLibs, runs[0].Stage)
	require.Equal(t, db.StatusFailed, runs[0].Status)
	require.Contains(t, runs[0].Detail, "no network")
	require.Empty(t, records)
}

func TestRunStageFetchRejectsNonRepositoryDir(t *testing.T) {
	ctx := context.Background()
	cfg := testCheckoutConfig(t)
	s := testService(t, cfg, &stubRunner{}, &stubRunner{})

	// The checkout directory exists and has content but is no git repository.
	err := s.RunStage(ctx, StageFetch)
	require.ErrorContains(t, err, "stage 'mediapipe' failed")
	require.ErrorContains(t, err, "not a git repository")

	runs, _, err := s.Status(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, db.StatusFailed, runs[0].Status)
}

func TestRunStagePatch(t *testing.T) {
	ctx := context.Background()
	cfg := testCheckoutConfig(t)
	s := testService(t, cfg, &stubRunner{}, &stubRunner{})

	require.NoError(t, s.RunStage(ctx, StagePatch))

	for _, pair := range patch.DefaultPairs() {
		src, err := os.ReadFile(filepath.Join(cfg.VendorDir, pair.Source))
		require.NoError(t, err)
		dst, err := os.ReadFile(filepath.Join(cfg.MediaPipeDir(), pair.Destination))
		require.NoError(t, err)
		require.Equal(t, src, dst)
	}

	runs, records, err := s.Status(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, StagePatch, runs[0].Stage)
	require.Equal(t, db.StatusOK, runs[0].Status)
	require.Len(t, records, len(patch.DefaultPairs()))

	require.NoError(t, s.Verify())
}

func TestRunStagePatchRecordsPartialProgress(t *testing.T) {
	ctx := context.Background()
	cfg := testCheckoutConfig(t)
	s := testService(t, cfg, &stubRunner{}, &stubRunner{})

	missing := patch.DefaultPairs()[2]
	require.NoError(t, os.Remove(filepath.Join(cfg.MediaPipeDir(), missing.Destination)))

	err := s.RunStage(ctx, StagePatch)
	require.ErrorContains(t, err, "stage 'patch' failed")
	require.ErrorContains(t, err, "does not exist")

	runs, records, err := s.Status(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, db.StatusFailed, runs[0].Status)
	require.Len(t, records, 2)
}

func TestVerifyReportsMismatches(t *testing.T) {
	cfg := testCheckoutConfig(t)
	s := testService(t, cfg, &stubRunner{}, &stubRunner{})

	err := s.Verify()
	require.ErrorContains(t, err, "4 of 4 patch destinations do not match")
}

func TestRunStageUnknown(t *testing.T) {
	s := testService(t, config.Config{}, &stubRunner{}, &stubRunner{})
	require.ErrorContains(t, s.RunStage(context.Background(), "bogus"), "unknown stage")
}

func TestStages(t *testing.T) {
	require.Equal(t, []string{StageLibs, StagePip, StageFetch, StagePatch}, Stages())
}
