// Package mediapipe drives the patched MediaPipe checkout: compiling the
// multi-hand tracking example with bazel and running it over recorded videos.
// The graph runtime itself stays inside MediaPipe; this package only shells
// out to it.
package mediapipe

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/emanuelegiona/gesturepad/internal/logging"
)

const (
	// Multi-hand tracking target inside the MediaPipe tree.
	targetSubpath = "mediapipe/examples/desktop/multi_hand_tracking"
	buildTarget   = "multi_hand_tracking_cpu"
	graphConfig   = "mediapipe/graphs/hand_tracking/multi_hand_tracking_desktop_live.pbtxt"
)

type Helper struct {
	dir       string
	BazelPath string
	Stdout    io.Writer
	Stderr    io.Writer
}

// NewHelper validates the checkout directory: it must exist, be an absolute
// path, be a directory, and contain a bazel WORKSPACE file.
func NewHelper(checkoutDir string) (*Helper, error) {
	info, err := os.Stat(checkoutDir)
	if err != nil {
		return nil, fmt.Errorf("invalid MediaPipe installation directory '%s': %w", checkoutDir, err)
	}
	if !filepath.IsAbs(checkoutDir) {
		return nil, fmt.Errorf("MediaPipe installation directory must be an absolute path, got '%s'", checkoutDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("MediaPipe installation directory '%s' is not a directory", checkoutDir)
	}
	if _, err = os.Stat(filepath.Join(checkoutDir, "WORKSPACE")); err != nil {
		return nil, fmt.Errorf("MediaPipe installation directory '%s' has no WORKSPACE file: %w", checkoutDir, err)
	}

	bazelPath, _ := exec.LookPath("bazel")
	return &Helper{
		dir:       checkoutDir,
		BazelPath: bazelPath,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}, nil
}

func buildArgs() []string {
	return []string{
		"build",
		"-c", "opt",
		"--define", "MEDIAPIPE_DISABLE_GPU=1",
		fmt.Sprintf("%s:%s", targetSubpath, buildTarget),
	}
}

// Build compiles the multi-hand tracking graph with GPU support disabled.
// The first build downloads and compiles most of MediaPipe; expect it to
// take a long time.
func (h *Helper) Build(ctx context.Context) error {
	if h.BazelPath == "" {
		return fmt.Errorf("could not find 'bazel' on PATH")
	}
	args := buildArgs()
	logging.Infof("Building MediaPipe target %s", buildTarget)
	logging.Debugf("bazel %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, h.BazelPath, args...)
	cmd.Dir = h.dir
	cmd.Stdout = h.Stdout
	cmd.Stderr = h.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("bazel build of %s failed: %w", buildTarget, err)
	}
	return nil
}

func (h *Helper) binaryPath() string {
	return filepath.Join(h.dir, "bazel-bin", filepath.FromSlash(targetSubpath), buildTarget)
}

func processArgs(inputVideo, outputVideo string) []string {
	return []string{
		fmt.Sprintf("--calculator_graph_config_file=%s", filepath.FromSlash(graphConfig)),
		fmt.Sprintf("--input_video_path=%s", inputVideo),
		fmt.Sprintf("--output_video_path=%s", outputVideo),
	}
}

// Process runs the built tracking binary on a recorded video, producing the
// landmark-annotated output video the gesture identifier consumes.
func (h *Helper) Process(ctx context.Context, inputVideo, outputVideo string) error {
	bin := h.binaryPath()
	if _, err := os.Stat(bin); err != nil {
		return fmt.Errorf("tracking binary '%s' not found, run build first: %w", bin, err)
	}

	cmd := exec.CommandContext(ctx, bin, processArgs(inputVideo, outputVideo)...)
	cmd.Dir = h.dir
	cmd.Env = append(os.Environ(), "GLOG_logtostderr=1")
	cmd.Stdout = h.Stdout
	cmd.Stderr = h.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("could not process video '%s': %w", inputVideo, err)
	}
	return nil
}
