package mediapipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testCheckout(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "WORKSPACE"), []byte(""), 0644))
	return dir
}

func TestNewHelperValidation(t *testing.T) {
	checkout := testCheckout(t)
	bare := t.TempDir()
	file := filepath.Join(bare, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name    string
		dir     string
		wantErr string
	}{
		{
			name: "valid checkout",
			dir:  checkout,
		},
		{
			name:    "missing directory",
			dir:     filepath.Join(bare, "nope"),
			wantErr: "invalid MediaPipe installation directory",
		},
		{
			name:    "relative path",
			dir:     ".",
			wantErr: "absolute path",
		},
		{
			name:    "not a directory",
			dir:     file,
			wantErr: "is not a directory",
		},
		{
			name:    "no WORKSPACE file",
			dir:     bare,
			wantErr: "no WORKSPACE file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHelper(tt.dir)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.dir, h.dir)
		})
	}
}

func TestBuildArgs(t *testing.T) {
	require.Equal(t, []string{
		"build",
		"-c", "opt",
		"--define", "MEDIAPIPE_DISABLE_GPU=1",
		"mediapipe/examples/desktop/multi_hand_tracking:multi_hand_tracking_cpu",
	}, buildArgs())
}

func TestProcessArgs(t *testing.T) {
	args := processArgs("/videos/in.mp4", "/videos/out.mp4")
	require.Len(t, args, 3)
	require.Contains(t, args[0], "--calculator_graph_config_file=")
	require.Contains(t, args[0], "multi_hand_tracking_desktop_live.pbtxt")
	require.Equal(t, "--input_video_path=/videos/in.mp4", args[1])
	require.Equal(t, "--output_video_path=/videos/out.mp4", args[2])
}

func TestBuildRequiresBazel(t *testing.T) {
	h, err := NewHelper(testCheckout(t))
	require.NoError(t, err)
	h.BazelPath = ""

	require.ErrorContains(t, h.Build(context.Background()), "could not find 'bazel'")
}

func TestProcessRequiresBuiltBinary(t *testing.T) {
	h, err := NewHelper(testCheckout(t))
	require.NoError(t, err)

	err = h.Process(context.Background(), "in.mp4", "out.mp4")
	require.ErrorContains(t, err, "run build first")
}
