package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name string
		want func(*testing.T)
	}{
		{
			name: "config file initially does not exist",
			want: func(t *testing.T) {
				_, err := os.Open(configFilePath)
				require.ErrorIs(t, err, os.ErrNotExist)
			},
		},
		{
			name: "non-interactive; creates config file",
			want: func(t *testing.T) {
				_, err := Get()
				require.NoError(t, err)

				_, err = os.Stat(configFilePath)
				require.NoError(t, err)
			},
		},
		{
			name: "non-interactive; defaults are set",
			want: func(t *testing.T) {
				cfg, err := Get()
				require.NoError(t, err)
				require.Equal(t, defaultMediaPipeRepo, cfg.MediaPipeRepo)
				require.NotEmpty(t, cfg.AptPackages)
				require.NotEmpty(t, cfg.PipPackages)
				require.Equal(t, filepath.Join(cfg.ParentDir, "mediapipe"), cfg.MediaPipeDir())
			},
		},
		{
			name: "non-interactive; config exists",
			want: func(t *testing.T) {
				path := t.TempDir()
				require.NoError(t, (&Config{ParentDir: path}).persist())

				cfg, err := Get()
				require.NoError(t, err)
				require.Equal(t, path, cfg.ParentDir)
			},
		},
		{
			name: "interactive; config does not exist",
			want: func(t *testing.T) {
				inputFile = fileWithTextContent(t, "some/path\n\n")
				cfg, err := GetInteractive()
				require.NoError(t, err)
				require.Equal(t, "some/path", cfg.ParentDir)
			},
		},
		{
			name: "interactive; ref can be pinned",
			want: func(t *testing.T) {
				inputFile = fileWithTextContent(t, "\nv0.7.4\n")
				cfg, err := GetInteractive()
				require.NoError(t, err)
				require.Equal(t, "v0.7.4", cfg.MediaPipeRef)
			},
		},
		{
			name: "interactive; config does exist",
			want: func(t *testing.T) {
				path := t.TempDir()
				require.NoError(t, (&Config{ParentDir: path}).persist())

				cfg, err := GetInteractive()
				require.NoError(t, err)
				require.Equal(t, path, cfg.ParentDir)
			},
		},
	}
	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				tempDirSetup(t)
				tt.want(t)
			},
		)
	}
}

func tempDirSetup(t *testing.T) {
	tempDir := t.TempDir()
	configFilePath = filepath.Join(tempDir, "config.toml")
}

func fileWithTextContent(t *testing.T, text string) *os.File {
	tempDir := t.TempDir()
	f, err := os.Create(filepath.Join(tempDir, "file.txt"))
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)

	ff, _ := os.Open(f.Name())
	return ff
}
