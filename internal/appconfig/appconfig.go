// Package appconfig reads and updates data/config.json, the configuration
// file consumed by the GesturePad application itself. Provisioning writes the
// MediaPipe checkout location into it; the configure command also records the
// Google Cloud settings.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/emanuelegiona/gesturepad/internal/util"
)

type AppConfig struct {
	MediaPipeDir string `json:"mediapipe_dir"`
	Credentials  string `json:"credentials"`
	ProjectID    string `json:"project_id"`
	Location     string `json:"location"`
	ModelID      string `json:"model_id"`
}

// Load reads the application config, returning an empty config when the file
// does not exist yet.
func Load(path string) (AppConfig, error) {
	c := AppConfig{}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return c, fmt.Errorf("could not read application config '%s': %w", path, err)
	}

	if err = json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("could not decode application config '%s': %w", path, err)
	}
	return c, nil
}

func (c *AppConfig) Save(path string) error {
	f, err := util.OpenWithParents(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open application config for writing '%s': %w", path, err)
	}

	logging.Debugf("Persisting application config to '%s'", path)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err = enc.Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not persist application config '%s': %w", path, err)
	}
	return f.Close()
}

// SetMediaPipeDir records the MediaPipe installation directory. The directory
// must exist, be given as an absolute path, and actually be a directory.
func (c *AppConfig) SetMediaPipeDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("invalid MediaPipe installation directory '%s': %w", dir, err)
	}
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("MediaPipe installation directory must be an absolute path, got '%s'", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("MediaPipe installation directory '%s' is not a directory", dir)
	}
	c.MediaPipeDir = dir
	return nil
}

// SetCredentialsPath records the Google Cloud service account file. The file
// must exist, be given as an absolute path, and be a regular file.
func (c *AppConfig) SetCredentialsPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("invalid credentials file '%s': %w", path, err)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("credentials file must be an absolute path, got '%s'", path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("credentials file '%s' is not a regular file", path)
	}
	c.Credentials = path
	return nil
}
