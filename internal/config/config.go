package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/emanuelegiona/gesturepad/internal/logging"
	"github.com/emanuelegiona/gesturepad/internal/util"
)

var (
	configFilePath = filepath.Join(util.ConfigDir, "config.toml")

	defaultMediaPipeRepo = "https://github.com/google/mediapipe.git"

	// The original Makefile installed these before touching MediaPipe:
	// PortAudio for microphone capture and the Python libraries the
	// GesturePad application imports.
	defaultAptPackages = []string{"portaudio19-dev", "python3-tk"}
	defaultPipPackages = []string{
		"numpy",
		"opencv-python",
		"torch",
		"torchvision",
		"pyaudio",
		"requests",
		"imageio",
		"imageio-ffmpeg",
		"google-cloud-speech",
		"google-cloud-automl",
	}
)

type Config struct {
	// ParentDir is the directory holding both this project and the MediaPipe
	// checkout as siblings.
	ParentDir     string   `toml:"parent_dir"`
	MediaPipeRepo string   `toml:"mediapipe_repo"`
	MediaPipeRef  string   `toml:"mediapipe_ref"`
	VendorDir     string   `toml:"vendor_dir"`
	AppConfigPath string   `toml:"app_config"`
	AptPackages   []string `toml:"apt_packages"`
	PipPackages   []string `toml:"pip_packages"`
}

// MediaPipeDir is the checkout location: a sibling of the project directory.
func (c Config) MediaPipeDir() string {
	return filepath.Join(c.ParentDir, "mediapipe")
}

func Get() (Config, error) {
	return get(false)
}

func GetInteractive() (Config, error) {
	return get(true)
}

func get(interactive bool) (Config, error) {
	c := Config{}
	f, err := os.Open(configFilePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return initConfig(interactive)
	case err != nil:
		return c, fmt.Errorf("could not open config file for reading '%s': %s", configFilePath, err)
	}

	_, err = toml.NewDecoder(f).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("could not decode config file '%s': %s", configFilePath, err)
	}
	return c, nil
}

func initConfig(interactive bool) (Config, error) {
	c := initialConfig()
	if interactive {
		err := guidedInitialization(&c)
		if err != nil {
			return c, fmt.Errorf("could not initialize config interactively: %w", err)
		}
	}
	return c, c.persist()
}

func (c *Config) persist() error {
	f, err := util.OpenWithParents(configFilePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open config file for writing '%s': %w", configFilePath, err)
	}

	logging.Debugf("Persisting config file to '%s'", configFilePath)
	err = toml.NewEncoder(f).Encode(c)
	if err != nil {
		return fmt.Errorf("could not persist config to file '%s': %w", configFilePath, err)
	}

	return nil
}

func initialConfig() Config {
	wd := util.WorkingDir()
	return Config{
		ParentDir:     filepath.Dir(wd),
		MediaPipeRepo: defaultMediaPipeRepo,
		MediaPipeRef:  "",
		VendorDir:     filepath.Join(wd, "data", "mediapipe_custom"),
		AppConfigPath: filepath.Join(wd, "data", "config.json"),
		AptPackages:   defaultAptPackages,
		PipPackages:   defaultPipPackages,
	}
}
