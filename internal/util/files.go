package util

import (
	"io"
	"os"
	"path/filepath"
)

// ConfigDir holds gesturepad's own state: config.toml and the sqlite database.
var ConfigDir = filepath.Join(HomeDir(), ".config", "gesturepad")

func HomeDir() string {
	h, _ := os.UserHomeDir()
	return h
}

func WorkingDir() string {
	wd, _ := os.Getwd()
	return wd
}

func OpenWithParents(path string, flag int, perm os.FileMode) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, flag, perm)
}

// CopyFile copies src over dst, truncating dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
