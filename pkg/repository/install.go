package repository

import (
	"io"
	"os"
	"path/filepath"
)

// Exists reports whether a regular file exists at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Install copies r into a new file at dest and returns the number of bytes written.
//
// Any existing file at dest is deleted first and missing parent directories
// are created. Bytes go to a staging file in the destination directory that
// is renamed over dest only after it has been fully written and closed, so
// dest is either absent or complete. On failure the staging file is removed.
func Install(dest string, r io.Reader) (int64, error) {
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), dest)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}
