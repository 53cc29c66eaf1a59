// Package fileutil holds the file write helpers shared by emit and review.
package fileutil

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/booksite/internal/foundation/errors"
)

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a partial file. The file mode is perm.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").WithContext("path", dir).Build()
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create temp file").WithContext("path", dir).Build()
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "write temp file").WithContext("path", tmpName).Build()
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "close temp file").WithContext("path", tmpName).Build()
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "chmod temp file").WithContext("path", tmpName).Build()
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "atomic rename").WithContext("path", path).Build()
	}
	return nil
}

// FileMode returns the mode of an existing file, or fallback when it does not exist.
func FileMode(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}
