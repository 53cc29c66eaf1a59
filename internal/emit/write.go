package emit

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/booksite/internal/fileutil"
	"git.home.luguber.info/inful/booksite/internal/logfields"
	"git.home.luguber.info/inful/booksite/internal/site"
)

// ConfigDir is the generator's configuration directory under the content root.
const ConfigDir = ".vitepress"

// Path returns where Write places the given format under docsRoot.
func Path(docsRoot string, format Format) string {
	return filepath.Join(docsRoot, ConfigDir, format.FileName())
}

// Write renders cfg and replaces the file at Path(docsRoot, format) atomically.
// An identical existing file is left untouched; changed reports whether the
// file was rewritten.
func Write(cfg site.SiteConfig, docsRoot string, format Format) (path string, changed bool, err error) {
	data, err := Render(cfg, format)
	if err != nil {
		return "", false, err
	}
	path = Path(docsRoot, format)

	if existing, readErr := os.ReadFile(path); readErr == nil && bytes.Equal(existing, data) {
		slog.Debug("Generator config unchanged", logfields.Path(path), logfields.Format(string(format)))
		return path, false, nil
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", false, err
	}
	slog.Info("Wrote generator config", logfields.Path(path), logfields.Format(string(format)))
	return path, true, nil
}
