package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyPath is returned when an empty path is given to Abs.
var ErrEmptyPath = errors.New("resolve: path is empty")

// Abs returns an absolute form of path.
// Absolute paths are returned unchanged. Relative paths are joined to the
// working directory as it is at the time of the call.
// Examples (cwd = /srv/app):
//   - "config.yml" → "/srv/app/config.yml"
//   - "../shared/app.json" → "/srv/shared/app.json"
//   - "/etc/app.yml" → "/etc/app.yml"
func Abs(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(path) {
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, path), nil
}

// Ext returns the extension of the final path segment, including the dot.
// Leading dots in the segment never start an extension, so dotfiles have none.
// Examples:
//   - "conf/app.yml" → ".yml"
//   - "conf/app.tar.gz" → ".gz"
//   - "conf/.noext-json" → ""
//   - ".json" → ""
//   - "conf/Makefile" → ""
func Ext(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	if base == "" {
		return ""
	}
	return filepath.Ext(base)
}
