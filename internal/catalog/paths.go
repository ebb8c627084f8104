package catalog

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath rejects blank or effectively-blank relative paths.
	ErrEmptyPath = errors.New("path is empty")
	// ErrPathOutsideBase rejects paths that would resolve outside the base
	// directory, via .. traversal or an absolute-path escape.
	ErrPathOutsideBase = errors.New("path outside base directory")
)

// ValidateRelPath checks a caller-supplied relative path before any
// filesystem or catalog access. It returns the cleaned path in OS form,
// ready to be joined to a base directory.
func ValidateRelPath(rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(rel) {
		return "", ErrPathOutsideBase
	}

	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." {
		return "", ErrEmptyPath
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrPathOutsideBase
	}
	return clean, nil
}

// Resolve validates rel and returns its absolute location under the base
// directory. The joined result must itself stay under the base directory.
func (c *Catalog) Resolve(rel string) (string, error) {
	clean, err := ValidateRelPath(rel)
	if err != nil {
		return "", err
	}

	abs := filepath.Join(c.baseDir, clean)
	if abs != c.baseDir && !strings.HasPrefix(abs, c.baseDir+string(filepath.Separator)) {
		return "", ErrPathOutsideBase
	}
	return abs, nil
}
