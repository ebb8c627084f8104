package catalog

import (
	"path/filepath"
	"strings"
	"time"
)

// Image is one cataloged frame file under the base directory. Records are
// immutable: a rescan builds a fresh snapshot rather than mutating entries
// in place. RelPath is the stable external identifier, unique within one
// snapshot and normalized to forward slashes.
type Image struct {
	AbsPath    string    `json:"-"`
	RelPath    string    `json:"rel_path"`
	CapturedAt *float64  `json:"captured_at,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// IsImageFile reports whether the filename carries a supported image
// extension. The check is case-insensitive.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
