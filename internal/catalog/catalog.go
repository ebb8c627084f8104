// Package catalog discovers frame images under a base directory and serves
// an in-memory snapshot of them. Scans rebuild the snapshot from scratch;
// readers always observe a complete list, never a partial one.
package catalog

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/framepick/framepick-agent/internal/logging"
	"github.com/framepick/framepick-agent/internal/timecode"
)

type Catalog struct {
	baseDir string
	logger  *slog.Logger

	mu       sync.RWMutex
	images   []Image
	lastScan time.Time
}

// New creates a catalog rooted at baseDir. The directory is not scanned
// until Refresh is called; baseDir must already be absolute and validated
// by the configuration layer.
func New(baseDir string, logger *slog.Logger) *Catalog {
	return &Catalog{
		baseDir: baseDir,
		logger:  logging.WithComponent(logger, "catalog"),
	}
}

// BaseDir returns the configured base directory.
func (c *Catalog) BaseDir() string {
	return c.baseDir
}

// Refresh rescans the base directory and atomically replaces the snapshot.
// The walk runs without holding the lock; the lock guards only the swap.
// The returned flag reports whether the set of relative paths changed
// since the previous snapshot.
func (c *Catalog) Refresh() (bool, error) {
	start := time.Now()

	images, err := c.scan()
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	changed := !samePaths(c.images, images)
	c.images = images
	c.lastScan = time.Now()
	c.mu.Unlock()

	c.logger.Info("scan completed",
		"images", len(images),
		"changed", changed,
		"duration", time.Since(start))
	return changed, nil
}

func (c *Catalog) scan() ([]Image, error) {
	var images []Image

	err := filepath.WalkDir(c.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			c.logger.Warn("entry skipped", "path", logging.SanitizePath(p), "error", err)
			return nil
		}
		if d.IsDir() {
			if p != c.baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImageFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			c.logger.Warn("entry skipped", "path", logging.SanitizePath(p), "error", err)
			return nil
		}
		rel, err := filepath.Rel(c.baseDir, p)
		if err != nil {
			c.logger.Warn("entry skipped", "path", logging.SanitizePath(p), "error", err)
			return nil
		}

		images = append(images, Image{
			AbsPath:    p,
			RelPath:    filepath.ToSlash(rel),
			CapturedAt: timecode.ParseFrameName(d.Name()),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].RelPath < images[j].RelPath
	})
	return images, nil
}

func samePaths(a, b []Image) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].RelPath != b[i].RelPath {
			return false
		}
	}
	return true
}

// List returns a copy of the current snapshot in RelPath order.
func (c *Catalog) List() []Image {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Image, len(c.images))
	copy(out, c.images)
	return out
}

// Find looks up one image by its relative path in the current snapshot.
func (c *Catalog) Find(relPath string) (Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, img := range c.images {
		if img.RelPath == relPath {
			return img, true
		}
	}
	return Image{}, false
}

// Len returns the number of images in the current snapshot.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// LastScan returns the completion time of the most recent scan, zero if no
// scan has run yet.
func (c *Catalog) LastScan() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastScan
}
