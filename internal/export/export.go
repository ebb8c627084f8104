// Package export builds self-contained Markdown bundles from selected
// frames: a timestamped directory holding copies of the chosen images and
// one Markdown document interleaving transcript text with image links.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/framepick/framepick-agent/internal/catalog"
	"github.com/framepick/framepick-agent/internal/logging"
	"github.com/framepick/framepick-agent/internal/transcript"
)

const imagesDirName = "images"

// dirTimeLayout names export directories with second precision. Two
// exports within the same second share a directory; accepted for an
// interactive single-operator tool.
const dirTimeLayout = "20060102_150405"

type Exporter struct {
	catalog    *catalog.Catalog
	transcript *transcript.Service
	outputDir  string
	logger     *slog.Logger
}

// NewExporter creates an exporter writing bundles under outputDir. The
// directory is created on first use.
func NewExporter(cat *catalog.Catalog, tr *transcript.Service, outputDir string, logger *slog.Logger) *Exporter {
	return &Exporter{
		catalog:    cat,
		transcript: tr,
		outputDir:  outputDir,
		logger:     logging.WithComponent(logger, "export"),
	}
}

// Run executes one export. Per-image failures become skip records and the
// run continues; only directory creation and the final Markdown write are
// fatal. An empty payload exports the transcript text alone.
func (e *Exporter) Run(payload Payload) (*Result, error) {
	start := time.Now()
	stamp := start.Format(dirTimeLayout)

	exportDir := filepath.Join(e.outputDir, "export_"+stamp)
	imagesDir := filepath.Join(exportDir, imagesDirName)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	distinct := distinctPaths(payload)
	copied := make(map[string]bool, len(distinct))
	var skipped []SkippedImage

	for _, rel := range distinct {
		if reason := e.copyImage(rel, imagesDir); reason != "" {
			skipped = append(skipped, SkippedImage{RelPath: rel, Reason: reason})
			e.logger.Warn("image skipped", "rel_path", rel, "reason", reason)
			continue
		}
		copied[rel] = true
	}

	body := buildMarkdown(e.transcript.Segments(), payload, copied)
	filename := "transcript_" + stamp + ".md"
	if err := writeFileAtomic(filepath.Join(exportDir, filename), []byte(body)); err != nil {
		return nil, fmt.Errorf("write markdown: %w", err)
	}

	result := &Result{
		Dir:       exportDir,
		Filename:  filename,
		Requested: len(distinct),
		Copied:    len(copied),
		Skipped:   skipped,
	}
	switch {
	case len(distinct) > 0 && len(copied) == 0:
		result.Status = StatusFailed
		result.Message = fmt.Sprintf("no images could be copied (%d selected)", len(distinct))
	case len(skipped) > 0:
		result.Success = true
		result.Status = StatusPartial
		result.Message = fmt.Sprintf("exported to %s (%d of %d images)", exportDir, len(copied), len(distinct))
	default:
		result.Success = true
		result.Status = StatusOK
		result.Message = fmt.Sprintf("exported to %s", exportDir)
	}

	e.logger.Info("export finished",
		"dir", logging.SanitizePath(exportDir),
		"status", result.Status,
		"requested", result.Requested,
		"copied", result.Copied,
		"skipped", len(skipped),
		"duration", time.Since(start))
	return result, nil
}

// distinctPaths flattens the payload into de-duplicated relative paths.
// Groups are visited in sorted key order so repeated runs skip and copy in
// a stable order.
func distinctPaths(payload Payload) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]bool)
	var out []string
	for _, k := range keys {
		for _, rel := range payload[k] {
			if seen[rel] {
				continue
			}
			seen[rel] = true
			out = append(out, rel)
		}
	}
	return out
}

// copyImage copies one source image into the bundle, preserving its
// relative subpath. It returns a non-empty reason when the image must be
// skipped.
func (e *Exporter) copyImage(rel, imagesDir string) string {
	src, err := e.catalog.Resolve(rel)
	if err != nil {
		return err.Error()
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "source file not found"
		}
		return err.Error()
	}
	if !info.Mode().IsRegular() {
		return "source is not a regular file"
	}

	target := filepath.Join(imagesDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Sprintf("create target directory: %v", err)
	}
	if err := copyFile(src, target); err != nil {
		return fmt.Sprintf("copy failed: %v", err)
	}
	return ""
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".transcript-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
