package transcript

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/framepick/framepick-agent/internal/logging"
)

// Service holds the currently loaded transcript document behind a lock so
// request handlers and a future reload can share it. A service constructed
// without a path serves the empty document; grouping then degrades to the
// single ungrouped bucket.
type Service struct {
	path   string
	logger *slog.Logger

	mu  sync.RWMutex
	doc Document
}

// NewService creates a transcript service for the given file path. The path
// may be empty when no transcript is configured. No file is read until Load.
func NewService(path string, logger *slog.Logger) *Service {
	return &Service{
		path:   path,
		logger: logging.WithComponent(logger, "transcript"),
	}
}

// Load reads and parses the configured transcript file, replacing the
// current document. A service without a configured path is a no-op. Read
// failures leave the prior document in place.
func (s *Service) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	doc := Parse(string(data))

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	s.logger.Info("transcript loaded",
		"path", logging.SanitizePath(s.path),
		"segments", len(doc.Segments),
		"skipped_headings", len(doc.Skipped))

	for _, sk := range doc.Skipped {
		s.logger.Warn("transcript heading skipped", "line", sk.Line, "reason", sk.Reason)
	}

	return nil
}

// Segments returns a copy of the current segment list.
func (s *Service) Segments() []Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Segment, len(s.doc.Segments))
	copy(out, s.doc.Segments)
	return out
}

// SkippedHeadings returns a copy of the headings dropped by the last load.
func (s *Service) SkippedHeadings() []SkippedHeading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SkippedHeading, len(s.doc.Skipped))
	copy(out, s.doc.Skipped)
	return out
}

// Count returns the number of parsed segments.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Segments)
}

// HasTranscript reports whether a transcript path is configured.
func (s *Service) HasTranscript() bool {
	return s.path != ""
}
