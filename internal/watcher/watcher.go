package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/framepick/framepick-agent/internal/logging"
)

// FileWatcher polls a single file's modification time and fires a callback
// when it changes. Good enough for a transcript that is edited by hand; a
// missing file is not an error, the callback fires once it appears.
type FileWatcher struct {
	path     string
	interval time.Duration
	logger   *slog.Logger
	onChange func()

	lastMod  time.Time
	lastSeen bool
}

func New(path string, interval time.Duration, logger *slog.Logger) *FileWatcher {
	return &FileWatcher{
		path:     path,
		interval: interval,
		logger:   logging.WithComponent(logger, "watcher"),
	}
}

// OnChange registers the callback invoked after each detected change. Must
// be set before Start.
func (w *FileWatcher) OnChange(fn func()) {
	w.onChange = fn
}

// Start polls until ctx is cancelled. The first poll primes the baseline
// without firing the callback, so a file that existed at startup does not
// trigger a spurious reload.
func (w *FileWatcher) Start(ctx context.Context) {
	w.prime()

	w.logger.Info("watching file",
		"path", logging.SanitizePath(w.path),
		"interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopping")
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *FileWatcher) prime() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.lastSeen = false
		return
	}
	w.lastSeen = true
	w.lastMod = info.ModTime()
}

func (w *FileWatcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		if w.lastSeen {
			w.logger.Warn("watched file disappeared", "path", logging.SanitizePath(w.path))
		}
		w.lastSeen = false
		return
	}

	mod := info.ModTime()
	changed := !w.lastSeen || mod.After(w.lastMod)
	w.lastSeen = true
	w.lastMod = mod

	if changed && w.onChange != nil {
		w.logger.Info("file changed", "path", logging.SanitizePath(w.path))
		w.onChange()
	}
}
