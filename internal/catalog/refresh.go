package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/framepick/framepick-agent/internal/logging"
)

// Refresher rescans the catalog on a fixed interval. Scan failures are
// logged and the schedule continues; the loop stops only on context
// cancellation.
type Refresher struct {
	catalog  *Catalog
	interval time.Duration
	logger   *slog.Logger
	onChange func(count int)
	running  atomic.Bool
}

// NewRefresher creates a refresher for the catalog. The configuration layer
// enforces the interval floor.
func NewRefresher(c *Catalog, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		catalog:  c,
		interval: interval,
		logger:   logging.WithComponent(logger, "refresher"),
	}
}

// OnChange registers a callback invoked with the new image count after any
// refresh that changed the snapshot. Must be set before Start.
func (r *Refresher) OnChange(fn func(count int)) {
	r.onChange = fn
}

// Start runs the refresh loop until ctx is cancelled. It returns
// immediately if the refresher is already running.
func (r *Refresher) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	r.logger.Info("refresher started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping")
			r.running.Store(false)
			return
		case <-ticker.C:
			r.refreshOnce()
		}
	}
}

// RefreshNow triggers one refresh outside the periodic schedule, for the
// tray's rescan action.
func (r *Refresher) RefreshNow() {
	r.refreshOnce()
}

// IsRunning reports whether the periodic loop is active.
func (r *Refresher) IsRunning() bool {
	return r.running.Load()
}

func (r *Refresher) refreshOnce() {
	changed, err := r.catalog.Refresh()
	if err != nil {
		r.logger.Error("refresh failed", "error", err)
		return
	}
	if changed && r.onChange != nil {
		r.onChange(r.catalog.Len())
	}
}
