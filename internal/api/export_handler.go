package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/framepick/framepick-agent/internal/export"
	"github.com/framepick/framepick-agent/internal/journal"
	"github.com/framepick/framepick-agent/internal/logging"
)

// exportHandler runs one export, journals it, and broadcasts the outcome.
// The request body is authoritative for what gets exported; the server-side
// selection store is not consulted.
func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}

		id := uuid.NewString()
		logger := logging.WithExportID(cfg.Logger, id)

		now := time.Now().UTC()
		if cfg.Journal != nil {
			entry := &journal.Entry{ID: id, CreatedAt: now, UpdatedAt: now}
			if err := cfg.Journal.Start(r.Context(), entry); err != nil {
				logger.Error("failed to journal export start", "error", err)
			}
		}

		started := time.Now()
		result, err := cfg.Exporter.Run(export.Payload(req.Selections))
		duration := time.Since(started)
		if err != nil {
			logger.Error("export failed", "error", err)
			result = &export.Result{Status: export.StatusFailed, Message: err.Error()}
			finishExport(cfg, logger, id, result, duration)
			WriteError(w, http.StatusInternalServerError, "export failed", "INTERNAL")
			return
		}

		finishExport(cfg, logger, id, result, duration)

		if result.Status == export.StatusFailed {
			WriteError(w, http.StatusUnprocessableEntity, result.Message, "NO_IMAGES_EXPORTED")
			return
		}

		WriteJSON(w, http.StatusOK, ResultToResponse(id, result))
	}
}

// finishExport records the terminal row and broadcasts. The journal write
// uses a background context so a dropped client cannot strand a running row.
func finishExport(cfg ServerConfig, logger *slog.Logger, id string, result *export.Result, duration time.Duration) {
	if cfg.Journal != nil {
		if err := cfg.Journal.Finish(context.Background(), id, result, duration); err != nil {
			logger.Error("failed to journal export finish", "error", err)
		}
	}
	if cfg.Hub != nil {
		cfg.Hub.Broadcast(Event{Type: EventExportCompleted, ID: id, Status: result.Status})
	}
}
