package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/framepick/framepick-agent/internal/catalog"
	"github.com/framepick/framepick-agent/internal/grouping"
	"github.com/framepick/framepick-agent/internal/selection"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSLocalhost())

	r.Get("/healthz", healthHandler(cfg))
	r.Get("/", indexHandler(cfg))
	r.Get("/static/*", staticHandler(cfg))
	r.Get("/ws", wsHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/images", listImagesHandler(cfg))
		r.Get("/segments", listSegmentsHandler(cfg))
		r.Get("/grouped", groupedHandler(cfg))
		r.Post("/select", selectHandler(cfg))
		r.Get("/selections", listSelectionsHandler(cfg))
		r.Post("/export", exportHandler(cfg))
		r.Get("/exports", listExportsHandler(cfg))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:     "ok",
			Version:    cfg.Version,
			UptimeS:    uptime,
			Images:     cfg.Catalog.Len(),
			Segments:   cfg.Transcript.Count(),
			Selections: cfg.Selections.Count(),
		})
	}
}

func listImagesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images := cfg.Catalog.List()

		resp := ImagesResponse{Images: make([]ImageResponse, len(images)), Count: len(images)}
		for i, img := range images {
			resp.Images[i] = ImageToResponse(img)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listSegmentsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segments := cfg.Transcript.Segments()
		skipped := cfg.Transcript.SkippedHeadings()

		resp := SegmentsResponse{
			Segments:      make([]SegmentResponse, len(segments)),
			Count:         len(segments),
			HasTranscript: cfg.Transcript.HasTranscript(),
		}
		for i, s := range segments {
			resp.Segments[i] = SegmentToResponse(s)
		}
		for _, sk := range skipped {
			resp.SkippedHeadings = append(resp.SkippedHeadings, SkippedHeadingResponse{
				Line:   sk.Line,
				Reason: sk.Reason,
			})
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func groupedHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segments := cfg.Transcript.Segments()
		groups := grouping.Assign(cfg.Catalog.List(), segments)

		resp := GroupedResponse{Groups: make(map[string][]ImageResponse, len(groups))}
		for key, images := range groups {
			converted := make([]ImageResponse, len(images))
			for i, img := range images {
				converted[i] = ImageToResponse(img)
			}
			resp.Groups[key] = converted
		}

		if len(segments) == 0 {
			resp.Order = []string{grouping.UngroupedKey}
		} else {
			resp.Order = make([]string, len(segments))
			for i := range segments {
				resp.Order[i] = grouping.SegmentKey(i)
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func selectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}

		selected, err := cfg.Selections.Toggle(req.Filename)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrEmptyPath):
				WriteError(w, http.StatusBadRequest, "filename is required", "INVALID_REQUEST")
			case errors.Is(err, catalog.ErrPathOutsideBase):
				WriteError(w, http.StatusBadRequest, "path escapes the image directory", "PATH_OUTSIDE_BASE")
			case errors.Is(err, selection.ErrNotCataloged):
				WriteError(w, http.StatusNotFound, "image not found", "NOT_FOUND")
			default:
				WriteError(w, http.StatusInternalServerError, "selection failed", "INTERNAL")
			}
			return
		}

		WriteJSON(w, http.StatusOK, SelectResponse{
			Success:  true,
			Selected: selected,
			Filename: req.Filename,
		})
	}
}

func listSelectionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selections := cfg.Selections.All()
		WriteJSON(w, http.StatusOK, SelectionsResponse{
			Selections: selections,
			Count:      len(selections),
		})
	}
}

func listExportsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", "INVALID_REQUEST")
				return
			}
			limit = parsed
		}

		entries, err := cfg.Journal.List(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list exports", "INTERNAL")
			return
		}

		resp := ExportsResponse{Exports: make([]ExportEntryResponse, len(entries)), Count: len(entries)}
		for i, e := range entries {
			resp.Exports[i] = EntryToResponse(e)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
