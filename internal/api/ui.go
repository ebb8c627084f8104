package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/framepick/framepick-agent/internal/catalog"
)

//go:embed gallery.html
var uiFS embed.FS

var galleryTmpl = template.Must(template.ParseFS(uiFS, "gallery.html"))

// indexHandler serves the embedded gallery page. The page bootstraps
// itself from the JSON API; only the version is injected.
func indexHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := galleryTmpl.Execute(w, map[string]string{"Version": cfg.Version}); err != nil {
			cfg.Logger.Error("failed to render gallery page", "error", err)
		}
	}
}

// staticHandler serves files under the base directory. Every request goes
// through the same traversal gate as selection and export.
func staticHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rel := chi.URLParam(r, "*")

		abs, err := cfg.Catalog.Resolve(rel)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrEmptyPath):
				WriteError(w, http.StatusBadRequest, "path is required", "INVALID_REQUEST")
			case errors.Is(err, catalog.ErrPathOutsideBase):
				WriteError(w, http.StatusBadRequest, "path escapes the image directory", "PATH_OUTSIDE_BASE")
			default:
				WriteError(w, http.StatusInternalServerError, "failed to resolve path", "INTERNAL")
			}
			return
		}

		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			WriteError(w, http.StatusNotFound, "file not found", "NOT_FOUND")
			return
		}

		http.ServeFile(w, r, abs)
	}
}
