package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/framepick/framepick-agent/internal/export"
)

func TestExportHandler_Success(t *testing.T) {
	env := setupEnv(t, true, "frame_00_00_05_000.jpg", "frame_00_00_15_000.jpg")

	req := ExportRequest{Selections: map[string][]string{
		"segment_0": {"frame_00_00_05_000.jpg"},
		"segment_1": {"frame_00_00_15_000.jpg"},
	}}

	rr := doRequest(t, env.cfg, http.MethodPost, "/api/export", req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp ExportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if !resp.Success {
		t.Errorf("success = false, want true")
	}
	if resp.Status != export.StatusOK {
		t.Errorf("status = %q, want %q", resp.Status, export.StatusOK)
	}
	if resp.Requested != 2 || resp.Copied != 2 {
		t.Errorf("requested/copied = %d/%d, want 2/2", resp.Requested, resp.Copied)
	}
	if resp.ID == "" {
		t.Error("id is empty, want a generated export id")
	}

	dirEntries, err := os.ReadDir(env.outDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(dirEntries) != 1 || !strings.HasPrefix(dirEntries[0].Name(), "export_") {
		t.Fatalf("output dir entries = %v, want one export_ directory", dirEntries)
	}
	exportDir := filepath.Join(env.outDir, dirEntries[0].Name())
	if _, err := os.Stat(filepath.Join(exportDir, "images", "frame_00_00_05_000.jpg")); err != nil {
		t.Errorf("copied image missing: %v", err)
	}

	mdFiles, _ := filepath.Glob(filepath.Join(exportDir, "transcript_*.md"))
	if len(mdFiles) != 1 {
		t.Fatalf("markdown files = %v, want exactly one", mdFiles)
	}
}

func TestExportHandler_JournalsRun(t *testing.T) {
	env := setupEnv(t, false, "a.jpg")

	rr := doRequest(t, env.cfg, http.MethodPost, "/api/export", ExportRequest{
		Selections: map[string][]string{"ungrouped": {"a.jpg"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp ExportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}

	env.journal.mu.Lock()
	defer env.journal.mu.Unlock()
	if len(env.journal.started) != 1 {
		t.Fatalf("started entries = %d, want 1", len(env.journal.started))
	}
	if env.journal.started[0].ID != resp.ID {
		t.Errorf("journal start id = %q, want %q", env.journal.started[0].ID, resp.ID)
	}
	result, ok := env.journal.finished[resp.ID]
	if !ok {
		t.Fatal("journal Finish never called for the export id")
	}
	if result.Status != export.StatusOK {
		t.Errorf("journaled status = %q, want %q", result.Status, export.StatusOK)
	}
}

func TestExportHandler_NothingCopied(t *testing.T) {
	env := setupEnv(t, false, "a.jpg")

	rr := doRequest(t, env.cfg, http.MethodPost, "/api/export", ExportRequest{
		Selections: map[string][]string{"ungrouped": {"ghost.jpg"}},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	body := decodeJSONBody(t, rr)
	if body["code"] != "NO_IMAGES_EXPORTED" {
		t.Errorf("code = %v, want NO_IMAGES_EXPORTED", body["code"])
	}

	env.journal.mu.Lock()
	defer env.journal.mu.Unlock()
	if len(env.journal.started) != 1 {
		t.Fatalf("started entries = %d, want 1", len(env.journal.started))
	}
	result := env.journal.finished[env.journal.started[0].ID]
	if result == nil || result.Status != export.StatusFailed {
		t.Errorf("journaled result = %+v, want failed status", result)
	}
}

func TestExportHandler_PartialCopy(t *testing.T) {
	env := setupEnv(t, false, "a.jpg")

	rr := doRequest(t, env.cfg, http.MethodPost, "/api/export", ExportRequest{
		Selections: map[string][]string{"ungrouped": {"a.jpg", "ghost.jpg"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp ExportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if resp.Status != export.StatusPartial {
		t.Errorf("status = %q, want %q", resp.Status, export.StatusPartial)
	}
	if len(resp.Skipped) != 1 || resp.Skipped[0].RelPath != "ghost.jpg" {
		t.Errorf("skipped = %+v, want ghost.jpg", resp.Skipped)
	}
}

func TestExportHandler_EmptyPayload(t *testing.T) {
	env := setupEnv(t, false, "a.jpg")

	rr := doRequest(t, env.cfg, http.MethodPost, "/api/export", ExportRequest{
		Selections: map[string][]string{},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp ExportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if resp.Status != export.StatusOK || resp.Requested != 0 {
		t.Errorf("resp = %+v, want ok with zero requested", resp)
	}
}

func TestExportHandler_BadBody(t *testing.T) {
	env := setupEnv(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader("{broken"))
	rr := httptest.NewRecorder()
	NewRouter(env.cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	body := decodeJSONBody(t, rr)
	if body["code"] != "INVALID_REQUEST" {
		t.Errorf("code = %v, want INVALID_REQUEST", body["code"])
	}
}
