package api

import (
	"time"

	"github.com/framepick/framepick-agent/internal/catalog"
	"github.com/framepick/framepick-agent/internal/export"
	"github.com/framepick/framepick-agent/internal/journal"
	"github.com/framepick/framepick-agent/internal/transcript"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	UptimeS    int64  `json:"uptime_s"`
	Images     int    `json:"images"`
	Segments   int    `json:"segments"`
	Selections int    `json:"selections"`
}

type ImageResponse struct {
	RelPath    string   `json:"rel_path"`
	CapturedAt *float64 `json:"captured_at"`
	ModifiedAt string   `json:"modified_at"`
}

type ImagesResponse struct {
	Images []ImageResponse `json:"images"`
	Count  int             `json:"count"`
}

type SegmentResponse struct {
	Index     int     `json:"index"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	StartStr  string  `json:"start_str"`
	EndStr    string  `json:"end_str"`
	Text      string  `json:"text"`
	CleanText string  `json:"clean_text"`
}

type SkippedHeadingResponse struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

type SegmentsResponse struct {
	Segments        []SegmentResponse        `json:"segments"`
	SkippedHeadings []SkippedHeadingResponse `json:"skipped_headings,omitempty"`
	Count           int                      `json:"count"`
	HasTranscript   bool                     `json:"has_transcript"`
}

type GroupedResponse struct {
	Groups map[string][]ImageResponse `json:"groups"`
	Order  []string                   `json:"order"`
}

type SelectRequest struct {
	Filename string `json:"filename"`
}

type SelectResponse struct {
	Success  bool   `json:"success"`
	Selected bool   `json:"selected"`
	Filename string `json:"filename"`
}

type SelectionsResponse struct {
	Selections map[string]bool `json:"selections"`
	Count      int             `json:"count"`
}

type ExportRequest struct {
	Selections map[string][]string `json:"selections"`
}

type SkippedImageResponse struct {
	RelPath string `json:"rel_path"`
	Reason  string `json:"reason"`
}

type ExportResponse struct {
	ID        string                 `json:"id"`
	Success   bool                   `json:"success"`
	Status    string                 `json:"status"`
	Dir       string                 `json:"dir"`
	Filename  string                 `json:"filename"`
	Message   string                 `json:"message"`
	Requested int                    `json:"requested"`
	Copied    int                    `json:"copied"`
	Skipped   []SkippedImageResponse `json:"skipped,omitempty"`
}

type ExportEntryResponse struct {
	ID         string                 `json:"id"`
	Dir        string                 `json:"dir"`
	Filename   string                 `json:"filename,omitempty"`
	Status     string                 `json:"status"`
	Message    string                 `json:"message,omitempty"`
	Requested  int                    `json:"requested"`
	Copied     int                    `json:"copied"`
	Skipped    int                    `json:"skipped"`
	SkipDetail []SkippedImageResponse `json:"skip_detail,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
	CreatedAt  string                 `json:"created_at"`
}

type ExportsResponse struct {
	Exports []ExportEntryResponse `json:"exports"`
	Count   int                   `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ImageToResponse(img catalog.Image) ImageResponse {
	return ImageResponse{
		RelPath:    img.RelPath,
		CapturedAt: img.CapturedAt,
		ModifiedAt: img.ModifiedAt.Format(time.RFC3339),
	}
}

func SegmentToResponse(s transcript.Segment) SegmentResponse {
	return SegmentResponse{
		Index:     s.Index,
		Start:     s.Start,
		End:       s.End,
		StartStr:  s.StartStr,
		EndStr:    s.EndStr,
		Text:      s.Text,
		CleanText: s.CleanText,
	}
}

func skippedToResponses(skips []export.SkippedImage) []SkippedImageResponse {
	if len(skips) == 0 {
		return nil
	}
	out := make([]SkippedImageResponse, len(skips))
	for i, s := range skips {
		out[i] = SkippedImageResponse{RelPath: s.RelPath, Reason: s.Reason}
	}
	return out
}

func ResultToResponse(id string, r *export.Result) ExportResponse {
	return ExportResponse{
		ID:        id,
		Success:   r.Success,
		Status:    r.Status,
		Dir:       r.Dir,
		Filename:  r.Filename,
		Message:   r.Message,
		Requested: r.Requested,
		Copied:    r.Copied,
		Skipped:   skippedToResponses(r.Skipped),
	}
}

func EntryToResponse(e *journal.Entry) ExportEntryResponse {
	return ExportEntryResponse{
		ID:         e.ID,
		Dir:        e.Dir,
		Filename:   e.Filename,
		Status:     e.Status,
		Message:    e.Message,
		Requested:  e.Requested,
		Copied:     e.Copied,
		Skipped:    e.Skipped,
		SkipDetail: skippedToResponses(e.SkipDetail),
		DurationMS: e.DurationMS,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
