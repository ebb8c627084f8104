// Package journal persists a history of export runs so past bundles stay
// visible across agent restarts.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/framepick/framepick-agent/internal/export"
)

// StatusRunning marks a row between Start and Finish. Terminal statuses
// come from the export result.
const StatusRunning = "running"

// Entry is one recorded export run.
type Entry struct {
	ID         string                `json:"id"`
	Dir        string                `json:"dir"`
	Filename   string                `json:"filename"`
	Status     string                `json:"status"`
	Message    string                `json:"message,omitempty"`
	Requested  int                   `json:"requested"`
	Copied     int                   `json:"copied"`
	Skipped    int                   `json:"skipped"`
	SkipDetail []export.SkippedImage `json:"skip_detail,omitempty"`
	DurationMS int64                 `json:"duration_ms"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

type Repository interface {
	Start(ctx context.Context, entry *Entry) error
	Finish(ctx context.Context, id string, result *export.Result, duration time.Duration) error
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, limit int) ([]*Entry, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Start(ctx context.Context, e *Entry) error {
	if e.Status == "" {
		e.Status = StatusRunning
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (id, dir, filename, status, message, requested, copied, skipped, skip_detail, duration_ms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Dir, e.Filename, e.Status, e.Message,
		e.Requested, e.Copied, e.Skipped, marshalSkips(e.SkipDetail), e.DurationMS,
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) Finish(ctx context.Context, id string, result *export.Result, duration time.Duration) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE exports
		SET dir = ?, filename = ?, status = ?, message = ?, requested = ?, copied = ?, skipped = ?, skip_detail = ?, duration_ms = ?, updated_at = ?
		WHERE id = ?
	`, result.Dir, result.Filename, result.Status, result.Message,
		result.Requested, result.Copied, len(result.Skipped), marshalSkips(result.Skipped),
		duration.Milliseconds(), time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, dir, filename, status, message, requested, copied, skipped, skip_detail, duration_ms, created_at, updated_at
		FROM exports WHERE id = ?
	`, id)

	var e Entry
	var skipDetail, createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.Dir, &e.Filename, &e.Status, &e.Message,
		&e.Requested, &e.Copied, &e.Skipped, &skipDetail, &e.DurationMS, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.SkipDetail = unmarshalSkips(skipDetail)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &e, nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dir, filename, status, message, requested, copied, skipped, skip_detail, duration_ms, created_at, updated_at
		FROM exports ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var skipDetail, createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.Dir, &e.Filename, &e.Status, &e.Message,
			&e.Requested, &e.Copied, &e.Skipped, &skipDetail, &e.DurationMS, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		e.SkipDetail = unmarshalSkips(skipDetail)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func marshalSkips(skips []export.SkippedImage) string {
	if len(skips) == 0 {
		return "[]"
	}
	b, err := json.Marshal(skips)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalSkips(s string) []export.SkippedImage {
	if s == "" || s == "[]" {
		return nil
	}
	var skips []export.SkippedImage
	if err := json.Unmarshal([]byte(s), &skips); err != nil {
		return nil
	}
	return skips
}
