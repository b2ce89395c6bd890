package db

import (
	"context"
	"strings"
	"time"

	"equipmaster/models"
)

type LogQuery struct {
	Action string
	Entity string
	Q      string // keyword over username and details
	From   *time.Time
	To     *time.Time
	Page   int
	Size   int
}

type PagedLogEntries struct {
	Total   int64             `json:"total"`
	Entries []models.LogEntry `json:"entries"`
}

// ListLogEntries reads the audit trail, newest first. The trail is
// append-only; there is no write surface here beyond what the unit of work
// commits.
func (r *Repo) ListLogEntries(ctx context.Context, q LogQuery) (PagedLogEntries, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.LogEntry{})
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		tx = tx.Where("entity_name = ?", q.Entity)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(details) LIKE ?", like, like)
	}
	if q.From != nil {
		tx = tx.Where("timestamp >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("timestamp <= ?", *q.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return PagedLogEntries{}, err
	}

	var entries []models.LogEntry
	if err := tx.
		Order("timestamp DESC, id DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&entries).Error; err != nil {
		return PagedLogEntries{}, err
	}
	return PagedLogEntries{Total: total, Entries: entries}, nil
}
