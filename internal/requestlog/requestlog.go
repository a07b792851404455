// Package requestlog archives completed provider calls in a local
// SQLite database. Unlike the JSON usage ledger, which aggregates
// per-day counters, this keeps one row per call for inspection.
package requestlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one completed provider call.
type Entry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Provider    string         `gorm:"index" json:"provider"` // "generic" or "google"
	Model       string         `json:"model"`
	ConfigName  string         `json:"config_name"`
	Status      int            `json:"status"`
	DurationMs  int64          `json:"duration_ms"`
	TotalTokens int64          `json:"total_tokens"`
	Usage       datatypes.JSON `json:"usage,omitempty"` // raw usage block as reported upstream
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

// Log wraps the SQLite-backed archive.
type Log struct {
	db *gorm.DB
}

// Open creates or migrates the database at path.
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("requestlog: create dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("requestlog: open database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("requestlog: migrate: %w", err)
	}
	return &Log{db: db}, nil
}

// Append stores one entry.
func (l *Log) Append(ctx context.Context, e *Entry) error {
	return l.db.WithContext(ctx).Create(e).Error
}

// Recent returns the latest entries, newest first. Limits outside
// 1..500 fall back to 50.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var entries []Entry
	err := l.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
