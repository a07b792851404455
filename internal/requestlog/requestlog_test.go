package requestlog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/datatypes"
)

func TestAppendAndRecent(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "data", "requests.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx := context.Background()
	for i, model := range []string{"gpt-a", "gpt-b", "gemini-c"} {
		e := &Entry{
			Provider:    "generic",
			Model:       model,
			ConfigName:  "main",
			Status:      200,
			DurationMs:  int64(10 * (i + 1)),
			TotalTokens: int64(100 * (i + 1)),
			Usage:       datatypes.JSON(fmt.Sprintf(`{"total_tokens":%d}`, 100*(i+1))),
		}
		if err := l.Append(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if e.ID == 0 {
			t.Fatalf("expected assigned id for entry %d", i)
		}
	}

	entries, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Model != "gemini-c" {
		t.Fatalf("expected newest entry first, got %q", entries[0].Model)
	}
	if entries[1].Model != "gpt-b" {
		t.Fatalf("expected second newest next, got %q", entries[1].Model)
	}
}

func TestRecentDefaultLimit(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "requests.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	entries, err := l.Recent(context.Background(), -1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty archive, got %d entries", len(entries))
	}
}
