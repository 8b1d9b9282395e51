package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/zarybnicky/baserow/internal/config"
)

func testConfig(t *testing.T) config.HistoryConfig {
	t.Helper()
	return config.HistoryConfig{
		Enabled:           true,
		Path:              filepath.Join(t.TempDir(), "history.db"),
		MaxEntries:        100,
		SaveFailedQueries: true,
	}
}

func openStore(t *testing.T, cfg config.HistoryConfig) *Store {
	t.Helper()
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AddAndGetRecent(t *testing.T) {
	store := openStore(t, testConfig(t))

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	first := Entry{
		TableID:    7,
		Query:      "SELECT id FROM database_table_7",
		ExecutedAt: base,
		Duration:   150 * time.Millisecond,
		RowCount:   3,
		Success:    true,
	}
	second := Entry{
		TableID:    7,
		Query:      "SELECT id FROM database_table_7 WHERE field_1 = $1",
		ExecutedAt: base.Add(time.Minute),
		Duration:   20 * time.Millisecond,
		RowCount:   1,
		Success:    true,
	}
	if err := store.Add(first); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Add(second); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Query != second.Query {
		t.Errorf("expected newest entry first, got %q", entries[0].Query)
	}
	got := entries[1]
	if got.ID == "" {
		t.Error("expected a generated entry id")
	}
	if got.TableID != 7 || got.RowCount != 3 || !got.Success {
		t.Errorf("unexpected entry %+v", got)
	}
	if got.Duration != 150*time.Millisecond {
		t.Errorf("unexpected duration %v", got.Duration)
	}
	if !got.ExecutedAt.Equal(base) {
		t.Errorf("unexpected executed_at %v", got.ExecutedAt)
	}
}

func TestStore_SkipsFailedQueriesWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.SaveFailedQueries = false
	store := openStore(t, cfg)

	err := store.Add(Entry{
		Query:        "SELECT nope",
		Success:      false,
		ErrorMessage: "column does not exist",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestStore_DisabledStoreRecordsNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enabled = false
	store := openStore(t, cfg)

	if err := store.Add(Entry{Query: "SELECT 1", Success: true}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestStore_TrimsToMaxEntries(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxEntries = 2
	store := openStore(t, cfg)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, query := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		err := store.Add(Entry{
			Query:      query,
			ExecutedAt: base.Add(time.Duration(i) * time.Minute),
			Success:    true,
		})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after trim, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Query == "SELECT 1" {
			t.Error("expected the oldest entry to be trimmed")
		}
	}
}

func TestStore_SearchMatchesQueryText(t *testing.T) {
	store := openStore(t, testConfig(t))

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	queries := []string{
		"SELECT id FROM database_table_7",
		"SELECT id FROM database_table_9",
	}
	for i, query := range queries {
		err := store.Add(Entry{
			Query:      query,
			ExecutedAt: base.Add(time.Duration(i) * time.Minute),
			Success:    true,
		})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	entries, err := store.Search("database_table_9", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != queries[1] {
		t.Errorf("unexpected search result %+v", entries)
	}
}
