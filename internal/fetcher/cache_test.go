package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCachePathLayout(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, CacheOptions{Prefix: ".wcl."})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	got := c.Path(Key{Operation: "AccountList", Query: "Some Player"})
	want := filepath.Join(dir, "wcl.AccountList.Some~20Player.json")
	if got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
}

func TestCacheLoadHonoursMaxAge(t *testing.T) {
	now := time.Now()
	c, err := NewCache(t.TempDir(), CacheOptions{Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	key := Key{Operation: "FindClan", Query: "ABC"}
	if err := c.Store(context.Background(), key, []byte("body")); err != nil {
		t.Fatalf("Store: %v", err)
	}

	content, ok, err := c.Load(key, time.Hour)
	if err != nil || !ok {
		t.Fatalf("expected fresh entry, ok=%v err=%v", ok, err)
	}
	if string(content.Body) != "body" || !content.FromCache || content.CapturedAt.IsZero() {
		t.Fatalf("unexpected content %+v", content)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, err := c.Load(key, time.Hour); err != nil || ok {
		t.Fatalf("expected expired entry, ok=%v err=%v", ok, err)
	}

	if _, ok, err := c.Load(Key{Operation: "FindClan", Query: "missing"}, time.Hour); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
}

func TestCacheStatsAndPrune(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, CacheOptions{Prefix: "wcl"})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	ctx := context.Background()
	keys := []Key{
		{Operation: "FindClan", Query: "ABC"},
		{Operation: "FindClan", Query: "XYZ"},
		{Operation: "AccountList", Query: "player1"},
	}
	for _, key := range keys {
		if err := c.Store(ctx, key, []byte(strings.Repeat("x", 10))); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(c.Path(keys[0]), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 3 || stats.Bytes != 30 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ByOperation["FindClan"] != 2 || stats.ByOperation["AccountList"] != 1 {
		t.Fatalf("unexpected per-operation counts %v", stats.ByOperation)
	}
	if !stats.Oldest.Before(stats.Newest) {
		t.Fatalf("expected oldest before newest: %+v", stats)
	}

	removed, err := c.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "unrelated.json")); err != nil {
		t.Fatalf("prune must leave foreign files alone: %v", err)
	}
	stats, _ = c.Stats()
	if stats.Entries != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", stats.Entries)
	}
}

func TestNewCacheRejectsEmptyDir(t *testing.T) {
	if _, err := NewCache("  ", CacheOptions{}); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
