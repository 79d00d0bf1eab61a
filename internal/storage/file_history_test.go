package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/deusflow/neutralnews/internal/news"
)

func TestFileHistory_RecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	h := NewFileHistory(path, 24)
	if err := h.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	res := news.BiasGroupResult{Left: "Corporate Power Criticized", Summary: "s"}
	first := NewSearchRecord("power", res, "")
	first.SearchedAt = time.Now().Add(-time.Hour)
	second := NewSearchRecord("budget", news.BiasGroupResult{Summary: "t"}, "neutral text")

	if err := h.Record(first); err != nil {
		t.Fatal(err)
	}
	if err := h.Record(second); err != nil {
		t.Fatal(err)
	}

	reloaded := NewFileHistory(path, 24)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	recent, err := reloaded.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent = %d records, want 2", len(recent))
	}
	if recent[0].Term != "budget" || recent[0].NeutralSummary != "neutral text" {
		t.Errorf("newest record = %+v", recent[0])
	}
	if recent[1].Left != "Corporate Power Criticized" {
		t.Errorf("older record = %+v", recent[1])
	}

	if limited, _ := reloaded.Recent(1); len(limited) != 1 {
		t.Errorf("Recent(1) = %d records", len(limited))
	}
}

func TestFileHistory_RepeatSearchReplaces(t *testing.T) {
	h := NewFileHistory(filepath.Join(t.TempDir(), "history.json"), 24)
	res := news.BiasGroupResult{Center: "Economic Shift"}

	h.Record(NewSearchRecord("Economic", res, ""))
	h.Record(NewSearchRecord("  economic ", res, ""))

	stats, _ := h.GetStats()
	if stats["total_items"] != 1 {
		t.Errorf("total_items = %d, want 1", stats["total_items"])
	}
}

func TestFileHistory_ExpiredRecordsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h := NewFileHistory(path, 1)

	old := NewSearchRecord("old", news.BiasGroupResult{}, "")
	old.SearchedAt = time.Now().Add(-3 * time.Hour)
	h.Record(old)
	h.Record(NewSearchRecord("new", news.BiasGroupResult{}, ""))

	if err := h.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if recent, _ := h.Recent(10); len(recent) != 1 || recent[0].Term != "new" {
		t.Errorf("after Cleanup: %+v", recent)
	}

	reloaded := NewFileHistory(path, 1)
	reloaded.Load()
	if recent, _ := reloaded.Recent(10); len(recent) != 1 {
		t.Errorf("Load kept expired records: %+v", recent)
	}
}

func TestFileHistory_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	if err := NewFileHistory(path, 24).Load(); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestFileHistory_ConcurrentRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	h := NewFileHistory(path, 24)

	const writers = 40
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			term := fmt.Sprintf("term-%d", i)
			if err := h.Record(NewSearchRecord(term, news.BiasGroupResult{Left: term}, "")); err != nil {
				t.Errorf("Record(%s): %v", term, err)
			}
		}(i)
	}
	wg.Wait()

	reloaded := NewFileHistory(path, 24)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load after concurrent writes: %v", err)
	}
	if recent, _ := reloaded.Recent(100); len(recent) != writers {
		t.Errorf("reloaded %d records, want %d", len(recent), writers)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files in history dir: %v", entries)
	}
}
