package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deusflow/neutralnews/internal/news"
)

// SearchRecord is one answered bias search.
type SearchRecord struct {
	Hash           string    `json:"hash"`
	Term           string    `json:"term"`
	Left           string    `json:"left"`
	Center         string    `json:"center"`
	Right          string    `json:"right"`
	Summary        string    `json:"summary"`
	NeutralSummary string    `json:"neutralSummary,omitempty"`
	SearchedAt     time.Time `json:"searchedAt"`
}

// NewSearchRecord builds a record for term and its result.
func NewSearchRecord(term string, res news.BiasGroupResult, neutral string) SearchRecord {
	return SearchRecord{
		Hash:           GenerateSearchHash(term, res),
		Term:           term,
		Left:           res.Left,
		Center:         res.Center,
		Right:          res.Right,
		Summary:        res.Summary,
		NeutralSummary: neutral,
		SearchedAt:     time.Now(),
	}
}

// GenerateSearchHash identifies a (term, headlines) combination so repeating
// the same search only refreshes its timestamp.
func GenerateSearchHash(term string, res news.BiasGroupResult) string {
	normalizedTerm := strings.ToLower(strings.Join(strings.Fields(term), " "))

	h := sha256.New()
	h.Write([]byte(normalizedTerm + "|" + res.Left + "|" + res.Center + "|" + res.Right))
	return hex.EncodeToString(h.Sum(nil))[:16] // Use first 16 characters
}

// FileHistory keeps search records in a JSON file
type FileHistory struct {
	filePath string
	ttlHours int
	items    map[string]SearchRecord
	mu       sync.RWMutex
	saveMu   sync.Mutex // one writer for the file at a time
}

// NewFileHistory creates a new file history instance
func NewFileHistory(filePath string, ttlHours int) *FileHistory {
	return &FileHistory{
		filePath: filePath,
		ttlHours: ttlHours,
		items:    make(map[string]SearchRecord),
	}
}

// Load loads existing history from file
func (fh *FileHistory) Load() error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	data, err := os.ReadFile(fh.filePath)
	if os.IsNotExist(err) {
		// start with empty history
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var items []SearchRecord
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	cutoffTime := fh.cutoff()
	for _, item := range items {
		if item.SearchedAt.After(cutoffTime) {
			fh.items[item.Hash] = item
		}
	}

	return nil
}

// Save writes current history to file. The snapshot is written to a temp file
// in the same directory and renamed over the real path, so readers never see a
// partial file.
func (fh *FileHistory) Save() error {
	fh.saveMu.Lock()
	defer fh.saveMu.Unlock()

	items := fh.sorted()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fh.filePath), filepath.Base(fh.filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set history file mode: %w", err)
	}
	if err := os.Rename(tmpPath, fh.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	return nil
}

// Record stores rec and persists the file.
func (fh *FileHistory) Record(rec SearchRecord) error {
	fh.mu.Lock()
	fh.items[rec.Hash] = rec
	fh.mu.Unlock()

	return fh.Save()
}

// Recent returns up to limit records, newest first.
func (fh *FileHistory) Recent(limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	items := fh.sorted()
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Cleanup removes expired items from memory
func (fh *FileHistory) Cleanup() error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	cutoffTime := fh.cutoff()
	for hash, item := range fh.items {
		if item.SearchedAt.Before(cutoffTime) {
			delete(fh.items, hash)
		}
	}
	return nil
}

// GetStats returns history statistics
func (fh *FileHistory) GetStats() (map[string]int, error) {
	fh.mu.RLock()
	defer fh.mu.RUnlock()

	return map[string]int{
		"total_items": len(fh.items),
	}, nil
}

func (fh *FileHistory) Close() error {
	return fh.Save()
}

func (fh *FileHistory) cutoff() time.Time {
	return time.Now().Add(-time.Duration(fh.ttlHours) * time.Hour)
}

func (fh *FileHistory) sorted() []SearchRecord {
	fh.mu.RLock()
	items := make([]SearchRecord, 0, len(fh.items))
	for _, item := range fh.items {
		items = append(items, item)
	}
	fh.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].SearchedAt.After(items[j].SearchedAt)
	})
	return items
}
