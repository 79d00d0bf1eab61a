package app

import (
	"context"
	"fmt"

	"github.com/deusflow/neutralnews/internal/config"
	"github.com/deusflow/neutralnews/internal/logger"
	"github.com/deusflow/neutralnews/internal/retry"
	"github.com/deusflow/neutralnews/internal/storage"
)

// HistoryStore provides a unified interface for the search history backends
type HistoryStore interface {
	Record(rec storage.SearchRecord) error
	Recent(limit int) ([]storage.SearchRecord, error)
	Cleanup() error
	GetStats() (map[string]int, error)
	Close() error
}

var (
	_ HistoryStore = (*storage.FileHistory)(nil)
	_ HistoryStore = (*storage.PostgresHistory)(nil)
	_ HistoryStore = noopHistory{}
)

// noopHistory is used when HISTORY_BACKEND=none
type noopHistory struct{}

func (noopHistory) Record(storage.SearchRecord) error { return nil }
func (noopHistory) Recent(int) ([]storage.SearchRecord, error) { return nil, nil }
func (noopHistory) Cleanup() error { return nil }
func (noopHistory) GetStats() (map[string]int, error) { return map[string]int{}, nil }
func (noopHistory) Close() error { return nil }

// openHistory picks the history backend from the configuration.
func openHistory(ctx context.Context, cfg *config.Config) (HistoryStore, error) {
	switch cfg.HistoryBackend {
	case config.HistoryPostgres:
		rc := retry.RetryConfig{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}
		ph, err := storage.NewPostgresHistory(ctx, cfg.DatabaseURL, cfg.HistoryTTLHours, rc)
		if err != nil {
			return nil, fmt.Errorf("postgres history: %w", err)
		}
		return ph, nil

	case config.HistoryFile:
		fh := storage.NewFileHistory(cfg.HistoryFilePath, cfg.HistoryTTLHours)
		if err := fh.Load(); err != nil {
			logger.Warn("could not load search history, starting empty", "path", cfg.HistoryFilePath, "error", err)
		}
		return fh, nil

	default:
		return noopHistory{}, nil
	}
}
