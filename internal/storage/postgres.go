package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/deusflow/neutralnews/internal/logger"
	"github.com/deusflow/neutralnews/internal/retry"
)

// PostgresHistory keeps search records in PostgreSQL
type PostgresHistory struct {
	db       *sql.DB
	ttlHours int
}

// NewPostgresHistory connects, pinging with retries, and creates the schema.
func NewPostgresHistory(ctx context.Context, connectionString string, ttlHours int, rc retry.RetryConfig) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = retry.WithRetry(ctx, rc, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	h := &PostgresHistory{
		db:       db,
		ttlHours: ttlHours,
	}

	if err := h.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("postgres history connected")
	return h, nil
}

// initSchema creates the necessary tables if they don't exist
func (ph *PostgresHistory) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		id SERIAL PRIMARY KEY,
		hash VARCHAR(64) UNIQUE NOT NULL,
		term TEXT NOT NULL,
		left_title TEXT NOT NULL DEFAULT '',
		center_title TEXT NOT NULL DEFAULT '',
		right_title TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL,
		neutral_summary TEXT NOT NULL DEFAULT '',
		searched_at TIMESTAMP NOT NULL DEFAULT NOW(),
		search_count INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_search_history_hash ON search_history(hash);
	CREATE INDEX IF NOT EXISTS idx_search_history_searched_at ON search_history(searched_at);
	`

	if _, err := ph.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Record upserts a search; repeats bump search_count and the timestamp.
func (ph *PostgresHistory) Record(rec SearchRecord) error {
	query := `
		INSERT INTO search_history (hash, term, left_title, center_title, right_title, summary, neutral_summary, searched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (hash) DO UPDATE SET
			searched_at = EXCLUDED.searched_at,
			neutral_summary = CASE WHEN EXCLUDED.neutral_summary <> '' THEN EXCLUDED.neutral_summary ELSE search_history.neutral_summary END,
			search_count = search_history.search_count + 1
	`

	_, err := ph.db.Exec(query, rec.Hash, rec.Term, rec.Left, rec.Center, rec.Right, rec.Summary, rec.NeutralSummary, rec.SearchedAt)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// Recent returns recent searches, newest first.
func (ph *PostgresHistory) Recent(limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT hash, term, left_title, center_title, right_title, summary, neutral_summary, searched_at
		FROM search_history
		WHERE searched_at > $1
		ORDER BY searched_at DESC
		LIMIT $2
	`

	rows, err := ph.db.Query(query, ph.cutoff(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var items []SearchRecord
	for rows.Next() {
		var item SearchRecord
		err := rows.Scan(&item.Hash, &item.Term, &item.Left, &item.Center, &item.Right, &item.Summary, &item.NeutralSummary, &item.SearchedAt)
		if err != nil {
			logger.Warn("error scanning history row", "error", err)
			continue
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Cleanup removes expired rows
func (ph *PostgresHistory) Cleanup() error {
	result, err := ph.db.Exec(`DELETE FROM search_history WHERE searched_at < $1`, ph.cutoff())
	if err != nil {
		return fmt.Errorf("failed to cleanup: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		logger.Info("cleaned up old search history", "rows", rows)
	}
	return nil
}

// GetStats returns history statistics
func (ph *PostgresHistory) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	var total int
	if err := ph.db.QueryRow(`SELECT COUNT(*) FROM search_history`).Scan(&total); err != nil {
		return nil, err
	}
	stats["total_items"] = total

	var active int
	if err := ph.db.QueryRow(`SELECT COUNT(*) FROM search_history WHERE searched_at > $1`, ph.cutoff()).Scan(&active); err != nil {
		return nil, err
	}
	stats["active_items"] = active

	var searches sql.NullInt64
	if err := ph.db.QueryRow(`SELECT SUM(search_count) FROM search_history`).Scan(&searches); err != nil {
		return nil, err
	}
	stats["total_searches"] = int(searches.Int64)

	return stats, nil
}

// Close closes the database connection
func (ph *PostgresHistory) Close() error {
	if ph.db != nil {
		return ph.db.Close()
	}
	return nil
}

func (ph *PostgresHistory) cutoff() time.Time {
	return time.Now().Add(-time.Duration(ph.ttlHours) * time.Hour)
}
