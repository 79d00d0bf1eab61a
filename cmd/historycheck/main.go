package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/deusflow/neutralnews/internal/logger"
	"github.com/deusflow/neutralnews/internal/news"
	"github.com/deusflow/neutralnews/internal/retry"
	"github.com/deusflow/neutralnews/internal/storage"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Error("DATABASE_URL not set in environment")
		os.Exit(1)
	}

	fmt.Println("Testing PostgreSQL connection...")
	fmt.Printf("Database URL: %s\n\n", maskPassword(dbURL))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	history, err := storage.NewPostgresHistory(ctx, dbURL, 24*7,
		retry.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true})
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer history.Close()

	fmt.Println("Connected to PostgreSQL")

	stats, err := history.GetStats()
	if err != nil {
		logger.Warn("failed to get stats", "error", err)
	} else {
		fmt.Println("\nHistory statistics:")
		fmt.Printf("  Total items:    %d\n", stats["total_items"])
		fmt.Printf("  Active items:   %d\n", stats["active_items"])
		fmt.Printf("  Total searches: %d\n", stats["total_searches"])
	}

	recent, err := history.Recent(5)
	if err != nil {
		logger.Warn("failed to get recent searches", "error", err)
	} else {
		fmt.Println("\nRecent searches (last 5):")
		if len(recent) == 0 {
			fmt.Println("  (no searches yet)")
		}
		for i, item := range recent {
			fmt.Printf("  %d. %q  %s\n", i+1, item.Term, item.SearchedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("     %s\n", item.Summary)
		}
	}

	fmt.Println("\nChecking search hash stability...")
	res := news.BiasGroupResult{Left: "Corporate Power Criticized"}
	a := storage.GenerateSearchHash("Power", res)
	b := storage.GenerateSearchHash("  power ", res)
	fmt.Printf("  Generated hash: %s (stable: %v)\n", a, a == b)

	fmt.Println("\nDatabase is ready to use.")
}

func maskPassword(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		if len(dbURL) > 50 {
			return dbURL[:30] + "***" + dbURL[len(dbURL)-20:]
		}
		return dbURL
	}
	return u.Redacted()
}
