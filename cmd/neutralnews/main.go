package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deusflow/neutralnews/internal/app"
	"github.com/deusflow/neutralnews/internal/config"
	"github.com/deusflow/neutralnews/internal/logger"
)

func main() {
	mode := flag.String("mode", app.ModeTopics, "topics | search | serve")
	query := flag.String("q", "", "search term for -mode search")
	flag.Parse()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, *mode, *query, os.Stdout); err != nil {
		logger.Error("run failed", "mode", *mode, "error", err)
		stop()
		os.Exit(1)
	}
}
