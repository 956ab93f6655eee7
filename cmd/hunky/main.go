package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hunky/internal/app"
	"hunky/internal/config"
	"hunky/internal/git"
	"hunky/internal/observability"
	"hunky/internal/ratelimit"
	"hunky/internal/refresh"
	"hunky/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	path := "."
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	repo, err := git.Open(path, logger)
	if err != nil {
		logger.Error("open repository failed", "path", path, "err", err)
		os.Exit(1)
	}

	sess := session.New(repo, logger)

	limiter := ratelimit.New(cfg.RebuildRPS, cfg.RebuildBurst)
	pipeline := refresh.New(
		repo.Root(),
		sess,
		logger,
		time.Duration(cfg.DebounceMS)*time.Millisecond,
		limiter,
	)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := pipeline.Start(ctx); err != nil {
		logger.Error("start refresh pipeline failed", "err", err)
		os.Exit(1)
	}

	// Seed the first snapshot before any file event arrives.
	pipeline.Rebuild(ctx)

	srv := app.NewServer(cfg, logger, sess, pipeline)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
