package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/clipdeck/videos-service/internal/config"
)

// ScratchSweeper removes staging files that outlived their request. In
// normal operation the ingestion pipeline deletes its own file on every
// exit path; anything still here after maxAge was left by a crashed or
// killed process.
type ScratchSweeper struct {
	scratchDir string
	maxAge     time.Duration
	interval   time.Duration
	logger     *slog.Logger
}

func NewScratchSweeper(scratchDir string, maxAge, interval time.Duration) *ScratchSweeper {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &ScratchSweeper{
		scratchDir: scratchDir,
		maxAge:     maxAge,
		interval:   interval,
		logger:     logger,
	}
}

func (sw *ScratchSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.logger.Info("Scratch sweeper started",
		"scratch_dir", sw.scratchDir,
		"max_age", sw.maxAge.String(),
		"interval", sw.interval.String())

	// Run once immediately on startup
	sw.sweep()

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info("Scratch sweeper shutting down")
			return
		case <-ticker.C:
			sw.sweep()
		}
	}
}

func (sw *ScratchSweeper) sweep() {
	startTime := time.Now()
	cutoff := startTime.Add(-sw.maxAge)

	entries, err := os.ReadDir(sw.scratchDir)
	if err != nil {
		sw.logger.Error("Failed to read scratch dir",
			"error", err.Error(),
			"scratch_dir", sw.scratchDir)
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(sw.scratchDir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			sw.logger.Error("Failed to remove stale staging file",
				"error", err.Error(),
				"path", path)
			continue
		}
		removed++
	}

	sw.logger.Info("Completed scratch sweep",
		"files_removed", removed,
		"duration_ms", time.Since(startTime).Milliseconds())
}

func main() {
	// Load config
	cfg := config.MustLoad()

	maxAge, err := time.ParseDuration(cfg.Uploads.ScratchMaxAge)
	if err != nil {
		log.Fatal("Invalid scratch_max_age:", err)
	}

	sweeper := NewScratchSweeper(cfg.Uploads.ScratchDir, maxAge, time.Minute)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	sweeper.Start(ctx)

	slog.Info("Scratch sweeper stopped")
}
