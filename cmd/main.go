package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newscrawl/config"
	"newscrawl/crawler"
	"newscrawl/file"
	"newscrawl/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// =========
	// Config
	// =========
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Ready() {
		logger.Debug("URL or SEARCH_PHARSE not set, nothing to do")
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("crawl failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	selectors, err := config.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return err
	}

	// =========
	// Output
	// =========
	workbook, err := storage.NewWorkbook(cfg.OutputDir, time.Now())
	if err != nil {
		return err
	}
	images := file.NewImageStore(cfg.ImagesDir)

	// =========
	// Run journal
	// =========
	var journal crawler.RunJournal
	if cfg.JournalPath != "" {
		j, err := storage.OpenJournal(cfg.JournalPath)
		if err != nil {
			logger.Warn("run journal disabled", zap.String("path", cfg.JournalPath), zap.Error(err))
		} else {
			defer j.Close()
			journal = j
		}
	}

	// =========
	// Chromedp
	// =========
	browser := crawler.NewBrowser(logger, cfg, selectors)

	// =========
	// Crawler
	// =========
	c := crawler.NewCrawler(
		cfg.URL,
		browser,
		crawler.NewExtractor(images, logger),
		workbook,
		journal,
		logger,
	)
	return c.Run(ctx, cfg.Criteria)
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
