package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pdftext/api"
	"pdftext/config"
	"pdftext/file"
	processor "pdftext/process"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.LogLevel, err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// Extraction
	// =========
	pdfClient := processor.NewClient(processor.NewLedongthucExtractor(logger))
	core := file.NewCore(pdfClient, logger)

	// =========
	// HTTP
	// =========
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg, core, logger)
	if err := server.Start(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
