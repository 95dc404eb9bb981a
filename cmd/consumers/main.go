package main

import (
	"os"
	"os/signal"
	"syscall"

	"sawari/internal/config"
	"sawari/internal/consumers"
	"sawari/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	service, err := consumers.NewService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize consumers", "error", err)
	}

	if err := service.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	service.Stop()
}
