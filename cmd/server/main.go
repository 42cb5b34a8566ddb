package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"casesearch/internal/bootstrap"
	"casesearch/internal/config"
	"casesearch/internal/httpapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	rt, err := bootstrap.Build(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to build retrieval core", zap.Error(err))
	}
	defer rt.Cache.Close()

	app := httpapi.New(cfg, rt.Engine, rt.ReasonerBackend, rt.Cache, zlog)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		zlog.Info("starting server", zap.String("addr", addr), zap.String("environment", cfg.Environment))
		if err := app.Listen(addr); err != nil {
			zlog.Fatal("server startup failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
