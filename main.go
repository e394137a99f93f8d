package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ckdcart/config"
	qhttp "ckdcart/http"
	"ckdcart/logging"
	"ckdcart/ml"
	"ckdcart/monitoring"
)

func main() {
	// 1. Load config
	cfg, err := config.Load(config.Find("config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Load the model once; the process cannot serve without it
	model, err := ml.LoadModel(cfg.ML.ModelType, cfg.ML.ModelPath)
	if err != nil {
		logger.Fatal("failed to load model", zap.String("path", cfg.ML.ModelPath), zap.Error(err))
	}
	logger.Info("model loaded",
		zap.String("path", cfg.ML.ModelPath),
		zap.Int("nodes", model.NodeCount()),
		zap.Int("depth", model.Depth()),
		zap.Strings("classes", model.ClassNames()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ML.Watch {
		watcher, err := monitoring.NewArtifactWatcher(cfg.ML.ModelPath, logger)
		if err != nil {
			logger.Warn("artifact watch disabled", zap.Error(err))
		} else {
			watcher.Start(ctx)
			defer watcher.Stop()
		}
	}

	handlers, err := qhttp.NewHandlers(qhttp.Deps{
		Model:           model,
		Tree:            model,
		Counter:         monitoring.NewPredictionCounter(),
		Logger:          logger,
		Locale:          cfg.UI.Locale,
		RenderCacheSize: cfg.UI.RenderCacheSize,
	})
	if err != nil {
		logger.Fatal("failed to build handlers", zap.Error(err))
	}

	// 3. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:        cfg.Http.Port,
		Timeout:     cfg.Http.Timeout,
		MaxBodySize: cfg.Http.MaxBodySize,
	}, handlers, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}
