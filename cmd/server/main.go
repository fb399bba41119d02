package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ragloop/selfrag/internal/config"
	"github.com/ragloop/selfrag/internal/llm"
	"github.com/ragloop/selfrag/internal/processing"
	"github.com/ragloop/selfrag/internal/server"
	"github.com/ragloop/selfrag/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	redisClient := newRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	llmCfg := llm.Config{OpenAIKey: cfg.OpenAIKey, OllamaURL: cfg.OllamaURL}
	if cfg.OpenAIKey != "" {
		logger.Info("using OpenAI for generation and embeddings")
	} else {
		logger.Info("using local Ollama for generation and embeddings",
			zap.String("url", cfg.OllamaURL))
	}

	srv := server.New(cfg, logger, pool, redisClient,
		processing.NewEmbedder(cfg.OpenAIKey, cfg.OllamaURL),
		llm.New(llmCfg, llm.RoleReasoning),
		llm.New(llmCfg, llm.RoleGrader),
	)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("shutting down gracefully")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zapCfg.Build()
}

// newRedis connects the optional answer cache. The service works without it.
func newRedis(cfg config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Warn("redis unavailable, answer caching disabled", zap.Error(err))
		client.Close()
		return nil
	}
	logger.Info("connected to redis cache", zap.String("addr", cfg.RedisURL))
	return client
}
