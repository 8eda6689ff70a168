package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"interview-assistant/internal/config"
	"interview-assistant/internal/interview"
	"interview-assistant/internal/metrics"
	"interview-assistant/internal/storage"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	repo    *storage.Repository
}

func newApp(path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	kv, err := openStore(cfg.Storage)
	if err != nil {
		logger.Sync()
		return nil, err
	}
	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewMetrics(),
		repo:    storage.NewRepository(kv, logger.Named("storage")),
	}, nil
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch storage.StoreType(cfg.Driver) {
	case storage.StoreTypeFile:
		return storage.NewStore(storage.StoreTypeFile, storage.WithDir(cfg.Dir))

	case storage.StoreTypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return storage.NewStore(storage.StoreTypeRedis,
			storage.WithRedisClient(client),
			storage.WithRedisTTL(cfg.RedisTTL))

	case storage.StoreTypeSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return storage.NewStore(storage.StoreTypeSQLite, storage.WithDB(db))

	default:
		return storage.NewStore(storage.StoreType(cfg.Driver))
	}
}

func (a *app) newController(opts ...interview.Option) *interview.Controller {
	base := []interview.Option{
		interview.WithLogger(a.logger.Named("interview")),
		interview.WithMetrics(a.metrics),
		interview.WithQuestionDelay(a.cfg.Interview.QuestionDelay),
		interview.WithTickInterval(a.cfg.Interview.TickInterval),
	}
	return interview.NewController(a.repo, append(base, opts...)...)
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		a.logger.Warn("failed to close storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}
