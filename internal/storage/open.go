package storage

import (
	"context"
	"fmt"

	"github.com/ikkim/freshcart-backend/config"
	"github.com/ikkim/freshcart-backend/internal/db"
	"github.com/ikkim/freshcart-backend/pkg/logger"
	appRedis "github.com/ikkim/freshcart-backend/pkg/redis"
)

// Open connects the backend selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	logger.Info("Opening durable store", map[string]interface{}{
		"driver": cfg.Store.Driver,
	})

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("Memory store selected: catalog and cart will not survive a restart")
		return NewMemoryStore(), nil

	case config.StoreDriverRedis:
		client, err := appRedis.Init(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Store.KeyPrefix, appRedis.Close), nil

	case config.StoreDriverPostgres:
		conn, err := db.Initialize(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(conn); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate snapshot table: %w", err)
		}
		return NewPostgresStore(conn), nil

	case config.StoreDriverS3:
		client := NewS3Client(ctx, cfg.S3)
		return NewS3Store(client, cfg.S3.Bucket, cfg.Store.KeyPrefix), nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
