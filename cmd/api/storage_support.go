package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/task-api/internal/config"
	"github.com/yourusername/task-api/internal/storage"
	"github.com/yourusername/task-api/internal/tasks"
	"github.com/yourusername/task-api/internal/users"
)

// storageBackend は選択したドライバーのストアと、終了時に閉じる接続をまとめます。
type storageBackend struct {
	users users.Store
	tasks tasks.Repository

	db  *sql.DB
	rdb *redis.Client
}

func setupStorage(ctx context.Context, cfg *config.Config, logger *log.Logger) (*storageBackend, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := storage.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		logger.Printf("Connected to PostgreSQL")
		return &storageBackend{
			users: users.NewPostgresStore(db),
			tasks: tasks.NewPostgresRepository(db),
			db:    db,
		}, nil

	case config.StoreDriverRedis:
		rdb, err := storage.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Printf("Connected to Redis")
		return &storageBackend{
			users: users.NewRedisStore(rdb),
			tasks: tasks.NewRedisRepository(rdb),
			rdb:   rdb,
		}, nil

	case config.StoreDriverMemory:
		logger.Printf("Using in-memory storage; data is lost on restart")
		return &storageBackend{
			users: users.NewMemoryStore(),
			tasks: tasks.NewMemoryRepository(),
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
}

// Close は保持している接続を閉じます。
func (b *storageBackend) Close() error {
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
	}
	if b.rdb != nil {
		return b.rdb.Close()
	}
	return nil
}
