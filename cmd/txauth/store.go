package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/config"
	"github.com/efeint01/TronClientSdk/pkg/txstore"
	"github.com/efeint01/TronClientSdk/pkg/txstore/badger"
	"github.com/efeint01/TronClientSdk/pkg/txstore/memory"
	"github.com/efeint01/TronClientSdk/pkg/txstore/redis"
)

var errEphemeralStore = errors.New("memory store does not persist across invocations; use --store badger or redis")

// openPersistentStore opens the configured store for commands whose results
// must outlive the process.
func openPersistentStore(cfg *config.Config, l *zap.Logger) (txstore.ITransactionStore, error) {
	if cfg.StoreType == config.StoreType_Memory {
		return nil, errEphemeralStore
	}
	return newStore(cfg, l)
}

// newStore opens the configured transaction store.
func newStore(cfg *config.Config, l *zap.Logger) (txstore.ITransactionStore, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}

	switch cfg.StoreType {
	case config.StoreType_Memory:
		return memory.NewMemoryStore(l), nil
	case config.StoreType_Badger:
		return badger.NewBadgerStore(cfg.BadgerPath, l)
	case config.StoreType_Redis:
		return redis.NewRedisStore(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, l)
	}
	return nil, fmt.Errorf("unsupported store type: %s", cfg.StoreType)
}
