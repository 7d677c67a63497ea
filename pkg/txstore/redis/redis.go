package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txstore"
)

const (
	keyPrefixTransaction = "txauth:tx:"
	keySchemaVersion     = "txauth:metadata:schema_version"
	currentSchemaVersion = "v1"

	// redis has no ordered prefix scan, so ids are also kept in a set
	keySetTransactions = "txauth:tx:index"

	opTimeout = 5 * time.Second
)

// RedisStore keeps records in Redis so several processes can share them.
type RedisStore struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
	now       func() time.Time
}

var _ txstore.ITransactionStore = (*RedisStore)(nil)

type RedisConfig struct {
	// Address is host:port.
	Address  string
	Password string
	DB       int
	// KeyPrefix is prepended to every key, e.g. "tenant-a:".
	KeyPrefix string
}

func NewRedisStore(cfg *RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rs := &RedisStore{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
		now:       time.Now,
	}
	if err := rs.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis transaction store initialized",
		"address", cfg.Address,
		"db", cfg.DB,
		"keyPrefix", cfg.KeyPrefix,
	)
	return rs, nil
}

func (r *RedisStore) prefixKey(key string) string {
	return r.keyPrefix + key
}

func (r *RedisStore) txKey(id string) string {
	return r.prefixKey(keyPrefixTransaction + id)
}

func (r *RedisStore) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existing, err := r.client.Get(ctx, schemaKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if existing != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
	}
	return nil
}

func (r *RedisStore) SaveTransaction(tx *protocol.Transaction) (string, error) {
	rec, err := txstore.NewRecord(tx, r.now())
	if err != nil {
		return "", err
	}
	data, err := txstore.MarshalRecord(rec)
	if err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return "", txstore.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.txKey(rec.ID), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetTransactions), rec.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to save transaction %s: %w", rec.ID, err)
	}
	return rec.ID, nil
}

func (r *RedisStore) LoadTransaction(id string) (*txstore.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, txstore.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.txKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", id, err)
	}
	return txstore.UnmarshalRecord(data)
}

func (r *RedisStore) ListTransactionIDs() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, txstore.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	ids, err := r.client.SMembers(ctx, r.prefixKey(keySetTransactions)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RedisStore) DeleteTransaction(id string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return txstore.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.txKey(id))
	pipe.SRem(ctx, r.prefixKey(keySetTransactions), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	r.logger.Sugar().Info("Redis transaction store closed")
	return nil
}

func (r *RedisStore) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return txstore.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	}
	return nil
}
