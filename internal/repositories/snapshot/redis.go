package snapshot

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	redisclient "github.com/jianghu-rpg/jianghu-api/internal/redis"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

const snapshotKey = "world:snapshot"

type redisRepository struct {
	client redisclient.Client
	logger *zap.Logger
}

// RedisConfig contains configuration for the Redis snapshot repository
type RedisConfig struct {
	Client redisclient.Client
	Logger *zap.Logger
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.Logger == nil {
		return errors.InvalidArgument("logger cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed snapshot repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client, logger: cfg.Logger}, nil
}

func (r *redisRepository) Load(ctx context.Context) (*world.Snapshot, error) {
	result, err := r.client.Get(ctx, snapshotKey).Result()
	if err != nil {
		if err == goredis.Nil {
			r.logger.Info("no stored snapshot, starting with defaults")
			return world.NewSnapshot(), nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to load snapshot")
	}

	snap := world.NewSnapshot()
	if err := json.Unmarshal([]byte(result), snap); err != nil {
		r.logger.Warn("stored snapshot is malformed, starting with defaults", zap.Error(err))
		return world.NewSnapshot(), nil
	}
	return snap, nil
}

func (r *redisRepository) Save(ctx context.Context, snap *world.Snapshot) error {
	if snap == nil {
		return errors.InvalidArgument("snapshot cannot be nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal snapshot")
	}

	if err := r.client.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to save snapshot")
	}
	return nil
}
