package readmodel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tretabank/logging"
)

// redisClient captures the subset of go-redis commands we rely on (for easier testing).
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCacheConfig Redis缓存装饰器配置
type RedisCacheConfig struct {
	Client    redisClient
	KeyPrefix string        // 默认 "account:"
	TTL       time.Duration // 默认 5 分钟
}

// RedisAccountCache 为账户读模型仓储增加 Redis 缓存层
//
// 缓存策略：
//   - FindByNumber 先查缓存，未命中回源并写回
//   - Save / Update 透写缓存
//   - 缓存故障不影响调用结果，降级为直接回源
type RedisAccountCache struct {
	inner     IAccountReadRepository
	client    redisClient
	keyPrefix string
	ttl       time.Duration
	logger    logging.Logger
}

// NewRedisAccountCache 创建缓存装饰器
func NewRedisAccountCache(inner IAccountReadRepository, cfg RedisCacheConfig) *RedisAccountCache {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "account:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &RedisAccountCache{
		inner:     inner,
		client:    cfg.Client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
		logger:    logging.ComponentLogger("readmodel.rediscache"),
	}
}

func (c *RedisAccountCache) key(number string) string {
	return c.keyPrefix + number
}

// FindByNumber 实现 IAccountReadRepository
func (c *RedisAccountCache) FindByNumber(ctx context.Context, number string) (*AccountRecord, error) {
	if data, err := c.client.Get(ctx, c.key(number)).Bytes(); err == nil {
		var record AccountRecord
		if err := json.Unmarshal(data, &record); err == nil {
			return &record, nil
		}
		// 缓存内容损坏时删除并回源
		c.client.Del(ctx, c.key(number))
	} else if err != redis.Nil {
		c.logger.Warn(ctx, "cache read failed, falling back to repository",
			logging.String("number", number), logging.Error(err))
	}

	record, err := c.inner.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	c.store(ctx, record)
	return record, nil
}

// Save 实现 IAccountReadRepository（透写）
func (c *RedisAccountCache) Save(ctx context.Context, record *AccountRecord) error {
	if err := c.inner.Save(ctx, record); err != nil {
		return err
	}
	c.store(ctx, record)
	return nil
}

// Update 实现 IAccountReadRepository（透写）
func (c *RedisAccountCache) Update(ctx context.Context, record *AccountRecord) error {
	if err := c.inner.Update(ctx, record); err != nil {
		return err
	}
	c.store(ctx, record)
	return nil
}

// Invalidate 删除缓存条目（对账修复投影后调用）
func (c *RedisAccountCache) Invalidate(ctx context.Context, number string) {
	if err := c.client.Del(ctx, c.key(number)).Err(); err != nil {
		c.logger.Warn(ctx, "cache invalidate failed",
			logging.String("number", number), logging.Error(err))
	}
}

func (c *RedisAccountCache) store(ctx context.Context, record *AccountRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		c.logger.Warn(ctx, "cache encode failed", logging.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(record.Number), data, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "cache write failed",
			logging.String("number", record.Number), logging.Error(err))
	}
}

// 确认实现接口
var _ IAccountReadRepository = (*RedisAccountCache)(nil)
