package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MitroiBogdan/NEXAR/internal/platform/logging"
	core "github.com/MitroiBogdan/NEXAR/internal/profile"
)

const (
	defaultRedisTimeout = 5 * time.Second
	displayNameTTL      = 24 * time.Hour
)

// RedisConfig captures the settings for the display-name cache connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// ConnectRedis opens a client and validates it with a ping.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisNameCache keeps the display name of each owner in Redis so other pages
// can render the signed-in user's name without loading the profile.
// Key format: profile:display_name:<owner_id>
type RedisNameCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNameCache(client *redis.Client) *RedisNameCache {
	return &RedisNameCache{client: client, ttl: displayNameTTL}
}

// OnOutcome stores the new name after a successful save. Cache failures are
// logged and never fail the edit.
func (c *RedisNameCache) OnOutcome(ctx context.Context, out core.Outcome) {
	if out.Kind != core.OutcomeSaved || out.Profile == nil {
		return
	}
	if err := c.Set(ctx, out.OwnerID, out.Profile.Name); err != nil {
		logging.LogWarn(ctx, "display name cache write failed",
			zap.String("ownerId", out.OwnerID), zap.Error(err))
	}
}

func (c *RedisNameCache) Set(ctx context.Context, ownerID, name string) error {
	return c.client.Set(ctx, c.key(ownerID), name, c.ttl).Err()
}

// DisplayName returns the cached name; ok is false on a miss.
func (c *RedisNameCache) DisplayName(ctx context.Context, ownerID string) (name string, ok bool, err error) {
	name, err = c.client.Get(ctx, c.key(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("display name lookup: %w", err)
	}
	return name, true, nil
}

// Ping reports whether Redis is reachable.
func (c *RedisNameCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisNameCache) key(ownerID string) string {
	return "profile:display_name:" + ownerID
}

var _ NameCache = (*RedisNameCache)(nil)
