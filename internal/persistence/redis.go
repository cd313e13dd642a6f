package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const roleCachePrefix = "role:permissions:"

// RoleCache resolves a role id to its permission codes, caching the set in
// Redis so the auth middleware does not hit Postgres on every request. Cache
// failures fall through to the repository silently.
type RoleCache struct {
	redis  *Redis
	roles  repository.RoleRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewRoleCache builds the cache.
func NewRoleCache(r *Redis, roles repository.RoleRepository, ttl time.Duration, logger *zap.Logger) *RoleCache {
	return &RoleCache{redis: r, roles: roles, ttl: ttl, logger: logger}
}

// PermissionsForRole returns the permission codes of the role, from cache
// when fresh.
func (c *RoleCache) PermissionsForRole(ctx context.Context, roleID string) ([]string, error) {
	key := roleCachePrefix + roleID

	if c.redis != nil && c.redis.Client != nil {
		if raw, err := c.redis.Client.Get(ctx, key).Bytes(); err == nil {
			var codes []string
			if err := json.Unmarshal(raw, &codes); err == nil {
				return codes, nil
			}
		}
	}

	role, err := c.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if c.redis != nil && c.redis.Client != nil {
		if raw, err := json.Marshal(role.Permissions); err == nil {
			if err := c.redis.Client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				c.logger.Debug("role cache set failed", zap.Error(err))
			}
		}
	}
	return role.Permissions, nil
}

// Invalidate drops the cached permission set for a role. Called after role
// updates and deletes so permission edits take effect within one request.
func (c *RoleCache) Invalidate(ctx context.Context, roleID string) {
	if c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, roleCachePrefix+roleID).Err(); err != nil {
		c.logger.Debug("role cache invalidate failed", zap.Error(err))
	}
}
