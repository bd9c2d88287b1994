package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/adminhub/identity-service/internal/api/metrics"
	"github.com/adminhub/identity-service/internal/core/domain"
	"github.com/adminhub/identity-service/internal/core/ports"
)

const defaultCacheTTL = 5 * time.Minute

// IdentityCache decorates a UserDirectory with a read-through Redis cache on
// FindByID, the lookup every authenticated request performs. Entries expire
// after the TTL, so a deleted account keeps verifying for at most that long.
// Redis failures degrade to a plain directory read; they never fail a request.
//
// Key format: user:id:<hex id>
type IdentityCache struct {
	inner  ports.UserDirectory
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewIdentityCache wraps inner with a cache on the given client. A
// non-positive ttl falls back to defaultCacheTTL.
func NewIdentityCache(inner ports.UserDirectory, client *redis.Client, ttl time.Duration, log zerolog.Logger) *IdentityCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &IdentityCache{inner: inner, client: client, ttl: ttl, log: log}
}

func (c *IdentityCache) FindByID(ctx context.Context, id string) (*domain.User, error) {
	key := c.key(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err == nil {
			metrics.DirectoryCacheTotal.WithLabelValues("hit").Inc()
			return &user, nil
		}
		// Corrupt entry: drop it and fall through to the directory.
		_ = c.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		c.log.Debug().Err(err).Msg("identity cache read failed; falling back to directory")
	}

	metrics.DirectoryCacheTotal.WithLabelValues("miss").Inc()
	user, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The secret hash is JSON-omitted on domain.User, so it never reaches
	// Redis; the authenticator only needs existence and role.
	if raw, err := json.Marshal(user); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Debug().Err(err).Msg("identity cache write failed")
		}
	}
	return user, nil
}

func (c *IdentityCache) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return c.inner.FindByUsername(ctx, username)
}

func (c *IdentityCache) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return c.inner.Create(ctx, user)
}

func (c *IdentityCache) List(ctx context.Context) ([]*domain.User, error) {
	return c.inner.List(ctx)
}

func (c *IdentityCache) key(id string) string {
	return fmt.Sprintf("user:id:%s", id)
}
