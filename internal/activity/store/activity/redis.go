package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"rollcall/internal/activity/models"
)

// catalogKey holds the serialized List snapshot.
const catalogKey = "rollcall:activities"

// Store is the directory contract the cache decorates. It matches the
// service-side interface so Cached can wrap any backend.
type Store interface {
	Create(ctx context.Context, a *models.Activity) error
	List(ctx context.Context) ([]*models.Activity, error)
	FindByName(ctx context.Context, name string) (*models.Activity, error)
	AddParticipant(ctx context.Context, name, addr string) error
	RemoveParticipant(ctx context.Context, name, addr string) error
}

// Cached is a cache-aside decorator for the catalog listing. List is by far
// the hottest operation (every page load), so its snapshot is kept in Redis
// with a TTL and invalidated by any mutation. All other operations delegate
// straight through.
//
// Cache failures degrade to the underlying store: a roster must never be
// unreadable because Redis is down.
type Cached struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with a Redis catalog cache.
func NewCached(next Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *Cached) List(ctx context.Context) ([]*models.Activity, error) {
	payload, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == nil {
		var cached []*models.Activity
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// Corrupt payload: fall through to the source and overwrite.
	} else if err != redis.Nil && c.logger != nil {
		c.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
	}

	list, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := c.client.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
		}
	}
	return list, nil
}

func (c *Cached) Create(ctx context.Context, a *models.Activity) error {
	if err := c.next.Create(ctx, a); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Cached) FindByName(ctx context.Context, name string) (*models.Activity, error) {
	return c.next.FindByName(ctx, name)
}

func (c *Cached) AddParticipant(ctx context.Context, name, addr string) error {
	if err := c.next.AddParticipant(ctx, name, addr); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Cached) RemoveParticipant(ctx context.Context, name, addr string) error {
	if err := c.next.RemoveParticipant(ctx, name, addr); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Cached) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}
