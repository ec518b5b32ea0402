package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formpulse/internal/model"
)

// PublicFormCache holds active forms by public slug for the respondent path.
// A tombstoned slug reads as gone until its tombstone expires, and Set never
// overwrites an existing entry, so a reader holding a copy loaded before a
// delete or deactivation cannot bring the form back.
type PublicFormCache interface {
	// Get returns the cached form, or gone=true for a tombstoned slug
	Get(ctx context.Context, slug string) (form *model.Form, gone bool, err error)
	// Set fills an empty slot after a store read
	Set(ctx context.Context, form *model.Form) error
	// Replace overwrites the slot with a freshly written active form
	Replace(ctx context.Context, form *model.Form) error
	// Tombstone marks a deleted or deactivated form for at least the cache TTL
	Tombstone(ctx context.Context, slug string) error
}

const tombstone = "gone"

type publicFormCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPublicFormCache creates a new public form cache
func NewPublicFormCache(client *redis.Client, ttl time.Duration) PublicFormCache {
	return &publicFormCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *publicFormCache) key(slug string) string {
	return fmt.Sprintf("form:public:%s", slug)
}

func (c *publicFormCache) Get(ctx context.Context, slug string) (*model.Form, bool, error) {
	data, err := c.client.Get(ctx, c.key(slug)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if data == tombstone {
		return nil, true, nil
	}
	var form model.Form
	if err := json.Unmarshal([]byte(data), &form); err != nil {
		return nil, false, err
	}
	return &form, false, nil
}

func (c *publicFormCache) Set(ctx context.Context, form *model.Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, c.key(form.PublicSlug), data, c.ttl).Err()
}

func (c *publicFormCache) Replace(ctx context.Context, form *model.Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(form.PublicSlug), data, c.ttl).Err()
}

func (c *publicFormCache) Tombstone(ctx context.Context, slug string) error {
	return c.client.Set(ctx, c.key(slug), tombstone, c.ttl).Err()
}
