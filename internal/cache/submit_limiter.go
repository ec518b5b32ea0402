package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionLimiter caps public submissions per form and source address
type SubmissionLimiter interface {
	Allow(ctx context.Context, slug, address string) (bool, error)
}

type submissionLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewSubmissionLimiter allows limit submissions per window; limit <= 0 disables it
func NewSubmissionLimiter(client *redis.Client, limit int, window time.Duration) SubmissionLimiter {
	return &submissionLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (l *submissionLimiter) key(slug, address string) string {
	return fmt.Sprintf("form:%s:submits:%s", slug, address)
}

// Allow counts the attempt in a fixed window starting at the first attempt
func (l *submissionLimiter) Allow(ctx context.Context, slug, address string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	key := l.key(slug, address)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}
