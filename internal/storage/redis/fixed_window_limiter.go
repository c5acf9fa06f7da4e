package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type FixedWindowLimiter struct {
	client goredis.Cmdable
	prefix string
	window time.Duration
	now    func() time.Time
}

func NewFixedWindowLimiter(client goredis.Cmdable, prefix string, window time.Duration) *FixedWindowLimiter {
	if prefix == "" {
		prefix = "rate"
	}
	if window < time.Second {
		window = time.Minute
	}
	return &FixedWindowLimiter{
		client: client,
		prefix: prefix,
		window: window,
		now:    time.Now,
	}
}

// Incr increments the counter for key in the current window and returns it.
func (l *FixedWindowLimiter) Incr(ctx context.Context, key string) (int64, error) {
	bucketKey := l.bucketKey(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, bucketKey)
	// The bucket is in the key; the TTL only reclaims old windows.
	pipe.Expire(ctx, bucketKey, 2*l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (l *FixedWindowLimiter) bucketKey(key string) string {
	if key == "" {
		key = "unknown"
	}
	windowSeconds := int64(l.window / time.Second)
	bucket := l.now().UTC().Unix() / windowSeconds
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)
}
