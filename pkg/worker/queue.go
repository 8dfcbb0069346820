package worker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Queue is the external FIFO the worker consumes. Pop blocks until a payload
// is available, the context is canceled, or the transport fails; a popped
// payload is removed atomically and is never returned to the queue by this
// package. Push appends at the tail, preserving FIFO order for consumers.
type Queue interface {
	Pop(ctx context.Context) ([]byte, error)
	Push(ctx context.Context, payload []byte) error
	Len(ctx context.Context) (int64, error)
}

// RedisQueue implements Queue over a single Redis list. Producers RPUSH at
// the tail and the worker BLPOPs the head, so items come off in arrival
// order. Multiple worker processes may pop the same list; Redis hands each
// item to exactly one of them.
type RedisQueue struct {
	client redis.UniversalClient
	key    string
}

// NewRedisQueue constructs a Redis-backed queue over the named list.
func NewRedisQueue(client redis.UniversalClient, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

var _ Queue = (*RedisQueue)(nil)

// Pop blocks on BLPOP with no timeout until a payload arrives or the
// context is canceled. Transport failures surface as errors for the worker
// loop to back off on.
func (q *RedisQueue) Pop(ctx context.Context) ([]byte, error) {
	// BLPop returns [key, value].
	res, err := q.client.BLPop(ctx, 0, q.key).Result()
	if err != nil {
		return nil, fmt.Errorf("blpop %q: %w", q.key, err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("blpop %q: unexpected result shape (%d elements)", q.key, len(res))
	}
	return []byte(res[1]), nil
}

// Push appends a payload at the tail of the list.
func (q *RedisQueue) Push(ctx context.Context, payload []byte) error {
	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("rpush %q: %w", q.key, err)
	}
	return nil
}

// Len returns the current queue depth.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %q: %w", q.key, err)
	}
	return n, nil
}

// Key returns the Redis list key this queue reads from.
func (q *RedisQueue) Key() string {
	return q.key
}
