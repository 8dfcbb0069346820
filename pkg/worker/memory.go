package worker

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process Queue backed by a buffered channel. It serves
// tests and local development where a Redis instance is not available, with
// the same blocking-pop contract as RedisQueue.
type MemoryQueue struct {
	items  chan []byte
	mu     sync.RWMutex
	closed bool
}

// NewMemoryQueue creates an in-memory queue holding up to capacity payloads.
// Capacities below one are clamped to one.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryQueue{items: make(chan []byte, capacity)}
}

var _ Queue = (*MemoryQueue)(nil)

// Pop blocks until a payload is available, the context is canceled, or the
// queue is closed and drained.
func (q *MemoryQueue) Pop(ctx context.Context) ([]byte, error) {
	select {
	case payload, ok := <-q.items:
		if !ok {
			return nil, ErrQueueClosed
		}
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Push appends a payload, blocking if the queue is at capacity.
// The read lock is held for the duration of the send so Close cannot close
// the channel out from under an in-progress Push.
func (q *MemoryQueue) Push(ctx context.Context, payload []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of queued payloads.
func (q *MemoryQueue) Len(_ context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

// Close stops accepting new payloads. Queued payloads remain poppable;
// after the queue drains, Pop returns ErrQueueClosed.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.items)
	}
}
