package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Enqueuer pushes kind-tagged JSON payloads onto a queue for workers to
// consume. Producers and workers can live in separate processes; they share
// only the queue itself.
type Enqueuer struct {
	queue Queue
}

// NewEnqueuer creates an Enqueuer over the given queue.
func NewEnqueuer(queue Queue) (*Enqueuer, error) {
	if queue == nil {
		return nil, ErrQueueNil
	}
	return &Enqueuer{queue: queue}, nil
}

// Enqueue marshals the payload and appends it at the queue tail. The payload
// must marshal to a JSON object, since workers reject anything else before
// dispatch; catching it here keeps the failure on the producer side where it
// is actionable.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any) error {
	if payload == nil {
		return ErrPayloadNil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(ErrPayloadMarshal, err)
	}
	if _, err := DecodeEnvelope(b); err != nil {
		return fmt.Errorf("payload of type %T: %w", payload, err)
	}

	return e.queue.Push(ctx, b)
}
