package worker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlane/relay/pkg/worker"
)

type webhookEvent struct {
	WebhookID      string         `json:"webhook_id"`
	Provider       string         `json:"provider"`
	EventID        string         `json:"event_id"`
	OrganizationID string         `json:"organization_id"`
	Payload        map[string]any `json:"payload"`
}

func TestNewEnqueuer(t *testing.T) {
	t.Parallel()

	t.Run("nil queue", func(t *testing.T) {
		t.Parallel()

		e, err := worker.NewEnqueuer(nil)
		assert.ErrorIs(t, err, worker.ErrQueueNil)
		assert.Nil(t, e)
	})
}

func TestEnqueuer_Enqueue(t *testing.T) {
	t.Parallel()

	t.Run("round-trips through the queue", func(t *testing.T) {
		t.Parallel()

		q := worker.NewMemoryQueue(10)
		e, err := worker.NewEnqueuer(q)
		require.NoError(t, err)

		ctx := context.Background()
		event := webhookEvent{
			WebhookID:      "w1",
			Provider:       "github",
			EventID:        "e1",
			OrganizationID: "o1",
			Payload:        map[string]any{"action": "push"},
		}
		require.NoError(t, e.Enqueue(ctx, event))

		b, err := q.Pop(ctx)
		require.NoError(t, err)

		env, err := worker.DecodeEnvelope(b)
		require.NoError(t, err)
		assert.True(t, env.Validate([]string{"webhook_id", "provider", "event_id", "organization_id", "payload"}))

		id, ok := env.String("webhook_id")
		require.True(t, ok)
		assert.Equal(t, "w1", id)
	})

	t.Run("nil payload", func(t *testing.T) {
		t.Parallel()

		e, err := worker.NewEnqueuer(worker.NewMemoryQueue(1))
		require.NoError(t, err)

		assert.ErrorIs(t, e.Enqueue(context.Background(), nil), worker.ErrPayloadNil)
	})

	t.Run("unmarshalable payload", func(t *testing.T) {
		t.Parallel()

		e, err := worker.NewEnqueuer(worker.NewMemoryQueue(1))
		require.NoError(t, err)

		assert.ErrorIs(t, e.Enqueue(context.Background(), make(chan int)), worker.ErrPayloadMarshal)
	})

	t.Run("non-object payload rejected on the producer side", func(t *testing.T) {
		t.Parallel()

		q := worker.NewMemoryQueue(1)
		e, err := worker.NewEnqueuer(q)
		require.NoError(t, err)

		ctx := context.Background()
		assert.ErrorIs(t, e.Enqueue(ctx, []string{"not", "an", "object"}), worker.ErrNotAnObject)
		assert.ErrorIs(t, e.Enqueue(ctx, "scalar"), worker.ErrNotAnObject)

		n, err := q.Len(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n, "rejected payloads must not reach the queue")
	})
}
