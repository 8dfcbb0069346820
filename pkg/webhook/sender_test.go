package webhook_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlane/relay/pkg/webhook"
)

func TestSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid endpoints", func(t *testing.T) {
		t.Parallel()

		s := webhook.NewSender()
		ctx := context.Background()

		assert.ErrorIs(t, s.Send(ctx, "", []byte(`{}`)), webhook.ErrInvalidURL)
		assert.ErrorIs(t, s.Send(ctx, "ftp://example.com", []byte(`{}`)), webhook.ErrInvalidURL)
		assert.ErrorIs(t, s.Send(ctx, "http://", []byte(`{}`)), webhook.ErrInvalidURL)
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		t.Parallel()

		s := webhook.NewSender()
		assert.ErrorIs(t, s.Send(context.Background(), "http://example.com", nil), webhook.ErrInvalidPayload)
	})

	t.Run("sets user agent and custom headers", func(t *testing.T) {
		t.Parallel()

		headers := make(chan http.Header, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Clone()
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		s := webhook.NewSender()
		require.NoError(t, s.Send(context.Background(), srv.URL, []byte(`{}`),
			webhook.WithHeader("X-Custom", "yes")))

		h := <-headers
		assert.Equal(t, "relay-webhook/1.0", h.Get("User-Agent"))
		assert.Equal(t, "yes", h.Get("X-Custom"))
	})

	t.Run("retryable 4xx statuses keep retrying", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) < 2 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		s := webhook.NewSender()
		err := s.Send(context.Background(), srv.URL, []byte(`{}`),
			webhook.WithBackoff(webhook.FixedBackoff{Interval: time.Millisecond}))
		require.NoError(t, err)
		assert.EqualValues(t, 2, attempts.Load())
	})

	t.Run("no retry option makes a single attempt", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		s := webhook.NewSender()
		err := s.Send(context.Background(), srv.URL, []byte(`{}`), webhook.WithNoRetry())
		assert.ErrorIs(t, err, webhook.ErrDeliveryFailed)
		assert.EqualValues(t, 1, attempts.Load())
	})

	t.Run("delivery hook observes every attempt", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		var results []webhook.DeliveryResult
		s := webhook.NewSender()
		err := s.Send(context.Background(), srv.URL, []byte(`{}`),
			webhook.WithMaxRetries(2),
			webhook.WithBackoff(webhook.FixedBackoff{Interval: time.Millisecond}),
			webhook.WithOnDelivery(func(r webhook.DeliveryResult) { results = append(results, r) }))
		require.Error(t, err)

		require.Len(t, results, 3)
		assert.Equal(t, 1, results[0].Attempt)
		assert.Equal(t, 3, results[2].Attempt)
		for _, r := range results {
			assert.False(t, r.Success)
			assert.Equal(t, http.StatusServiceUnavailable, r.StatusCode)
		}
	})

	t.Run("canceled context aborts the retry wait", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		s := webhook.NewSender()
		err := s.Send(ctx, srv.URL, []byte(`{}`),
			webhook.WithBackoff(webhook.FixedBackoff{Interval: time.Minute}))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBackoffStrategies(t *testing.T) {
	t.Parallel()

	t.Run("fixed backoff is constant", func(t *testing.T) {
		t.Parallel()

		b := webhook.FixedBackoff{Interval: time.Second}
		assert.Equal(t, time.Second, b.NextInterval(1))
		assert.Equal(t, time.Second, b.NextInterval(10))
		assert.Equal(t, time.Duration(0), b.NextInterval(0))
	})

	t.Run("exponential backoff grows and caps", func(t *testing.T) {
		t.Parallel()

		b := webhook.ExponentialBackoff{
			InitialInterval: time.Second,
			MaxInterval:     10 * time.Second,
			Multiplier:      2,
		}
		assert.Equal(t, time.Second, b.NextInterval(1))
		assert.Equal(t, 2*time.Second, b.NextInterval(2))
		assert.Equal(t, 4*time.Second, b.NextInterval(3))
		assert.Equal(t, 10*time.Second, b.NextInterval(10))
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		t.Parallel()

		b := webhook.ExponentialBackoff{
			InitialInterval: time.Second,
			MaxInterval:     time.Minute,
			Multiplier:      2,
			JitterFactor:    0.5,
		}
		for i := 0; i < 100; i++ {
			d := b.NextInterval(2)
			assert.GreaterOrEqual(t, d, time.Second)
			assert.LessOrEqual(t, d, 3*time.Second)
		}
	})

	t.Run("defaults applied for zero values", func(t *testing.T) {
		t.Parallel()

		b := webhook.ExponentialBackoff{}
		assert.Equal(t, time.Second, b.NextInterval(1))
		assert.Equal(t, 2*time.Second, b.NextInterval(2))
	})
}
