package script_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlane/relay/pkg/script"
	"github.com/promptlane/relay/pkg/worker"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newHandler() (*script.Handler, *safeBuffer) {
	buf := &safeBuffer{}
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return script.New(script.WithLogger(log)), buf
}

func mustEnvelope(t *testing.T, raw string) worker.Envelope {
	t.Helper()
	env, err := worker.DecodeEnvelope([]byte(raw))
	require.NoError(t, err)
	return env
}

func TestHandler_Contract(t *testing.T) {
	t.Parallel()

	h, _ := newHandler()
	assert.Equal(t, "script", h.Kind())
	assert.Equal(t, []string{"command"}, h.RequiredFields())
}

func TestHandler_Execute(t *testing.T) {
	t.Parallel()

	t.Run("streams stdout lines to the logger", func(t *testing.T) {
		t.Parallel()

		h, buf := newHandler()
		env := mustEnvelope(t, `{"command":"sh","args":["-c","echo one; echo two"]}`)

		require.NoError(t, h.Execute(context.Background(), env))

		out := buf.String()
		assert.Contains(t, out, "line=one")
		assert.Contains(t, out, "line=two")
		assert.Contains(t, out, "stream=stdout")
	})

	t.Run("streams stderr independently of stdout", func(t *testing.T) {
		t.Parallel()

		h, buf := newHandler()
		env := mustEnvelope(t, `{"command":"sh","args":["-c","echo out; echo err >&2"]}`)

		require.NoError(t, h.Execute(context.Background(), env))

		out := buf.String()
		assert.Contains(t, out, "stream=stdout")
		assert.Contains(t, out, "stream=stderr")
		assert.Contains(t, out, "line=err")
	})

	t.Run("preserves per-stream line order", func(t *testing.T) {
		t.Parallel()

		h, buf := newHandler()
		env := mustEnvelope(t, `{"command":"sh","args":["-c","echo a; echo b; echo c"]}`)

		require.NoError(t, h.Execute(context.Background(), env))

		out := buf.String()
		ia := strings.Index(out, "line=a")
		ib := strings.Index(out, "line=b")
		ic := strings.Index(out, "line=c")
		require.GreaterOrEqual(t, ia, 0)
		assert.Less(t, ia, ib)
		assert.Less(t, ib, ic)
	})

	t.Run("non-zero exit code maps to ErrCommandFailed", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler()
		env := mustEnvelope(t, `{"command":"sh","args":["-c","exit 3"]}`)

		err := h.Execute(context.Background(), env)
		require.ErrorIs(t, err, script.ErrCommandFailed)
		assert.Contains(t, err.Error(), "exit code 3")
	})

	t.Run("output before failure is still flushed", func(t *testing.T) {
		t.Parallel()

		h, buf := newHandler()
		env := mustEnvelope(t, `{"command":"sh","args":["-c","echo partial; exit 1"]}`)

		err := h.Execute(context.Background(), env)
		require.ErrorIs(t, err, script.ErrCommandFailed)
		assert.Contains(t, buf.String(), "line=partial")
	})

	t.Run("missing binary fails with start error", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler()
		env := mustEnvelope(t, `{"command":"definitely-not-a-real-binary-529"}`)

		err := h.Execute(context.Background(), env)
		require.Error(t, err)
		assert.NotErrorIs(t, err, script.ErrCommandFailed)
	})

	t.Run("non-string command field", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler()
		env := mustEnvelope(t, `{"command":42}`)

		assert.ErrorIs(t, h.Execute(context.Background(), env), script.ErrInvalidCommand)
	})

	t.Run("empty command field", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler()
		env := mustEnvelope(t, `{"command":""}`)

		assert.ErrorIs(t, h.Execute(context.Background(), env), script.ErrInvalidCommand)
	})

	t.Run("working directory from payload", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		h, buf := newHandler()
		env := mustEnvelope(t, `{"command":"sh","args":["-c","pwd"],"dir":"`+dir+`"}`)

		require.NoError(t, h.Execute(context.Background(), env))
		assert.Contains(t, buf.String(), dir)
	})

	t.Run("canceled context stops the process", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler()
		env := mustEnvelope(t, `{"command":"sleep","args":["30"]}`)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, h.Execute(ctx, env))
	})
}
