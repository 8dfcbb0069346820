package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/promptlane/relay/pkg/worker"
)

// KindScript is the task kind this handler serves.
const KindScript = "script"

var (
	// ErrInvalidCommand is returned when the command field is not a string
	// or is empty.
	ErrInvalidCommand = errors.New("command field must be a non-empty string")

	// ErrCommandFailed is returned when the spawned process exits non-zero.
	ErrCommandFailed = errors.New("command exited with non-zero status")
)

// Handler executes script tasks by spawning an external process and
// streaming its output. Stdout and stderr are drained concurrently by one
// goroutine each, line-buffered, with every completed line forwarded to the
// logger as it becomes available. Order is preserved per stream but not
// across streams.
type Handler struct {
	logger *slog.Logger
}

// Option configures the script handler.
type Option func(*Handler)

// WithLogger sets the logger output lines are forwarded to.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a script task handler.
func New(opts ...Option) *Handler {
	h := &Handler{logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ worker.TaskHandler = (*Handler)(nil)

func (h *Handler) Kind() string { return KindScript }

// RequiredFields lists the payload keys that must be present before a
// script task is admitted. Optional fields: "args" (array of strings) and
// "dir" (working directory).
func (h *Handler) RequiredFields() []string {
	return []string{"command"}
}

// Execute spawns the command described by the payload and blocks until the
// process exits and all buffered output has been flushed. A non-zero exit
// code maps to ErrCommandFailed carrying the code.
func (h *Handler) Execute(ctx context.Context, payload worker.Envelope) error {
	command, ok := payload.String("command")
	if !ok || command == "" {
		return ErrInvalidCommand
	}
	args, _ := payload.StringSlice("args")
	dir, _ := payload.String("dir")

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe for %q: %w", command, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe for %q: %w", command, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", command, err)
	}

	// One reader per stream so an idle stream cannot stall a busy one.
	var wg sync.WaitGroup
	wg.Add(2)
	go h.drain(ctx, &wg, command, "stdout", stdout)
	go h.drain(ctx, &wg, command, "stderr", stderr)

	// Readers must finish before Wait closes the pipes.
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %q exit code %d", ErrCommandFailed, command, exitErr.ExitCode())
		}
		return fmt.Errorf("wait for %q: %w", command, err)
	}

	return nil
}

// drain forwards completed lines from one stream to the logger in real time
// until the stream closes.
func (h *Handler) drain(ctx context.Context, wg *sync.WaitGroup, command, stream string, r io.Reader) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		h.logger.InfoContext(ctx, "script output",
			slog.String("command", command),
			slog.String("stream", stream),
			slog.String("line", scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		h.logger.WarnContext(ctx, "script output stream closed with error",
			slog.String("command", command),
			slog.String("stream", stream),
			slog.String("error", err.Error()))
	}
}
