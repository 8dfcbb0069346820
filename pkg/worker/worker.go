package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Worker pops payloads from a queue and dispatches them to its task handler
// under a bounded-concurrency gate. Each worker owns its gate exclusively;
// workers reading the same queue do not coordinate with each other.
type Worker struct {
	queue    Queue
	handler  TaskHandler
	gate     *Gate
	workerID uuid.UUID
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopMu   sync.Mutex // Protects stopping state and WaitGroup operations

	// Configuration
	popBackoff  time.Duration
	loopBackoff time.Duration
	logger      *slog.Logger

	// State management
	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

// NewWorker creates a worker consuming the given queue with the given
// kind-specific handler.
func NewWorker(queue Queue, handler TaskHandler, opts ...Option) (*Worker, error) {
	if queue == nil {
		return nil, ErrQueueNil
	}
	if handler == nil {
		return nil, ErrHandlerNil
	}

	options := &workerOptions{
		maxConcurrent: 1,
		popBackoff:    5 * time.Second,
		loopBackoff:   time.Second,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Worker{
		queue:       queue,
		handler:     handler,
		gate:        NewGate(options.maxConcurrent),
		workerID:    uuid.New(),
		popBackoff:  options.popBackoff,
		loopBackoff: options.loopBackoff,
		logger:      options.logger,
	}, nil
}

// Start begins the pop/dispatch loop in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return fmt.Errorf("worker already started")
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.stopping.Store(false)

	go w.run()

	w.logger.Info("worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.String("task_kind", w.handler.Kind()),
		slog.Int("max_concurrent", w.gate.Limit()))

	return nil
}

// Stop cancels the loop and waits for in-flight tasks to complete.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return fmt.Errorf("worker not started")
	}

	// Use stopMu to synchronize with the run() goroutine
	w.stopMu.Lock()
	w.stopping.Store(true)
	w.stopMu.Unlock()

	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()

	w.logger.Info("worker stopping, waiting for in-flight tasks to complete",
		slog.String("worker_id", w.workerID.String()))

	w.wg.Wait()

	w.logger.Info("worker stopped",
		slog.String("worker_id", w.workerID.String()))

	return nil
}

// Run starts the worker and returns a function suitable for errgroup.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return w.Stop()
	}
}

// InFlight returns the number of tasks currently admitted and running.
func (w *Worker) InFlight() int {
	return w.gate.InFlight()
}

// WorkerInfo returns identifying information about the worker process.
func (w *Worker) WorkerInfo() (id string, hostname string, pid int) {
	hostname, _ = os.Hostname()
	return w.workerID.String(), hostname, os.Getpid()
}

// run is the main processing loop. It exits only on context cancellation:
// transport failures, malformed payloads, and handler errors are absorbed
// with logging and, where appropriate, a backoff.
func (w *Worker) run() {
	for {
		if w.ctx.Err() != nil {
			return
		}
		w.iterate()
	}
}

// iterate performs one pop/decode/validate/dispatch cycle. A panic anywhere
// in the cycle is recovered here so a single poisonous payload cannot take
// the loop down.
func (w *Worker) iterate() {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("unexpected panic in worker loop",
				slog.String("worker_id", w.workerID.String()),
				slog.Any("panic", r))
			w.sleep(w.loopBackoff)
		}
	}()

	payload, err := w.queue.Pop(w.ctx)
	if err != nil {
		if w.ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return
		}
		w.logger.Error("failed to pop from queue",
			slog.String("worker_id", w.workerID.String()),
			slog.String("error", err.Error()))
		w.sleep(w.popBackoff)
		return
	}

	env, err := DecodeEnvelope(payload)
	if err != nil {
		// The payload is already off the queue; it is logged and lost.
		w.logger.Error("discarding malformed payload",
			slog.String("worker_id", w.workerID.String()),
			slog.String("error", err.Error()))
		return
	}

	if missing := env.MissingFields(w.handler.RequiredFields()); len(missing) > 0 {
		w.logger.Error("discarding payload missing required fields",
			slog.String("worker_id", w.workerID.String()),
			slog.String("task_kind", w.handler.Kind()),
			slog.Any("missing_fields", missing))
		return
	}

	if !w.gate.TryAcquire() {
		// Deliberate load-shedding, not an error: a slower out-of-process
		// consumer of the same queue handles the overflow.
		w.logger.Info("task queued for external processing",
			slog.String("worker_id", w.workerID.String()),
			slog.String("task_kind", w.handler.Kind()),
			slog.Int("in_flight", w.gate.InFlight()),
			slog.Int("max_concurrent", w.gate.Limit()))
		return
	}

	// Use stopMu to ensure we don't add to WaitGroup after Stop() starts
	w.stopMu.Lock()
	if w.stopping.Load() {
		w.stopMu.Unlock()
		w.gate.Release()
		return
	}
	w.wg.Add(1)
	w.stopMu.Unlock()

	go w.dispatch(env)
}

// dispatch runs the handler in its own goroutine. The gate slot is released
// on every exit path, including panics.
func (w *Worker) dispatch(env Envelope) {
	defer w.wg.Done()
	defer w.gate.Release()

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("task handler panicked",
				slog.String("worker_id", w.workerID.String()),
				slog.String("task_kind", w.handler.Kind()),
				slog.Any("panic", r),
				slog.Duration("duration", time.Since(start)))
		}
	}()

	// The handler context is detached from the pop loop so canceling the
	// loop during shutdown does not abort in-flight work; Stop() waits for
	// tasks to finish on their own.
	err := w.handler.Execute(context.Background(), env)
	duration := time.Since(start)

	if err != nil {
		w.logger.Error("task failed",
			slog.String("worker_id", w.workerID.String()),
			slog.String("task_kind", w.handler.Kind()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return
	}

	w.logger.Info("task completed",
		slog.String("worker_id", w.workerID.String()),
		slog.String("task_kind", w.handler.Kind()),
		slog.Duration("duration", duration))
}

// sleep pauses the loop without ignoring cancellation.
func (w *Worker) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-w.ctx.Done():
	case <-time.After(d):
	}
}
