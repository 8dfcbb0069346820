package worker_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/promptlane/relay/pkg/worker"
)

// Example_processTask demonstrates enqueueing a task and processing it with
// a bounded-concurrency worker.
func Example_processTask() {
	// In-memory queue; production code uses NewRedisQueue instead.
	queue := worker.NewMemoryQueue(10)
	defer queue.Close()

	enqueuer, err := worker.NewEnqueuer(queue)
	if err != nil {
		panic(err)
	}

	type ReportTask struct {
		ReportID string `json:"report_id"`
		Format   string `json:"format"`
	}

	err = enqueuer.Enqueue(context.Background(), ReportTask{
		ReportID: "r-42",
		Format:   "pdf",
	})
	if err != nil {
		panic(err)
	}

	done := make(chan struct{})
	handler := worker.NewHandler("report", []string{"report_id"},
		func(_ context.Context, env worker.Envelope) error {
			id, _ := env.String("report_id")
			fmt.Printf("generating report %s\n", id)
			close(done)
			return nil
		})

	// Discard logs to keep example output deterministic.
	w, err := worker.NewWorker(queue, handler,
		worker.WithMaxConcurrent(2),
		worker.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		panic(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		panic("task was not processed")
	}

	if err := w.Stop(); err != nil {
		panic(err)
	}

	// Output:
	// generating report r-42
}
