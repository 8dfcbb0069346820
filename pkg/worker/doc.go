// Package worker implements a bounded-concurrency queue consumer with
// at-least-once dispatch semantics.
//
// The package is organised around four main components:
//
//   - Queue     — a blocking FIFO the worker pops raw payloads from
//   - Envelope  — the decoded JSON object checked against a handler's
//     required-field contract before dispatch
//   - Gate      — the admission-control counter bounding local concurrency
//   - Worker    — the pop/decode/validate/dispatch loop
//
// A Worker owns exactly one TaskHandler. The handler declares the task kind
// it serves, the payload fields it requires, and the execution behavior;
// per-kind specialization is composition, not inheritance. Each admitted
// task runs in its own goroutine so the loop keeps popping while tasks are
// in flight, and the gate slot is released on every exit path, including
// panics.
//
// When the gate is full the worker does not block or retry: the payload is
// logged as queued for external processing and the loop moves on. Nothing
// re-enqueues the payload — an out-of-process consumer of the same queue is
// expected to pick up the slack. Operators should monitor the denial log
// line, since with no such consumer deployed a denied task is lost.
//
// Basic usage:
//
//	q := worker.NewRedisQueue(client, "relay:tasks")
//
//	w, err := worker.NewWorker(q, webhookHandler,
//		worker.WithMaxConcurrent(10),
//		worker.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(w.Run(ctx))
package worker
