package worker

import "context"

// TaskHandler defines the per-kind contract a worker dispatches to: which
// task kind it serves, which payload fields must be present before the task
// is admitted, and the execution behavior itself.
//
// Execute is invoked only after admission, in its own goroutine, with an
// envelope that passed the required-field check. Deeper validation is the
// handler's job and may fail independently per task; errors and panics are
// caught at the dispatch boundary and never reach the worker loop.
type TaskHandler interface {
	Kind() string
	RequiredFields() []string
	Execute(ctx context.Context, payload Envelope) error
}

type handlerFunc struct {
	kind     string
	required []string
	fn       func(ctx context.Context, payload Envelope) error
}

// NewHandler builds a TaskHandler from a kind name, the payload fields the
// kind requires, and an execution function. Useful for tests and for kinds
// whose behavior does not warrant a dedicated type.
func NewHandler(kind string, required []string, fn func(ctx context.Context, payload Envelope) error) TaskHandler {
	return &handlerFunc{kind: kind, required: required, fn: fn}
}

func (h *handlerFunc) Kind() string { return h.kind }

func (h *handlerFunc) RequiredFields() []string { return h.required }

func (h *handlerFunc) Execute(ctx context.Context, payload Envelope) error {
	return h.fn(ctx, payload)
}
