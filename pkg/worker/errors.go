package worker

import "errors"

var (
	// ErrQueueNil is returned when a nil queue is provided.
	ErrQueueNil = errors.New("queue cannot be nil")

	// ErrHandlerNil is returned when a nil task handler is provided.
	ErrHandlerNil = errors.New("task handler cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload.
	ErrPayloadNil = errors.New("payload cannot be nil")

	// ErrPayloadMarshal is returned when payload marshaling fails.
	ErrPayloadMarshal = errors.New("failed to marshal payload to JSON")

	// ErrNotAnObject is returned when payload bytes decode to something
	// other than a JSON object.
	ErrNotAnObject = errors.New("payload is not a JSON object")

	// ErrQueueClosed is returned by the in-memory queue after Close.
	ErrQueueClosed = errors.New("queue is closed")
)
