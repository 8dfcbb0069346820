package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// WorkerID records the worker identifier under the key "worker_id".
func WorkerID(id string) slog.Attr {
	return slog.String("worker_id", id)
}

// Queue records the queue name under the key "queue".
func Queue(name string) slog.Attr {
	return slog.String("queue", name)
}

// Kind records the task kind under the key "task_kind".
func Kind(kind string) slog.Attr {
	return slog.String("task_kind", kind)
}

// WebhookID records the webhook identifier under the key "webhook_id".
// If id is nil, it returns an empty Attr.
func WebhookID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("webhook_id", id)
}

// EventID records the event identifier under the key "event_id".
// If id is nil, it returns an empty Attr.
func EventID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("event_id", id)
}

// OrganizationID records the organization identifier under the key "organization_id".
// If id is nil, it returns an empty Attr.
func OrganizationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("organization_id", id)
}

// InFlight records the current in-flight task count under the key "in_flight".
func InFlight(n int) slog.Attr {
	return slog.Int("in_flight", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// ExitCode records a subprocess exit code under the key "exit_code".
func ExitCode(code int) slog.Attr {
	return slog.Int("exit_code", code)
}

// Stream records which output stream a line came from under the key "stream".
func Stream(name string) slog.Attr {
	return slog.String("stream", name)
}
