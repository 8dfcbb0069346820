package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptlane/relay/pkg/worker"
)

// KindWebhook is the task kind the handler serves.
const KindWebhook = "webhook"

// Handler processes webhook events popped off the queue by delivering them
// to the backend ingest endpoint. The worker's required-field check
// guarantees the identifying fields are present; everything deeper —
// delivery, signing, retry — happens here and may fail per task.
type Handler struct {
	endpoint string
	secret   string
	sender   *Sender
	logger   *slog.Logger
	sendOpts []SendOption
}

// HandlerOption configures the webhook handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the handler logger.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithSigningSecret enables HMAC signing of deliveries to the ingest endpoint.
func WithSigningSecret(secret string) HandlerOption {
	return func(h *Handler) { h.secret = secret }
}

// WithSender replaces the default Sender, e.g. to inject a test client.
func WithSender(sender *Sender) HandlerOption {
	return func(h *Handler) {
		if sender != nil {
			h.sender = sender
		}
	}
}

// WithSendOptions appends delivery options applied to every event, such as
// WithNoRetry or a custom backoff.
func WithSendOptions(opts ...SendOption) HandlerOption {
	return func(h *Handler) {
		h.sendOpts = append(h.sendOpts, opts...)
	}
}

// NewHandler creates a webhook task handler delivering to the given ingest
// endpoint.
func NewHandler(endpoint string, opts ...HandlerOption) (*Handler, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	h := &Handler{
		endpoint: endpoint,
		sender:   NewSender(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

var _ worker.TaskHandler = (*Handler)(nil)

func (h *Handler) Kind() string { return KindWebhook }

// RequiredFields lists the payload keys a webhook event must carry before
// it is admitted for local processing.
func (h *Handler) RequiredFields() []string {
	return []string{"webhook_id", "provider", "event_id", "organization_id", "payload"}
}

// Execute delivers the full envelope to the ingest endpoint. Identifying
// fields travel in headers as well so the receiving side can route without
// parsing the body first.
func (h *Handler) Execute(ctx context.Context, payload worker.Envelope) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook event: %w", err)
	}

	webhookID, _ := payload.String("webhook_id")
	eventID, _ := payload.String("event_id")
	orgID, _ := payload.String("organization_id")

	opts := []SendOption{
		WithHeader("X-Relay-Webhook-Id", webhookID),
		WithHeader("X-Relay-Event-Id", eventID),
		WithHeader("X-Relay-Organization-Id", orgID),
	}
	if h.secret != "" {
		opts = append(opts, WithSignature(h.secret))
	}
	opts = append(opts, h.sendOpts...)

	start := time.Now()
	if err := h.sender.Send(ctx, h.endpoint, body, opts...); err != nil {
		return fmt.Errorf("deliver event %q for webhook %q: %w", eventID, webhookID, err)
	}

	h.logger.DebugContext(ctx, "webhook event delivered",
		slog.String("webhook_id", webhookID),
		slog.String("event_id", eventID),
		slog.Duration("duration", time.Since(start)))

	return nil
}
