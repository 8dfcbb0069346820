package webhook

import (
	"net/http"
	"time"
)

// DeliveryHook is called after each delivery attempt.
type DeliveryHook func(result DeliveryResult)

type sendOptions struct {
	timeout         time.Duration
	headers         map[string]string
	httpClient      *http.Client
	maxRetries      int
	backoff         BackoffStrategy
	signatureSecret string
	onDelivery      DeliveryHook
}

func defaultSendOptions() *sendOptions {
	return &sendOptions{
		timeout:    10 * time.Second,
		headers:    make(map[string]string),
		maxRetries: 3,
		backoff:    DefaultBackoffStrategy(),
	}
}

// SendOption is a functional option for configuring a single delivery.
type SendOption func(*sendOptions)

// WithTimeout sets the per-attempt HTTP request timeout.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a custom header to the delivery request.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key != "" && value != "" {
			o.headers[key] = value
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
// Set to 0 to disable retries.
func WithMaxRetries(n int) SendOption {
	return func(o *sendOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithBackoff sets the retry backoff strategy.
func WithBackoff(strategy BackoffStrategy) SendOption {
	return func(o *sendOptions) {
		if strategy != nil {
			o.backoff = strategy
		}
	}
}

// WithSignature enables HMAC-SHA256 request signing with the given secret.
func WithSignature(secret string) SendOption {
	return func(o *sendOptions) {
		o.signatureSecret = secret
	}
}

// WithHTTPClient overrides the sender's HTTP client for this delivery.
func WithHTTPClient(client *http.Client) SendOption {
	return func(o *sendOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithOnDelivery registers a callback invoked after each attempt, useful
// for metrics and logging.
func WithOnDelivery(hook DeliveryHook) SendOption {
	return func(o *sendOptions) {
		o.onDelivery = hook
	}
}

// WithNoRetry disables all retry attempts.
func WithNoRetry() SendOption {
	return func(o *sendOptions) {
		o.maxRetries = 0
	}
}
