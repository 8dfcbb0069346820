package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender delivers JSON payloads over HTTP POST with retries, optional
// signing, and failure classification. One Sender is safe for concurrent
// use and reuses its client across deliveries for connection pooling.
type Sender struct {
	client *http.Client
}

// NewSender creates a sender with a pooled HTTP client.
func NewSender() *Sender {
	return &Sender{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewSenderWithClient creates a sender with a custom HTTP client, falling
// back to defaults when nil.
func NewSenderWithClient(client *http.Client) *Sender {
	if client == nil {
		return NewSender()
	}
	return &Sender{client: client}
}

// Send posts the payload bytes to the endpoint, retrying transient failures
// according to the configured backoff. Client errors (most 4xx statuses)
// stop the retry loop early since they will not resolve on their own.
func (s *Sender) Send(ctx context.Context, endpoint string, payload []byte, opts ...SendOption) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}

	options := defaultSendOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := s.client
	if options.httpClient != nil {
		client = options.httpClient
	}

	var lastErr error
	for attempt := 0; attempt <= options.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(options.backoff.NextInterval(attempt)):
			}
		}

		result, err := s.attempt(ctx, client, endpoint, payload, options)

		if options.onDelivery != nil {
			result.Attempt = attempt + 1
			options.onDelivery(result)
		}

		if err == nil {
			return nil
		}
		lastErr = err

		if isPermanentStatus(result.StatusCode) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, options.maxRetries+1, lastErr)
}

// DeliveryResult describes a single delivery attempt for observability hooks.
type DeliveryResult struct {
	Success    bool
	StatusCode int
	Attempt    int
	Duration   time.Duration
	Error      error
}

func (s *Sender) attempt(ctx context.Context, client *http.Client, endpoint string, payload []byte, options *sendOptions) (DeliveryResult, error) {
	start := time.Now()
	result := DeliveryResult{}

	reqCtx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "relay-webhook/1.0")
	for k, v := range options.headers {
		req.Header.Set(k, v)
	}

	if options.signatureSecret != "" {
		sig, err := SignPayload(options.signatureSecret, payload)
		if err != nil {
			result.Duration = time.Since(start)
			result.Error = err
			return result, fmt.Errorf("failed to sign payload: %w", err)
		}
		for k, v := range sig.Headers() {
			req.Header.Set(k, v)
		}
	}

	resp, err := client.Do(req)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err
		if reqCtx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return result, fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if result.Success {
		return result, nil
	}

	// Capped read keeps error context without risking memory exhaustion.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	errMsg := fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
	if len(body) > 0 {
		bodyStr := strings.ReplaceAll(string(body), "\n", " ")
		if len(bodyStr) > 200 {
			bodyStr = bodyStr[:200] + "..."
		}
		errMsg += ": " + bodyStr
	}
	result.Error = fmt.Errorf("%s", errMsg)
	return result, result.Error
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return nil
}

// isPermanentStatus reports whether a status code should stop the retry
// loop. Rate-limit and timing related 4xx codes stay retryable.
func isPermanentStatus(statusCode int) bool {
	if statusCode < 400 || statusCode >= 500 {
		return false
	}
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}
