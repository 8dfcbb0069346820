package webhook

import "errors"

var (
	// ErrEndpointRequired is returned when the handler is constructed without an ingest endpoint.
	ErrEndpointRequired = errors.New("ingest endpoint cannot be empty")

	// ErrDeliveryFailed is returned when all delivery attempts are exhausted.
	ErrDeliveryFailed = errors.New("webhook delivery failed")

	// ErrPermanentFailure marks a delivery rejected with a non-retryable status.
	ErrPermanentFailure = errors.New("permanent webhook delivery failure")

	// ErrTemporaryFailure marks a network-level delivery failure that may be retried.
	ErrTemporaryFailure = errors.New("temporary webhook delivery failure")

	// ErrTimeout is returned when a single delivery attempt exceeds its timeout.
	ErrTimeout = errors.New("webhook request timeout")

	// ErrInvalidURL is returned for endpoints that are not plain http/https URLs.
	ErrInvalidURL = errors.New("invalid webhook URL")

	// ErrInvalidPayload is returned for payloads that cannot be delivered.
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrInvalidConfiguration is returned for invalid signing setup.
	ErrInvalidConfiguration = errors.New("invalid webhook configuration")
)
