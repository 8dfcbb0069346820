// Package webhook processes webhook events from the task queue and
// delivers them to the backend ingest endpoint over HTTP.
//
// The package has two layers:
//
//   - Sender — generic HTTP POST delivery with retries, exponential
//     backoff, HMAC-SHA256 signing, and permanent/temporary failure
//     classification
//   - Handler — the worker.TaskHandler for the "webhook" kind, built on
//     Sender
//
// A webhook event envelope must carry webhook_id, provider, event_id,
// organization_id, and payload. The handler forwards the whole envelope as
// the request body and mirrors the identifiers into X-Relay-* headers.
//
// Signed deliveries add X-Relay-Signature, X-Relay-Timestamp, and
// X-Relay-Delivery headers; receivers verify with VerifySignature using the
// shared secret and a staleness tolerance.
package webhook
