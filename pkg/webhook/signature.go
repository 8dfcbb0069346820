package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SignatureHeaders carries the headers that authenticate a delivery.
type SignatureHeaders struct {
	Signature string
	Timestamp int64
	ID        string
}

// Headers returns the signature headers as a map for HTTP header setting.
func (s SignatureHeaders) Headers() map[string]string {
	return map[string]string{
		"X-Relay-Signature": s.Signature,
		"X-Relay-Timestamp": strconv.FormatInt(s.Timestamp, 10),
		"X-Relay-Delivery":  s.ID,
	}
}

// SignPayload creates an HMAC-SHA256 signature over "timestamp.payload".
// Binding the timestamp into the signed material prevents replay of captured
// deliveries.
func SignPayload(secret string, payload []byte) (SignatureHeaders, error) {
	if secret == "" {
		return SignatureHeaders{}, fmt.Errorf("%w: secret is required", ErrInvalidConfiguration)
	}
	if len(payload) == 0 {
		return SignatureHeaders{}, fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}

	timestamp := time.Now().Unix()

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)

	return SignatureHeaders{
		Signature: hex.EncodeToString(mac.Sum(nil)),
		Timestamp: timestamp,
		ID:        uuid.New().String(),
	}, nil
}

// VerifySignature checks a received signature against the payload. The
// tolerance bounds how stale the signed timestamp may be; zero disables the
// staleness check.
func VerifySignature(secret string, payload []byte, headers SignatureHeaders, tolerance time.Duration) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrInvalidConfiguration)
	}

	if tolerance > 0 {
		age := time.Since(time.Unix(headers.Timestamp, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("%w: signature timestamp outside tolerance", ErrInvalidPayload)
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", headers.Timestamp)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(headers.Signature)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidPayload)
	}
	return nil
}
