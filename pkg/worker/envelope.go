package worker

import (
	"encoding/json"
	"errors"
)

// Envelope is the generic decoded form of a queue payload: a JSON object
// keyed by field name with values left raw for the handler to interpret.
type Envelope map[string]json.RawMessage

// DecodeEnvelope parses raw queue bytes into an Envelope. It rejects
// anything that is not a JSON object; field values are not inspected.
func DecodeEnvelope(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, errors.Join(ErrNotAnObject, err)
	}
	if env == nil {
		// "null" unmarshals into a nil map without error.
		return nil, ErrNotAnObject
	}
	return env, nil
}

// Validate reports whether every required field name is present as a key.
// It is a deliberately shallow admission filter: value types and semantic
// validity are the handler's responsibility.
func (e Envelope) Validate(required []string) bool {
	return len(e.MissingFields(required)) == 0
}

// MissingFields returns the required field names absent from the envelope,
// in the order they were requested.
func (e Envelope) MissingFields(required []string) []string {
	var missing []string
	for _, field := range required {
		if _, ok := e[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// String extracts a string-typed field. The second return value is false if
// the field is absent or not a JSON string.
func (e Envelope) String(key string) (string, bool) {
	raw, ok := e[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// StringSlice extracts a []string field. The second return value is false
// if the field is absent or not an array of JSON strings.
func (e Envelope) StringSlice(key string) ([]string, bool) {
	raw, ok := e[key]
	if !ok {
		return nil, false
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, false
	}
	return ss, true
}
