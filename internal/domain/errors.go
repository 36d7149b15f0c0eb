package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized is returned by every gateway call the remote API rejects
// for a missing or expired credential. It is never shown as a notification;
// the session invalidation it triggers sends the operator back to login.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotReady is returned when a form is submitted before it has finished
// loading its reference data, or while a previous submission is in flight.
var ErrNotReady = errors.New("form not ready")

// RemoteError is a non-2xx answer from the remote API.
type RemoteError struct {
	Op     string
	Status int
	Body   []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message())
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 answers.
func (e *RemoteError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}

// Message is the human-readable reason: the body's "message" field when the
// body is a JSON object carrying one, otherwise the whole body.
func (e *RemoteError) Message() string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	body := bytes.TrimSpace(e.Body)
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Message) > 0 {
		var s string
		if json.Unmarshal(payload.Message, &s) == nil {
			if s != "" {
				return s
			}
		} else if !bytes.Equal(payload.Message, []byte("null")) {
			return string(payload.Message)
		}
	}
	return string(body)
}

// ValidationError carries per-field messages for input rejected before any
// network call. It is shown inline next to the offending fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
