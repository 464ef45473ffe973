// Package gateway holds typed HTTP clients for the collaborators the
// booking sagas call: the Reservation Store, Order Store, User
// Directory, Restaurant Directory, Payment Gateway and Waitlist
// Directory. Every call carries a single bounded timeout and no
// retries; transport failures and 4xx/5xx responses are mapped to a
// *CollaboratorError so orchestrators can decide whether a step is
// terminal or best-effort.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every collaborator call when the caller does
// not configure one. A timed-out call is a failure, not a retry.
const DefaultTimeout = 5 * time.Second

// CollaboratorError is the typed outcome of a failed downstream call.
// Status carries the downstream HTTP status, or 0 when the transport
// itself failed (dial error, timeout). Message is propagated verbatim
// where the saga terminates on it.
type CollaboratorError struct {
	Service string
	Status  int
	Message string
}

func (e *CollaboratorError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Service, e.Status, e.Message)
}

// NotFound reports whether the downstream answered 404.
func (e *CollaboratorError) NotFound() bool { return e.Status == http.StatusNotFound }

// NewHTTPClient returns the http.Client shared by the collaborator
// clients, with the bounded per-call timeout applied.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// envelope is the {code, message, data} wire shape the record stores
// respond with.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs one HTTP round trip and returns the raw response body.
// Non-2xx responses are turned into a *CollaboratorError carrying the
// downstream status and the envelope message when one is present.
func do(ctx context.Context, hc *http.Client, service, method, url string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &CollaboratorError{Service: service, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &CollaboratorError{Service: service, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &CollaboratorError{Service: service, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CollaboratorError{Service: service, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		return nil, &CollaboratorError{Service: service, Status: resp.StatusCode, Message: msg}
	}
	return raw, nil
}

// decodeData unmarshals the envelope's data field into out, falling
// back to the whole body for collaborators that respond without the
// envelope.
func decodeData(service string, raw []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &CollaboratorError{Service: service, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
