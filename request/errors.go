package request

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports a response body that does not match the expected shape.
// Nested decoders wrap the inner DecodeError, so the message reads as a path
// from the outermost shape down to the offending field.
type DecodeError struct {
	// Decoder names the shape being decoded, e.g. "chat.Output".
	Decoder string
	// Field is the JSON key that failed; empty when the whole value is malformed.
	Field string
	Err   error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Decoder, e.Err)
	}
	return fmt.Sprintf("decode %s: field %q: %v", e.Decoder, e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// APIError is the error detail OpenAI returns for failed requests.
type APIError struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param,omitempty"`
	Code    *string `json:"code,omitempty"`
}

// Error implements the error interface, returning the error message.
func (e *APIError) Error() string {
	return e.Message
}

// apiErrorResponse wraps APIError the way the API sends it: {"error": {...}}
type apiErrorResponse struct {
	Err *APIError `json:"error"`
}

// ParseAPIError extracts the {"error": {...}} envelope from a response body.
// It reports false when the body is not such an envelope.
func ParseAPIError(body []byte) (*APIError, bool) {
	var resp apiErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false
	}
	if resp.Err == nil || resp.Err.Message == "" {
		return nil, false
	}
	return resp.Err, true
}

// StatusError is reported by an execution layer for a non-2xx response on an endpoint
// that answers with text (JSON or plain).
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface. The API error message is preferred over the raw body.
func (e *StatusError) Error() string {
	if apiErr, ok := e.APIError(); ok {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, apiErr.Message)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// APIError parses the body as an API error envelope.
func (e *StatusError) APIError() (*APIError, bool) {
	return ParseAPIError([]byte(e.Body))
}

// BinaryStatusError is reported for a non-2xx response on an endpoint that answers with
// raw bytes, such as file content downloads.
type BinaryStatusError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *BinaryStatusError) Error() string {
	if apiErr, ok := e.APIError(); ok {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, apiErr.Message)
	}
	return fmt.Sprintf("unexpected status %d (%d bytes)", e.StatusCode, len(e.Body))
}

// APIError parses the body as an API error envelope.
func (e *BinaryStatusError) APIError() (*APIError, bool) {
	return ParseAPIError(e.Body)
}
