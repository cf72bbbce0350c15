// Package request describes HTTP calls against the OpenAI API without performing them.
//
// A Request is a plain value: method, path relative to the API base, headers, body and a
// parser for the response body. Constructors in the resource packages (chat, file, image, ...)
// build these values; auth.Decorate resolves the full URL and adds credentials; an execution
// layer owned by the caller sends the request and applies Parse to the raw response.
//
// Nothing in this package performs I/O or holds shared state, so descriptors can be built
// and passed around freely from any goroutine.
package request

import (
	"net/http"
	"slices"
	"strings"
	"time"
)

// Header is a single request header. Headers are kept as an ordered list because
// decoration appends to whatever the caller already set.
type Header struct {
	Name  string
	Value string
}

// Response is the raw result handed back by the execution layer.
type Response struct {
	Header http.Header
	Body   []byte
}

// Parser turns a raw response into a typed value.
type Parser[T any] func(Response) (T, error)

// Request describes one API call.
type Request[T any] struct {
	Method  string
	URL     string
	Headers []Header
	Body    Body
	// Timeout is a hint for the execution layer; zero means no preference.
	Timeout time.Duration
	Parse   Parser[T]
}

// New creates a request descriptor. A nil body is replaced by NoBody.
func New[T any](method, url string, body Body, parse Parser[T]) Request[T] {
	if body == nil {
		body = NoBody{}
	}
	return Request[T]{
		Method: method,
		URL:    url,
		Body:   body,
		Parse:  parse,
	}
}

// WithHeader returns a copy of r with the header appended.
func (r Request[T]) WithHeader(name, value string) Request[T] {
	headers := make([]Header, 0, len(r.Headers)+1)
	headers = append(headers, r.Headers...)
	r.Headers = append(headers, Header{Name: name, Value: value})
	return r
}

// WithTimeout returns a copy of r carrying the given timeout hint.
func (r Request[T]) WithTimeout(d time.Duration) Request[T] {
	r.Headers = slices.Clone(r.Headers)
	r.Timeout = d
	return r
}

// Header returns the first header value matching name, compared case-insensitively.
func (r Request[T]) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}
