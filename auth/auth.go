// Package auth resolves the API base URL and attaches credentials to request descriptors.
//
// Decorate is the only place where the API key touches a request. Resource constructors
// build descriptors without credentials, and callers decorate them once, right before
// handing them to the execution layer.
package auth

import (
	"strings"

	"github.com/florianilch/oairequest/request"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.openai.com/v1"

const (
	HeaderAuthorization = "Authorization"
	HeaderOrganization  = "OpenAI-Organization"
)

// Config holds the credentials for one organization. It is an immutable value and can be
// shared across goroutines.
type Config struct {
	OrganizationID string
	APIKey         string
	// BaseURL overrides DefaultBaseURL when non-empty.
	BaseURL string
}

// ResolvedBaseURL returns the base URL requests are sent to, without a trailing slash.
func (c Config) ResolvedBaseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

// Decorate returns a copy of req with the full URL and the authorization and
// organization headers appended after any headers already present. req is not modified.
func Decorate[T any](cfg Config, req request.Request[T]) request.Request[T] {
	headers := make([]request.Header, 0, len(req.Headers)+2)
	headers = append(headers, req.Headers...)
	headers = append(headers,
		request.Header{Name: HeaderAuthorization, Value: "Bearer " + cfg.APIKey},
		request.Header{Name: HeaderOrganization, Value: cfg.OrganizationID},
	)

	req.URL = cfg.ResolvedBaseURL() + req.URL
	req.Headers = headers
	return req
}
