// Package render prints request descriptors and decoded responses for the oai command.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/florianilch/oairequest/auth"
	"github.com/florianilch/oairequest/request"
)

// Format is an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatCurl prints a request as a curl command line. Values fall back to JSON.
	FormatCurl Format = "curl"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatCurl:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected: json, yaml, curl)", s)
	}
}

// Options controls request rendering.
type Options struct {
	Format Format
	// ShowSecrets prints the Authorization header unredacted.
	ShowSecrets bool
}

type headerView struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type partView struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Filename    string `json:"filename,omitempty" yaml:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Size        int    `json:"size,omitempty" yaml:"size,omitempty"`
}

type requestView struct {
	Method  string       `json:"method" yaml:"method"`
	URL     string       `json:"url" yaml:"url"`
	Headers []headerView `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout string       `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	JSON    any          `json:"json,omitempty" yaml:"json,omitempty"`
	Parts   []partView   `json:"multipart,omitempty" yaml:"multipart,omitempty"`

	timeoutSeconds float64
}

// Request writes a request descriptor in the chosen format.
func Request[T any](w io.Writer, req request.Request[T], opts Options) error {
	view := newRequestView(req, opts.ShowSecrets)

	switch opts.Format {
	case FormatCurl:
		return writeCurl(w, view)
	default:
		return Value(w, view, opts.Format)
	}
}

func newRequestView[T any](req request.Request[T], showSecrets bool) requestView {
	view := requestView{
		Method: req.Method,
		URL:    req.URL,
	}
	if req.Timeout > 0 {
		view.Timeout = req.Timeout.String()
		view.timeoutSeconds = req.Timeout.Seconds()
	}

	for _, h := range req.Headers {
		value := h.Value
		if !showSecrets && strings.EqualFold(h.Name, auth.HeaderAuthorization) {
			value = redact(value)
		}
		view.Headers = append(view.Headers, headerView{Name: h.Name, Value: value})
	}

	switch body := req.Body.(type) {
	case request.JSONBody:
		view.JSON = body.Fields
	case request.MultipartBody:
		for _, p := range body.Parts {
			if p.File == nil {
				view.Parts = append(view.Parts, partView{Name: p.Name, Value: p.Value})
				continue
			}
			view.Parts = append(view.Parts, partView{
				Name:        p.Name,
				Filename:    p.File.Filename,
				ContentType: p.File.ContentType,
				Size:        len(p.File.Data),
			})
		}
	}

	return view
}

// redact keeps the scheme and the last four characters of a credential.
func redact(value string) string {
	scheme, secret, found := strings.Cut(value, " ")
	if !found {
		scheme, secret = "", value
	}
	masked := "****"
	if len(secret) > 8 {
		masked += secret[len(secret)-4:]
	}
	if scheme == "" {
		return masked
	}
	return scheme + " " + masked
}

// Value writes v as JSON or YAML. YAML goes through JSON first so both formats share
// field names and text marshalers.
func Value(w io.Writer, v any, format Format) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	if format != FormatYAML {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("converting to YAML: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}
