package request

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	req := New(http.MethodGet, "/models", nil, Text())

	if _, ok := req.Body.(NoBody); !ok {
		t.Fatalf("Body = %T, want NoBody", req.Body)
	}
	if req.Method != http.MethodGet || req.URL != "/models" {
		t.Errorf("got %s %s, want GET /models", req.Method, req.URL)
	}
	if len(req.Headers) != 0 {
		t.Errorf("Headers = %v, want none", req.Headers)
	}
}

func TestWithHeaderDoesNotMutate(t *testing.T) {
	base := New(http.MethodGet, "/models", nil, Text()).WithHeader("A", "1")
	first := base.WithHeader("B", "2")
	second := base.WithHeader("C", "3")

	if len(base.Headers) != 1 {
		t.Fatalf("base headers changed: %v", base.Headers)
	}
	if got := first.Headers[1].Name; got != "B" {
		t.Errorf("first.Headers[1] = %q, want B", got)
	}
	if got := second.Headers[1].Name; got != "C" {
		t.Errorf("second.Headers[1] = %q, want C", got)
	}
}

func TestWithTimeout(t *testing.T) {
	base := New(http.MethodGet, "/models", nil, Text())
	req := base.WithTimeout(30 * time.Second)

	if req.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", req.Timeout)
	}
	if base.Timeout != 0 {
		t.Errorf("base Timeout = %v, want 0", base.Timeout)
	}
}

func TestHeaderLookup(t *testing.T) {
	req := New(http.MethodGet, "/models", nil, Text()).
		WithHeader("X-Request-ID", "abc").
		WithHeader("x-request-id", "def")

	got, ok := req.Header("X-REQUEST-ID")
	if !ok || got != "abc" {
		t.Errorf("Header() = %q, %v, want abc, true", got, ok)
	}
	if _, ok := req.Header("Authorization"); ok {
		t.Error("Header(Authorization) found, want missing")
	}
}

func TestJSONBodyEncode(t *testing.T) {
	tests := []struct {
		name string
		body JSONBody
		want string
	}{
		{name: "nil fields", body: JSONBody{}, want: `{}`},
		{name: "fields", body: JSONBody{Fields: map[string]any{"model": "gpt-4", "n": 2}}, want: `{"model":"gpt-4","n":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, data, err := tt.body.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if contentType != "application/json" {
				t.Errorf("content type = %q", contentType)
			}
			if string(data) != tt.want {
				t.Errorf("data = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestMultipartBodyEncode(t *testing.T) {
	body := MultipartBody{Parts: []Part{
		{Name: "purpose", Value: "fine-tune"},
		{Name: "file", File: &File{Filename: `train "1".jsonl`, Data: []byte(`{"prompt":"a"}`)}},
	}}

	contentType, data, err := body.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType() error = %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q", mediaType)
	}

	r := multipart.NewReader(bytes.NewReader(data), params["boundary"])

	p, err := r.NextPart()
	if err != nil {
		t.Fatalf("NextPart() error = %v", err)
	}
	value, _ := io.ReadAll(p)
	if p.FormName() != "purpose" || string(value) != "fine-tune" {
		t.Errorf("first part = %s=%s, want purpose=fine-tune", p.FormName(), value)
	}

	p, err = r.NextPart()
	if err != nil {
		t.Fatalf("NextPart() error = %v", err)
	}
	content, _ := io.ReadAll(p)
	if p.FormName() != "file" || p.FileName() != `train "1".jsonl` {
		t.Errorf("second part = %s (%s)", p.FormName(), p.FileName())
	}
	if got := p.Header.Get("Content-Type"); got != "application/octet-stream" {
		t.Errorf("file content type = %q, want default", got)
	}
	if string(content) != `{"prompt":"a"}` {
		t.Errorf("file content = %s", content)
	}

	if _, err := r.NextPart(); err != io.EOF {
		t.Errorf("expected two parts, got more (err = %v)", err)
	}
}

func TestMultipartBodyLookup(t *testing.T) {
	body := MultipartBody{Parts: []Part{{Name: "model", Value: "whisper-1"}, {Name: "file", File: &File{}}}}

	if got := strings.Join(body.Names(), ","); got != "model,file" {
		t.Errorf("Names() = %s", got)
	}
	if p, ok := body.Part("model"); !ok || p.Value != "whisper-1" {
		t.Errorf("Part(model) = %+v, %v", p, ok)
	}
	if _, ok := body.Part("prompt"); ok {
		t.Error("Part(prompt) found, want missing")
	}
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantMsg string
	}{
		{
			name:    "envelope",
			body:    `{"error":{"message":"Invalid API key","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`,
			wantOK:  true,
			wantMsg: "Invalid API key",
		},
		{name: "empty message", body: `{"error":{"message":"","type":"x"}}`},
		{name: "not json", body: `Bad Gateway`},
		{name: "other object", body: `{"id":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr, ok := ParseAPIError([]byte(tt.body))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestStatusErrors(t *testing.T) {
	envelope := `{"error":{"message":"No such File object: file-1","type":"invalid_request_error"}}`

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "api error", err: &StatusError{StatusCode: 404, Body: envelope}, want: "unexpected status 404: No such File object: file-1"},
		{name: "raw body", err: &StatusError{StatusCode: 502, Body: "Bad Gateway"}, want: "unexpected status 502: Bad Gateway"},
		{name: "binary api error", err: &BinaryStatusError{StatusCode: 404, Body: []byte(envelope)}, want: "unexpected status 404: No such File object: file-1"},
		{name: "binary raw", err: &BinaryStatusError{StatusCode: 500, Body: []byte{0xff, 0x00}}, want: "unexpected status 500 (2 bytes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	inner := errors.New("boom")
	err := &DecodeError{Decoder: "chat.Output", Field: "usage", Err: inner}

	if got := err.Error(); got != `decode chat.Output: field "usage": boom` {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is did not find the wrapped cause")
	}
}
