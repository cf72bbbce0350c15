package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Body is the payload of a request. The three implementations are NoBody, JSONBody
// and MultipartBody.
type Body interface {
	// Encode renders the body in wire form together with its Content-Type.
	// NoBody returns an empty content type and nil data.
	Encode() (contentType string, data []byte, err error)
}

// NoBody marks a request without payload.
type NoBody struct{}

// Encode implements Body.
func (NoBody) Encode() (string, []byte, error) {
	return "", nil, nil
}

// JSONBody is a JSON object. Fields only holds keys that are present; absent optional
// values are never stored, so the encoded object carries no nulls for them.
type JSONBody struct {
	Fields map[string]any
}

// Encode implements Body.
func (b JSONBody) Encode() (string, []byte, error) {
	fields := b.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", nil, fmt.Errorf("marshaling JSON body: %w", err)
	}
	return "application/json", data, nil
}

// File is the binary content of a multipart part.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Part is one named multipart field. File is nil for plain text parts.
type Part struct {
	Name  string
	Value string
	File  *File
}

// MultipartBody is an ordered list of form parts. The order is part of the contract:
// scalar fields come first, binary payloads last.
type MultipartBody struct {
	Parts []Part
}

// Part returns the first part with the given name.
func (b MultipartBody) Part(name string) (Part, bool) {
	for _, p := range b.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// Names lists part names in order.
func (b MultipartBody) Names() []string {
	names := make([]string, 0, len(b.Parts))
	for _, p := range b.Parts {
		names = append(names, p.Name)
	}
	return names
}

// Encode implements Body using a random boundary.
func (b MultipartBody) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range b.Parts {
		if p.File == nil {
			if err := w.WriteField(p.Name, p.Value); err != nil {
				return "", nil, fmt.Errorf("writing part %q: %w", p.Name, err)
			}
			continue
		}

		contentType := p.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(p.Name), quoteEscaper.Replace(p.File.Filename)))
		h.Set("Content-Type", contentType)

		pw, err := w.CreatePart(h)
		if err != nil {
			return "", nil, fmt.Errorf("creating part %q: %w", p.Name, err)
		}
		if _, err := pw.Write(p.File.Data); err != nil {
			return "", nil, fmt.Errorf("writing part %q: %w", p.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("closing multipart body: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
