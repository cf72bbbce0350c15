package codec

import (
	"strconv"

	"github.com/florianilch/oairequest/request"
)

// Fields is a JSON object under construction.
type Fields map[string]any

// Set writes a value that is always present.
func (f Fields) Set(key string, v any) Fields {
	f[key] = v
	return f
}

// SetOptional writes *v when v is non-nil and leaves the key out otherwise.
func SetOptional[T any](f Fields, key string, v *T) {
	if v != nil {
		f[key] = *v
	}
}

// SetOptionalAs is SetOptional with a conversion, used for enums that go through a
// string table.
func SetOptionalAs[T, W any](f Fields, key string, v *T, convert func(T) W) {
	if v != nil {
		f[key] = convert(*v)
	}
}

// SetSlice writes v unless it is nil.
func SetSlice[T any](f Fields, key string, v []T) {
	if v != nil {
		f[key] = v
	}
}

// SetMap writes v unless it is nil.
func SetMap[V any](f Fields, key string, v map[string]V) {
	if v != nil {
		f[key] = v
	}
}

// Body wraps the fields into a JSON request body.
func (f Fields) Body() request.JSONBody {
	return request.JSONBody{Fields: f}
}

// Parts collects multipart form parts in order.
type Parts struct {
	parts []request.Part
}

// Text appends a text part.
func (p *Parts) Text(name, value string) {
	p.parts = append(p.parts, request.Part{Name: name, Value: value})
}

// File appends a binary part.
func (p *Parts) File(name, filename, contentType string, data []byte) {
	p.parts = append(p.parts, request.Part{
		Name: name,
		File: &request.File{
			Filename:    filename,
			ContentType: contentType,
			Data:        data,
		},
	})
}

// Body returns the collected parts as a request body.
func (p *Parts) Body() request.MultipartBody {
	return request.MultipartBody{Parts: p.parts}
}

// OptionalText appends format(*v) when v is non-nil.
func OptionalText[T any](p *Parts, name string, v *T, format func(T) string) {
	if v != nil {
		p.Text(name, format(*v))
	}
}

// FormatString is the identity formatter for OptionalText.
func FormatString(s string) string { return s }

// FormatInt formats an integer part.
func FormatInt(n int) string { return strconv.Itoa(n) }

// FormatFloat formats a float part with the shortest exact representation.
func FormatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
