// Package codec holds the small building blocks shared by every resource encoder and decoder.
//
// Decoding works field by field against the exact upstream key names. An Object keeps
// the first failure and turns every later lookup into a no-op, so a decoder reads as a
// flat list of field accesses followed by a single Err check:
//
//	o := codec.NewObject("types.File", data)
//	f := File{
//		ID:        codec.Field(o, "id", codec.String),
//		CreatedAt: codec.Field(o, "created_at", codec.Timestamp),
//	}
//	if err := o.Err(); err != nil {
//		return File{}, err
//	}
//
// Encoding goes through Fields and Parts, which write optional values only when present.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/florianilch/oairequest/request"
)

// ErrMissing reports a required field that is absent or null.
var ErrMissing = errors.New("missing required field")

// Decoder parses one JSON value.
type Decoder[T any] func(data []byte) (T, error)

// Object decodes a JSON object field by field.
type Object struct {
	decoder string
	fields  map[string]json.RawMessage
	err     error
}

// NewObject parses data as a JSON object. decoder names the shape in error messages.
func NewObject(decoder string, data []byte) *Object {
	o := &Object{decoder: decoder}
	if err := json.Unmarshal(data, &o.fields); err != nil {
		o.err = &request.DecodeError{Decoder: decoder, Err: err}
	} else if o.fields == nil {
		o.err = &request.DecodeError{Decoder: decoder, Err: errors.New("expected object, got null")}
	}
	return o
}

// Err returns the first decode failure, if any.
func (o *Object) Err() error {
	return o.err
}

// Has reports whether field is present and not null.
func (o *Object) Has(field string) bool {
	_, ok := o.lookup(field)
	return ok
}

func (o *Object) fail(field string, err error) {
	if o.err == nil {
		o.err = &request.DecodeError{Decoder: o.decoder, Field: field, Err: err}
	}
}

// lookup returns the raw value of field. Null counts as absent.
func (o *Object) lookup(field string) (json.RawMessage, bool) {
	if o.err != nil {
		return nil, false
	}
	raw, ok := o.fields[field]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

// Field decodes a required field.
func Field[T any](o *Object, field string, decode Decoder[T]) T {
	var zero T
	raw, ok := o.lookup(field)
	if !ok {
		if o.err == nil {
			o.fail(field, ErrMissing)
		}
		return zero
	}
	v, err := decode(raw)
	if err != nil {
		o.fail(field, err)
		return zero
	}
	return v
}

// Optional decodes a field that may be absent or null. A present value that fails to
// decode is still an error.
func Optional[T any](o *Object, field string, decode Decoder[T]) *T {
	raw, ok := o.lookup(field)
	if !ok {
		return nil
	}
	v, err := decode(raw)
	if err != nil {
		o.fail(field, err)
		return nil
	}
	return &v
}

// OptionalSlice decodes an optional array field; absence yields a nil slice.
func OptionalSlice[T any](o *Object, field string, decode Decoder[T]) []T {
	if v := Optional(o, field, Slice(decode)); v != nil {
		return *v
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
