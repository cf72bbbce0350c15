// Package types holds shapes shared by several API resources.
package types

import (
	"time"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
)

// Usage reports token consumption for a completion-style request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// DecodeUsage decodes a usage object. Counters must be non-negative integers.
func DecodeUsage(data []byte) (Usage, error) {
	o := codec.NewObject("types.Usage", data)
	u := Usage{
		PromptTokens:     codec.Field(o, "prompt_tokens", codec.Count),
		CompletionTokens: codec.Field(o, "completion_tokens", codec.Count),
		TotalTokens:      codec.Field(o, "total_tokens", codec.Count),
	}
	if err := o.Err(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// EncodeUsage is the inverse of DecodeUsage.
func EncodeUsage(u Usage) map[string]any {
	return map[string]any{
		"prompt_tokens":     u.PromptTokens,
		"completion_tokens": u.CompletionTokens,
		"total_tokens":      u.TotalTokens,
	}
}

// File is the metadata of an uploaded file. The server owns the file; clients refer to
// it by ID.
type File struct {
	ID        string
	Object    string
	Bytes     int64
	CreatedAt time.Time
	Filename  string
	Purpose   string
}

// DecodeFile decodes a file object.
func DecodeFile(data []byte) (File, error) {
	o := codec.NewObject("types.File", data)
	f := File{
		ID:        codec.Field(o, "id", codec.String),
		Object:    codec.Field(o, "object", codec.String),
		Bytes:     codec.Field(o, "bytes", codec.Int64),
		CreatedAt: codec.Field(o, "created_at", codec.Timestamp),
		Filename:  codec.Field(o, "filename", codec.String),
		Purpose:   codec.Field(o, "purpose", codec.String),
	}
	if err := o.Err(); err != nil {
		return File{}, err
	}
	return f, nil
}

// EncodeFile is the inverse of DecodeFile.
func EncodeFile(f File) map[string]any {
	return map[string]any{
		"id":         f.ID,
		"object":     f.Object,
		"bytes":      f.Bytes,
		"created_at": codec.ToUnix(f.CreatedAt),
		"filename":   f.Filename,
		"purpose":    f.Purpose,
	}
}

// Deleted acknowledges the deletion of a server-side resource.
type Deleted struct {
	ID      string
	Object  string
	Deleted bool
}

// DecodeDeleted decodes a deletion acknowledgement.
func DecodeDeleted(data []byte) (Deleted, error) {
	o := codec.NewObject("types.Deleted", data)
	d := Deleted{
		ID:      codec.Field(o, "id", codec.String),
		Object:  codec.Field(o, "object", codec.String),
		Deleted: codec.Field(o, "deleted", codec.Bool),
	}
	if err := o.Err(); err != nil {
		return Deleted{}, err
	}
	return d, nil
}

// EncodeDeleted is the inverse of DecodeDeleted.
func EncodeDeleted(d Deleted) map[string]any {
	return map[string]any{
		"id":      d.ID,
		"object":  d.Object,
		"deleted": d.Deleted,
	}
}

// List is the {"object": "list", "data": [...]} envelope used by listing endpoints.
type List[T any] struct {
	Object string
	Data   []T
}

// DecodeList builds a decoder for a list envelope whose items are decoded with item.
func DecodeList[T any](name string, item func([]byte) (T, error)) func([]byte) (List[T], error) {
	return func(data []byte) (List[T], error) {
		o := codec.NewObject(name, data)
		l := List[T]{
			Object: codec.Field(o, "object", codec.String),
			Data:   codec.Field(o, "data", codec.Slice(item)),
		}
		if err := o.Err(); err != nil {
			return List[T]{}, err
		}
		return l, nil
	}
}

// ListParser is a shortcut for request.JSON(DecodeList(name, item)).
func ListParser[T any](name string, item func([]byte) (T, error)) request.Parser[List[T]] {
	return request.JSON(DecodeList(name, item))
}
