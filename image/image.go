// Package image describes image generation, edit and variation requests (/images).
package image

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// Size is the edge length of generated images.
type Size int

const (
	Size256 Size = iota + 1
	Size512
	Size1024
)

var sizeNames = map[Size]string{
	Size256:  "256x256",
	Size512:  "512x512",
	Size1024: "1024x1024",
}

// String returns the wire name.
func (s Size) String() string {
	return sizeNames[s]
}

// ParseSize looks up a size by wire name.
func ParseSize(name string) (Size, error) {
	for s, n := range sizeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown image size %q", name)
}

// ResponseFormat selects how images are returned.
type ResponseFormat int

const (
	FormatURL ResponseFormat = iota + 1
	FormatB64JSON
)

var formatNames = map[ResponseFormat]string{
	FormatURL:     "url",
	FormatB64JSON: "b64_json",
}

// String returns the wire name.
func (f ResponseFormat) String() string {
	return formatNames[f]
}

// MarshalText implements encoding.TextMarshaler.
func (f ResponseFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseResponseFormat looks up a response format by wire name.
func ParseResponseFormat(name string) (ResponseFormat, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown image response format %q", name)
}

// b64ContentType is the media type of base64 images; the API only produces PNG.
const b64ContentType = "image/png"

// Output holds the generated images. URLs is set for FormatURL, Images for FormatB64JSON.
type Output struct {
	Created time.Time
	Format  ResponseFormat
	URLs    []*url.URL
	Images  []types.Blob
}

// MarshalJSON renders URLs as strings.
func (o Output) MarshalJSON() ([]byte, error) {
	urls := make([]string, 0, len(o.URLs))
	for _, u := range o.URLs {
		urls = append(urls, u.String())
	}
	return json.Marshal(struct {
		Created time.Time
		Format  ResponseFormat
		URLs    []string     `json:",omitempty"`
		Images  []types.Blob `json:",omitempty"`
	}{o.Created, o.Format, urls, o.Images})
}

// Decoder returns the response decoder for the requested format. A nil format means the
// API default, FormatURL.
func Decoder(format *ResponseFormat) func([]byte) (Output, error) {
	f := FormatURL
	if format != nil {
		f = *format
	}
	return func(data []byte) (Output, error) {
		o := codec.NewObject("image.Output", data)
		out := Output{
			Created: codec.Field(o, "created", codec.Timestamp),
			Format:  f,
		}
		switch f {
		case FormatB64JSON:
			out.Images = codec.Field(o, "data", codec.Slice(decodeB64Item))
		default:
			out.URLs = codec.Field(o, "data", codec.Slice(decodeURLItem))
		}
		if err := o.Err(); err != nil {
			return Output{}, err
		}
		return out, nil
	}
}

func decodeURLItem(data []byte) (*url.URL, error) {
	o := codec.NewObject("image.URLItem", data)
	u := codec.Field(o, "url", codec.URL)
	if err := o.Err(); err != nil {
		return nil, err
	}
	return u, nil
}

func decodeB64Item(data []byte) (types.Blob, error) {
	o := codec.NewObject("image.B64Item", data)
	b := types.Blob{
		Data:        codec.Field(o, "b64_json", codec.Base64),
		ContentType: b64ContentType,
	}
	if err := o.Err(); err != nil {
		return types.Blob{}, err
	}
	return b, nil
}

// Options are shared by all image operations.
type Options struct {
	N              *int
	Size           *Size
	ResponseFormat *ResponseFormat
	User           *string
}

func (opts Options) setFields(f codec.Fields) {
	codec.SetOptional(f, "n", opts.N)
	codec.SetOptionalAs(f, "size", opts.Size, Size.String)
	codec.SetOptionalAs(f, "response_format", opts.ResponseFormat, ResponseFormat.String)
	codec.SetOptional(f, "user", opts.User)
}

func (opts Options) setParts(p *codec.Parts) {
	codec.OptionalText(p, "n", opts.N, codec.FormatInt)
	codec.OptionalText(p, "size", opts.Size, Size.String)
	codec.OptionalText(p, "response_format", opts.ResponseFormat, ResponseFormat.String)
	codec.OptionalText(p, "user", opts.User, codec.FormatString)
}

// CreateInput generates images from a prompt.
type CreateInput struct {
	Prompt string
	Options
}

// EncodeCreate encodes the generation request body.
func EncodeCreate(in CreateInput) map[string]any {
	f := codec.Fields{
		"prompt": in.Prompt,
	}
	in.setFields(f)
	return f
}

// EditInput edits Image according to Prompt. Transparent areas of Mask mark what to edit.
type EditInput struct {
	Image  types.Upload
	Mask   *types.Upload
	Prompt string
	Options
}

// EncodeEdit builds the multipart parts: scalar fields, then image and mask.
func EncodeEdit(in EditInput) request.MultipartBody {
	var p codec.Parts
	p.Text("prompt", in.Prompt)
	in.setParts(&p)
	p.File("image", in.Image.Filename, in.Image.Content.ContentType, in.Image.Content.Data)
	if in.Mask != nil {
		p.File("mask", in.Mask.Filename, in.Mask.Content.ContentType, in.Mask.Content.Data)
	}
	return p.Body()
}

// VariationInput produces variations of Image.
type VariationInput struct {
	Image types.Upload
	Options
}

// EncodeVariation builds the multipart parts: scalar fields, then image.
func EncodeVariation(in VariationInput) request.MultipartBody {
	var p codec.Parts
	in.setParts(&p)
	p.File("image", in.Image.Filename, in.Image.Content.ContentType, in.Image.Content.Data)
	return p.Body()
}

// Create describes an image generation request.
func Create(in CreateInput) request.Request[Output] {
	return request.New(http.MethodPost, "/images/generations", codec.Fields(EncodeCreate(in)).Body(), request.JSON(Decoder(in.ResponseFormat)))
}

// Edit describes an image edit request.
func Edit(in EditInput) request.Request[Output] {
	return request.New(http.MethodPost, "/images/edits", EncodeEdit(in), request.JSON(Decoder(in.ResponseFormat)))
}

// Variation describes an image variation request.
func Variation(in VariationInput) request.Request[Output] {
	return request.New(http.MethodPost, "/images/variations", EncodeVariation(in), request.JSON(Decoder(in.ResponseFormat)))
}
