package image

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

func TestDecoder(t *testing.T) {
	b64 := FormatB64JSON
	url := FormatURL

	tests := []struct {
		name       string
		format     *ResponseFormat
		input      string
		wantURLs   int
		wantImages int
		wantErr    bool
	}{
		{name: "default is url", input: `{"created":1589478378,"data":[{"url":"https://example.com/a.png"},{"url":"https://example.com/b.png"}]}`, wantURLs: 2},
		{name: "url", format: &url, input: `{"created":1589478378,"data":[{"url":"https://example.com/a.png"}]}`, wantURLs: 1},
		{name: "b64", format: &b64, input: `{"created":1589478378,"data":[{"b64_json":"iVBORw0KGgo="}]}`, wantImages: 1},
		{name: "b64 invalid", format: &b64, input: `{"created":1589478378,"data":[{"b64_json":"%%%"}]}`, wantErr: true},
		{name: "url relative", format: &url, input: `{"created":1589478378,"data":[{"url":"/a.png"}]}`, wantErr: true},
		{name: "url item in b64 response", format: &b64, input: `{"created":1589478378,"data":[{"url":"https://example.com/a.png"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decoder(tt.format)([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(out.URLs) != tt.wantURLs || len(out.Images) != tt.wantImages {
				t.Errorf("got %d urls, %d images", len(out.URLs), len(out.Images))
			}
			for _, img := range out.Images {
				if img.ContentType != "image/png" {
					t.Errorf("ContentType = %q", img.ContentType)
				}
			}
		})
	}
}

func TestOutputJSON(t *testing.T) {
	out, err := Decoder(nil)([]byte(`{"created":1589478378,"data":[{"url":"https://example.com/a.png"}]}`))
	if err != nil {
		t.Fatalf("Decoder() error = %v", err)
	}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"URLs":["https://example.com/a.png"]`) {
		t.Errorf("got %s", data)
	}
	if !strings.Contains(string(data), `"Format":"url"`) {
		t.Errorf("got %s", data)
	}
}

func TestCreate(t *testing.T) {
	size := Size512
	req := Create(CreateInput{Prompt: "A cute baby sea otter", Options: Options{Size: &size}})

	if req.URL != "/images/generations" {
		t.Errorf("URL = %q", req.URL)
	}
	body := req.Body.(request.JSONBody)
	if body.Fields["size"] != "512x512" || body.Fields["prompt"] != "A cute baby sea otter" {
		t.Errorf("Fields = %v", body.Fields)
	}
	for _, key := range []string{"n", "response_format", "user"} {
		if _, present := body.Fields[key]; present {
			t.Errorf("%s present, want omitted", key)
		}
	}
}

func TestEditParts(t *testing.T) {
	n := 2
	png := types.Upload{Filename: "otter.png", Content: types.Blob{Data: []byte{0x89}, ContentType: "image/png"}}

	tests := []struct {
		name string
		in   EditInput
		want []string
	}{
		{
			name: "without mask",
			in:   EditInput{Image: png, Prompt: "add a hat"},
			want: []string{"prompt", "image"},
		},
		{
			name: "with mask and options",
			in:   EditInput{Image: png, Mask: &png, Prompt: "add a hat", Options: Options{N: &n}},
			want: []string{"prompt", "n", "image", "mask"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := EncodeEdit(tt.in)
			if got := body.Names(); !slices.Equal(got, tt.want) {
				t.Errorf("Names() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariationParts(t *testing.T) {
	format := FormatB64JSON
	req := Variation(VariationInput{
		Image:   types.Upload{Filename: "otter.png", Content: types.Blob{Data: []byte{0x89}}},
		Options: Options{ResponseFormat: &format},
	})

	body := req.Body.(request.MultipartBody)
	if got := body.Names(); !slices.Equal(got, []string{"response_format", "image"}) {
		t.Errorf("Names() = %v", got)
	}
	if p, _ := body.Part("response_format"); p.Value != "b64_json" {
		t.Errorf("response_format = %q", p.Value)
	}

	out, err := req.Parse(request.Response{Body: []byte(`{"created":1,"data":[{"b64_json":"aGk="}]}`)})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(out.Images) != 1 || string(out.Images[0].Data) != "hi" {
		t.Errorf("Images = %+v", out.Images)
	}
}

func TestParseSize(t *testing.T) {
	if _, err := ParseSize("1024x1024"); err != nil {
		t.Errorf("ParseSize(1024x1024) error = %v", err)
	}
	if _, err := ParseSize("2048x2048"); err == nil {
		t.Error("ParseSize(2048x2048) error = nil")
	}
}
