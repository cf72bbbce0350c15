// Package file describes file management requests (/files).
package file

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// PurposeFineTune marks training data for fine-tuning jobs.
const PurposeFineTune = "fine-tune"

// UploadInput uploads a file as-is.
type UploadInput struct {
	Purpose string
	File    types.Upload
}

// EncodeUpload builds the multipart parts: purpose, then the file.
func EncodeUpload(in UploadInput) request.MultipartBody {
	var p codec.Parts
	p.Text("purpose", in.Purpose)
	p.File("file", in.File.Filename, in.File.Content.ContentType, in.File.Content.Data)
	return p.Body()
}

// PromptCompletion is one training example.
type PromptCompletion struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// PairsInput uploads training examples without building a file first.
type PairsInput struct {
	Purpose string
	Pairs   []PromptCompletion
}

// EncodePairs builds the multipart parts: purpose, then a "prompt" part holding the
// examples as a JSON array of {"prompt", "completion"} objects.
func EncodePairs(in PairsInput) request.MultipartBody {
	pairs := in.Pairs
	if pairs == nil {
		pairs = []PromptCompletion{}
	}
	// Marshaling a slice of string pairs cannot fail.
	data, _ := json.Marshal(pairs)

	var p codec.Parts
	p.Text("purpose", in.Purpose)
	p.Text("prompt", string(data))
	return p.Body()
}

// List describes listing the organization's files.
func List() request.Request[types.List[types.File]] {
	return request.New(http.MethodGet, "/files", nil, types.ListParser("file.List", types.DecodeFile))
}

// Upload describes uploading a file.
func Upload(in UploadInput) request.Request[types.File] {
	return request.New(http.MethodPost, "/files", EncodeUpload(in), request.JSON(types.DecodeFile))
}

// UploadPairs describes uploading prompt/completion training examples.
func UploadPairs(in PairsInput) request.Request[types.File] {
	return request.New(http.MethodPost, "/files", EncodePairs(in), request.JSON(types.DecodeFile))
}

// Retrieve describes fetching a file's metadata.
func Retrieve(id string) request.Request[types.File] {
	return request.New(http.MethodGet, "/files/"+url.PathEscape(id), nil, request.JSON(types.DecodeFile))
}

// Delete describes deleting a file.
func Delete(id string) request.Request[types.Deleted] {
	return request.New(http.MethodDelete, "/files/"+url.PathEscape(id), nil, request.JSON(types.DecodeDeleted))
}

// Content describes downloading a file's content. The response is raw bytes; errors come
// back as request.BinaryStatusError from the execution layer.
func Content(id string) request.Request[types.Blob] {
	return request.New(http.MethodGet, "/files/"+url.PathEscape(id)+"/content", nil, types.DecodeBlob)
}
