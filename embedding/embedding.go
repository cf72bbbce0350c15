// Package embedding describes embedding requests (POST /embeddings).
package embedding

import (
	"net/http"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// Input is the body of an embedding request.
type Input struct {
	Model types.ModelID
	Input []string
	User  *string
}

// Encode encodes the request body.
func Encode(in Input) map[string]any {
	input := in.Input
	if input == nil {
		input = []string{}
	}
	f := codec.Fields{
		"model": in.Model.String(),
		"input": input,
	}
	codec.SetOptional(f, "user", in.User)
	return f
}

// Embedding is the vector for the input at Index.
type Embedding struct {
	Object    string
	Embedding []float64
	Index     int
}

// Usage differs from types.Usage: embeddings produce no completion tokens.
type Usage struct {
	PromptTokens int
	TotalTokens  int
}

// Output is the response of an embedding request.
type Output struct {
	Object string
	Data   []Embedding
	Model  types.ModelID
	Usage  Usage
}

func decodeEmbedding(data []byte) (Embedding, error) {
	o := codec.NewObject("embedding.Embedding", data)
	e := Embedding{
		Object:    codec.Field(o, "object", codec.String),
		Embedding: codec.Field(o, "embedding", codec.Floats),
		Index:     codec.Field(o, "index", codec.Int),
	}
	if err := o.Err(); err != nil {
		return Embedding{}, err
	}
	return e, nil
}

func decodeUsage(data []byte) (Usage, error) {
	o := codec.NewObject("embedding.Usage", data)
	u := Usage{
		PromptTokens: codec.Field(o, "prompt_tokens", codec.Count),
		TotalTokens:  codec.Field(o, "total_tokens", codec.Count),
	}
	if err := o.Err(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// Decode decodes the response body.
func Decode(data []byte) (Output, error) {
	o := codec.NewObject("embedding.Output", data)
	out := Output{
		Object: codec.Field(o, "object", codec.String),
		Data:   codec.Field(o, "data", codec.Slice(decodeEmbedding)),
		Model:  codec.Field(o, "model", types.DecodeModelID),
		Usage:  codec.Field(o, "usage", decodeUsage),
	}
	if err := o.Err(); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Create describes an embedding request.
func Create(in Input) request.Request[Output] {
	return request.New(http.MethodPost, "/embeddings", codec.Fields(Encode(in)).Body(), request.JSON(Decode))
}
