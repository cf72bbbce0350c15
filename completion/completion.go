// Package completion describes text completion requests (POST /completions).
package completion

import (
	"net/http"
	"time"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// Input is the body of a completion request. Prompt is sent as an array; the API
// returns N choices per prompt.
type Input struct {
	Model            types.ModelID
	Prompt           []string
	Suffix           *string
	MaxTokens        *int
	Temperature      *float64
	TopP             *float64
	N                *int
	Logprobs         *int
	Echo             *bool
	Stop             []string
	PresencePenalty  *float64
	FrequencyPenalty *float64
	BestOf           *int
	LogitBias        map[string]int
	User             *string
}

// Encode encodes the request body.
func Encode(in Input) map[string]any {
	f := codec.Fields{
		"model": in.Model.String(),
	}
	codec.SetSlice(f, "prompt", in.Prompt)
	codec.SetOptional(f, "suffix", in.Suffix)
	codec.SetOptional(f, "max_tokens", in.MaxTokens)
	codec.SetOptional(f, "temperature", in.Temperature)
	codec.SetOptional(f, "top_p", in.TopP)
	codec.SetOptional(f, "n", in.N)
	codec.SetOptional(f, "logprobs", in.Logprobs)
	codec.SetOptional(f, "echo", in.Echo)
	codec.SetSlice(f, "stop", in.Stop)
	codec.SetOptional(f, "presence_penalty", in.PresencePenalty)
	codec.SetOptional(f, "frequency_penalty", in.FrequencyPenalty)
	codec.SetOptional(f, "best_of", in.BestOf)
	codec.SetMap(f, "logit_bias", in.LogitBias)
	codec.SetOptional(f, "user", in.User)
	return f
}

// Logprobs carries per-token log probabilities when Input.Logprobs was set. With echo,
// the first prompt token has no log probability: its TokenLogprobs entry is nil and its
// TopLogprobs entry is a nil map.
type Logprobs struct {
	Tokens        []string
	TokenLogprobs []*float64
	TopLogprobs   []map[string]float64
	TextOffset    []int
}

func decodeLogprobs(data []byte) (Logprobs, error) {
	o := codec.NewObject("completion.Logprobs", data)
	l := Logprobs{
		Tokens:        codec.Field(o, "tokens", codec.Strings),
		TokenLogprobs: codec.Field(o, "token_logprobs", codec.Slice(codec.Nullable(codec.Float))),
		TopLogprobs:   codec.OptionalSlice(o, "top_logprobs", codec.NullableMap(codec.Float)),
		TextOffset:    codec.Field(o, "text_offset", codec.Ints),
	}
	if err := o.Err(); err != nil {
		return Logprobs{}, err
	}
	return l, nil
}

// Choice is one generated completion.
type Choice struct {
	Text         string
	Index        int
	Logprobs     *Logprobs
	FinishReason *string
}

func decodeChoice(data []byte) (Choice, error) {
	o := codec.NewObject("completion.Choice", data)
	c := Choice{
		Text:         codec.Field(o, "text", codec.String),
		Index:        codec.Field(o, "index", codec.Int),
		Logprobs:     codec.Optional(o, "logprobs", decodeLogprobs),
		FinishReason: codec.Optional(o, "finish_reason", codec.String),
	}
	if err := o.Err(); err != nil {
		return Choice{}, err
	}
	return c, nil
}

// Output is the response of a completion request.
type Output struct {
	ID      string
	Object  string
	Created time.Time
	Model   types.ModelID
	Choices []Choice
	Usage   types.Usage
}

// Decode decodes the response body.
func Decode(data []byte) (Output, error) {
	o := codec.NewObject("completion.Output", data)
	out := Output{
		ID:      codec.Field(o, "id", codec.String),
		Object:  codec.Field(o, "object", codec.String),
		Created: codec.Field(o, "created", codec.Timestamp),
		Model:   codec.Field(o, "model", types.DecodeModelID),
		Choices: codec.Field(o, "choices", codec.Slice(decodeChoice)),
		Usage:   codec.Field(o, "usage", types.DecodeUsage),
	}
	if err := o.Err(); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Create describes a completion request.
func Create(in Input) request.Request[Output] {
	return request.New(http.MethodPost, "/completions", codec.Fields(Encode(in)).Body(), request.JSON(Decode))
}
