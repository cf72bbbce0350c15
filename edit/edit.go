// Package edit describes edit requests (POST /edits).
package edit

import (
	"net/http"
	"time"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// Input asks the model to rewrite Input following Instruction.
type Input struct {
	Model       types.ModelID
	Input       *string
	Instruction string
	N           *int
	Temperature *float64
	TopP        *float64
}

// Encode encodes the request body.
func Encode(in Input) map[string]any {
	f := codec.Fields{
		"model":       in.Model.String(),
		"instruction": in.Instruction,
	}
	codec.SetOptional(f, "input", in.Input)
	codec.SetOptional(f, "n", in.N)
	codec.SetOptional(f, "temperature", in.Temperature)
	codec.SetOptional(f, "top_p", in.TopP)
	return f
}

// Choice is one edited text.
type Choice struct {
	Text  string
	Index int
}

func decodeChoice(data []byte) (Choice, error) {
	o := codec.NewObject("edit.Choice", data)
	c := Choice{
		Text:  codec.Field(o, "text", codec.String),
		Index: codec.Field(o, "index", codec.Int),
	}
	if err := o.Err(); err != nil {
		return Choice{}, err
	}
	return c, nil
}

// Output is the response of an edit request. The API does not send an id for edits.
type Output struct {
	ID      *string
	Object  string
	Created time.Time
	Choices []Choice
	Usage   types.Usage
}

// Decode decodes the response body.
func Decode(data []byte) (Output, error) {
	o := codec.NewObject("edit.Output", data)
	out := Output{
		ID:      codec.Optional(o, "id", codec.String),
		Object:  codec.Field(o, "object", codec.String),
		Created: codec.Field(o, "created", codec.Timestamp),
		Choices: codec.Field(o, "choices", codec.Slice(decodeChoice)),
		Usage:   codec.Field(o, "usage", types.DecodeUsage),
	}
	if err := o.Err(); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Create describes an edit request.
func Create(in Input) request.Request[Output] {
	return request.New(http.MethodPost, "/edits", codec.Fields(Encode(in)).Body(), request.JSON(Decode))
}
