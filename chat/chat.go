// Package chat describes chat completion requests (POST /chat/completions).
package chat

import (
	"fmt"
	"net/http"
	"time"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// Model is a model accepted by the chat endpoint. Unlike other endpoints, chat only
// takes names from this closed set.
type Model int

const (
	GPT35Turbo Model = iota + 1
	GPT35Turbo0301
	GPT4
	GPT40314
	GPT432K
	GPT432K0314
)

var modelNames = map[Model]string{
	GPT35Turbo:     "gpt-3.5-turbo",
	GPT35Turbo0301: "gpt-3.5-turbo-0301",
	GPT4:           "gpt-4",
	GPT40314:       "gpt-4-0314",
	GPT432K:        "gpt-4-32k",
	GPT432K0314:    "gpt-4-32k-0314",
}

// String returns the wire name.
func (m Model) String() string {
	return modelNames[m]
}

// ParseModel looks up a chat model by wire name.
func ParseModel(name string) (Model, bool) {
	for m, n := range modelNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// Role is the author of a message.
type Role int

const (
	RoleSystem Role = iota + 1
	RoleUser
	RoleAssistant
)

var roleNames = map[Role]string{
	RoleSystem:    "system",
	RoleUser:      "user",
	RoleAssistant: "assistant",
}

// String returns the wire name.
func (r Role) String() string {
	return roleNames[r]
}

// ParseRole looks up a role by wire name.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
	Name    *string
}

// EncodeMessage encodes a message.
func EncodeMessage(m Message) map[string]any {
	f := codec.Fields{
		"role":    m.Role.String(),
		"content": m.Content,
	}
	codec.SetOptional(f, "name", m.Name)
	return f
}

// DecodeMessage decodes a message. Unknown roles fail the decode.
func DecodeMessage(data []byte) (Message, error) {
	o := codec.NewObject("chat.Message", data)
	m := Message{
		Role:    codec.Field(o, "role", codec.Lift(codec.String, ParseRole)),
		Content: codec.Field(o, "content", codec.String),
		Name:    codec.Optional(o, "name", codec.String),
	}
	if err := o.Err(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Input is the body of a chat completion request.
type Input struct {
	Model            Model
	Messages         []Message
	Temperature      *float64
	TopP             *float64
	N                *int
	Stop             []string
	MaxTokens        *int
	PresencePenalty  *float64
	FrequencyPenalty *float64
	LogitBias        map[string]int
	User             *string
}

// Encode encodes the request body.
func Encode(in Input) map[string]any {
	messages := make([]map[string]any, 0, len(in.Messages))
	for _, m := range in.Messages {
		messages = append(messages, EncodeMessage(m))
	}

	f := codec.Fields{
		"model":    in.Model.String(),
		"messages": messages,
	}
	codec.SetOptional(f, "temperature", in.Temperature)
	codec.SetOptional(f, "top_p", in.TopP)
	codec.SetOptional(f, "n", in.N)
	codec.SetSlice(f, "stop", in.Stop)
	codec.SetOptional(f, "max_tokens", in.MaxTokens)
	codec.SetOptional(f, "presence_penalty", in.PresencePenalty)
	codec.SetOptional(f, "frequency_penalty", in.FrequencyPenalty)
	codec.SetMap(f, "logit_bias", in.LogitBias)
	codec.SetOptional(f, "user", in.User)
	return f
}

// Choice is one ranked answer.
type Choice struct {
	Index        int
	Message      Message
	FinishReason *string
}

// Output is the response of a chat completion request.
type Output struct {
	ID      string
	Object  string
	Created time.Time
	Model   types.ModelID
	Choices []Choice
	Usage   types.Usage
}

func decodeChoice(data []byte) (Choice, error) {
	o := codec.NewObject("chat.Choice", data)
	c := Choice{
		Index:        codec.Field(o, "index", codec.Int),
		Message:      codec.Field(o, "message", DecodeMessage),
		FinishReason: codec.Optional(o, "finish_reason", codec.String),
	}
	if err := o.Err(); err != nil {
		return Choice{}, err
	}
	return c, nil
}

// Decode decodes the response body.
func Decode(data []byte) (Output, error) {
	o := codec.NewObject("chat.Output", data)
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

// Create describes a chat completion request.
func Create(in Input) request.Request[Output] {
	return request.New(http.MethodPost, "/chat/completions", codec.Fields(Encode(in)).Body(), request.JSON(Decode))
}
