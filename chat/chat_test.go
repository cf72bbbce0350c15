package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// loadFixture reads a recorded response body from testdata.
func loadFixture(tb testing.TB, name string) []byte {
	tb.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return data
}

func TestCreate(t *testing.T) {
	temperature := 0.2
	req := Create(Input{
		Model: GPT35Turbo,
		Messages: []Message{
			{Role: RoleSystem, Content: "You are terse."},
			{Role: RoleUser, Content: "Hello!"},
		},
		Temperature: &temperature,
	})

	if req.Method != http.MethodPost || req.URL != "/chat/completions" {
		t.Errorf("got %s %s", req.Method, req.URL)
	}

	body, ok := req.Body.(request.JSONBody)
	if !ok {
		t.Fatalf("Body = %T, want JSONBody", req.Body)
	}
	_, data, err := body.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["model"] != "gpt-3.5-turbo" {
		t.Errorf("model = %v", got["model"])
	}
	if got["temperature"] != 0.2 {
		t.Errorf("temperature = %v", got["temperature"])
	}
	for _, key := range []string{"top_p", "n", "stop", "max_tokens", "presence_penalty", "frequency_penalty", "logit_bias", "user"} {
		if _, present := got[key]; present {
			t.Errorf("%s present, want omitted", key)
		}
	}

	messages, _ := got["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %v", got["messages"])
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "You are terse." {
		t.Errorf("messages[0] = %v", first)
	}
	if _, present := first["name"]; present {
		t.Error("name present, want omitted")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	name := "alice"
	tests := []struct {
		name string
		msg  Message
	}{
		{name: "plain", msg: Message{Role: RoleUser, Content: "hi"}},
		{name: "named", msg: Message{Role: RoleAssistant, Content: "hello", Name: &name}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(EncodeMessage(tt.msg))
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			got, err := DecodeMessage(data)
			if err != nil {
				t.Fatalf("DecodeMessage() error = %v", err)
			}
			if got.Role != tt.msg.Role || got.Content != tt.msg.Content {
				t.Errorf("got %+v, want %+v", got, tt.msg)
			}
			if (got.Name == nil) != (tt.msg.Name == nil) || (got.Name != nil && *got.Name != *tt.msg.Name) {
				t.Errorf("Name = %v, want %v", got.Name, tt.msg.Name)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	out, err := Decode(loadFixture(t, "output.json"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if out.ID != "chatcmpl-123" || out.Created.Unix() != 1677652288 {
		t.Errorf("got id %q created %v", out.ID, out.Created)
	}
	if out.Model != types.Model(types.GPT35Turbo0301) {
		t.Errorf("Model = %v", out.Model)
	}
	if len(out.Choices) != 1 {
		t.Fatalf("Choices = %v", out.Choices)
	}
	choice := out.Choices[0]
	if choice.Message.Role != RoleAssistant || choice.FinishReason == nil || *choice.FinishReason != "stop" {
		t.Errorf("choice = %+v", choice)
	}
	if out.Usage != (types.Usage{PromptTokens: 9, CompletionTokens: 12, TotalTokens: 21}) {
		t.Errorf("Usage = %+v", out.Usage)
	}
}

func TestDecodeUnknownRole(t *testing.T) {
	_, err := Decode(loadFixture(t, "output_unknown_role.json"))

	var decodeErr *request.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *request.DecodeError", err)
	}
	if decodeErr.Field != "choices" {
		t.Errorf("Field = %q, want choices", decodeErr.Field)
	}
}

func TestParseModel(t *testing.T) {
	for m, name := range modelNames {
		got, ok := ParseModel(name)
		if !ok || got != m {
			t.Errorf("ParseModel(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseModel("text-davinci-003"); ok {
		t.Error("ParseModel accepted a non-chat model")
	}
}

func BenchmarkDecode(b *testing.B) {
	data := loadFixture(b, "output.json")

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
