package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/florianilch/oairequest/chat"
	"github.com/florianilch/oairequest/request"
)

// run executes the oai command line with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("OPENAI_API_KEY", "sk-test-0123456789")
	t.Setenv("OPENAI_ORGANIZATION_ID", "org-test")
	t.Setenv("OPENAI_CREDENTIAL_STORE", "env")
	t.Setenv("OPENAI_BASE_URL", "")

	var out bytes.Buffer
	cmd := newRootCommand("test", "none")
	cmd.Writer = &out
	cmd.ErrWriter = &out

	err := cmd.Run(context.Background(), append([]string{"oai", "--log-level", "error"}, args...))
	return out.String(), err
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

type printedRequest struct {
	Method    string
	URL       string
	Headers   []struct{ Name, Value string }
	JSON      map[string]any
	Multipart []struct{ Name, Value, Filename string }
}

func parseRequest(t *testing.T, out string) printedRequest {
	t.Helper()

	var req printedRequest
	if err := json.Unmarshal([]byte(out), &req); err != nil {
		t.Fatalf("Failed to parse output: %v\n%s", err, out)
	}
	return req
}

func TestChatCommand(t *testing.T) {
	out, err := run(t, "--base-url", "http://localhost:8080/v1", "--request-id", "req-1",
		"chat", "--model", "gpt-4", "-m", "system:be brief", "-m", "user@bob:hi", "--temperature", "0.5")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	req := parseRequest(t, out)
	if req.Method != "POST" || req.URL != "http://localhost:8080/v1/chat/completions" {
		t.Errorf("got %s %s", req.Method, req.URL)
	}
	if req.JSON["model"] != "gpt-4" || req.JSON["temperature"] != 0.5 {
		t.Errorf("JSON = %v", req.JSON)
	}
	if _, present := req.JSON["n"]; present {
		t.Error("n present, want omitted")
	}

	names := make([]string, 0, len(req.Headers))
	for _, h := range req.Headers {
		names = append(names, h.Name)
	}
	if strings.Join(names, ",") != "X-Request-ID,Authorization,OpenAI-Organization" {
		t.Errorf("headers = %v", names)
	}
	if req.Headers[1].Value != "Bearer ****6789" {
		t.Errorf("Authorization = %q, want redacted", req.Headers[1].Value)
	}
}

func TestFilesUploadPairsCommand(t *testing.T) {
	path := writeTemp(t, "pairs.jsonl", []byte("{\"prompt\":\"p1\",\"completion\":\"c1\"}\n\n{\"prompt\":\"p2\",\"completion\":\"c2\"}\n"))

	out, err := run(t, "files", "upload-pairs", path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	req := parseRequest(t, out)
	if req.URL != "https://api.openai.com/v1/files" {
		t.Errorf("URL = %q", req.URL)
	}
	if len(req.Multipart) != 2 || req.Multipart[0].Name != "purpose" || req.Multipart[1].Name != "prompt" {
		t.Fatalf("parts = %+v", req.Multipart)
	}
	if want := `[{"prompt":"p1","completion":"c1"},{"prompt":"p2","completion":"c2"}]`; req.Multipart[1].Value != want {
		t.Errorf("prompt = %s, want %s", req.Multipart[1].Value, want)
	}
}

func TestImagesEditCommand(t *testing.T) {
	image := writeTemp(t, "otter.png", []byte("\x89PNG\r\n\x1a\n"))

	out, err := run(t, "images", "edit", "--image", image, "--n", "2", "add a hat")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	req := parseRequest(t, out)
	var names []string
	for _, p := range req.Multipart {
		names = append(names, p.Name)
	}
	if strings.Join(names, ",") != "prompt,n,image" {
		t.Errorf("parts = %v", names)
	}
	if req.Multipart[2].Filename != "otter.png" {
		t.Errorf("image filename = %q", req.Multipart[2].Filename)
	}
}

func TestDecodeSavedResponse(t *testing.T) {
	path := writeTemp(t, "model.json", []byte(`{"id":"gpt-4","object":"model","created":1687882411,"owned_by":"openai"}`))

	out, err := run(t, "--response", path, "models", "get", "gpt-4")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, `"ID": "gpt-4"`) || !strings.Contains(out, `"OwnedBy": "openai"`) {
		t.Errorf("output = %s", out)
	}
}

func TestDecodeSavedErrorResponse(t *testing.T) {
	body := []byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`)
	path := writeTemp(t, "error.json", body)

	_, err := run(t, "--response", path, "--response-status", "401", "models", "list")
	var statusErr *request.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *request.StatusError", err)
	}
	if apiErr, ok := statusErr.APIError(); !ok || apiErr.Code == nil || *apiErr.Code != "invalid_api_key" {
		t.Errorf("APIError() = %+v, %v", apiErr, ok)
	}

	_, err = run(t, "--response", path, "--response-status", "404", "files", "content", "file-1")
	var binaryErr *request.BinaryStatusError
	if !errors.As(err, &binaryErr) || binaryErr.StatusCode != 404 {
		t.Errorf("error = %v, want *request.BinaryStatusError", err)
	}
}

func TestReadPairsCRLF(t *testing.T) {
	input := "{\"prompt\":\"p1\",\"completion\":\"c1\"}\r\n\r\n  \t\r\n{\"prompt\":\"p2\",\"completion\":\"c2\"}\r\n"

	pairs, err := readPairs(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readPairs() error = %v", err)
	}
	if len(pairs) != 2 || pairs[0].Prompt != "p1" || pairs[1].Completion != "c2" {
		t.Errorf("pairs = %+v", pairs)
	}

	if _, err := readPairs(strings.NewReader("{\"prompt\":\"p1\"}\nnot json\n")); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want one naming line 2", err)
	}
}

func TestReadUploadContentType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "otter.bin", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: "image/png"},
		{name: "notes", data: []byte("plain words\n"), want: "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload, err := readUpload(writeTemp(t, tt.name, tt.data))
			if err != nil {
				t.Fatalf("readUpload() error = %v", err)
			}
			if upload.Filename != tt.name {
				t.Errorf("Filename = %q", upload.Filename)
			}
			if upload.Content.ContentType != tt.want {
				t.Errorf("ContentType = %q, want %q", upload.Content.ContentType, tt.want)
			}
		})
	}
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		input    string
		wantRole chat.Role
		wantName string
		wantErr  bool
	}{
		{input: "user:hello: world", wantRole: chat.RoleUser},
		{input: "assistant@helper:ok", wantRole: chat.RoleAssistant, wantName: "helper"},
		{input: "tool:{}", wantErr: true},
		{input: "no separator", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := parseMessage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if m.Role != tt.wantRole {
				t.Errorf("Role = %v, want %v", m.Role, tt.wantRole)
			}
			if tt.wantName == "" && m.Name != nil {
				t.Errorf("Name = %q, want nil", *m.Name)
			}
			if tt.wantName != "" && (m.Name == nil || *m.Name != tt.wantName) {
				t.Errorf("Name = %v, want %q", m.Name, tt.wantName)
			}
		})
	}
}

func TestParseLogitBias(t *testing.T) {
	bias, err := parseLogitBias([]string{"50256=-100", "1=5"})
	if err != nil {
		t.Fatalf("parseLogitBias() error = %v", err)
	}
	if bias["50256"] != -100 || bias["1"] != 5 {
		t.Errorf("got %v", bias)
	}
	if bias, _ := parseLogitBias(nil); bias != nil {
		t.Errorf("parseLogitBias(nil) = %v, want nil", bias)
	}
	if _, err := parseLogitBias([]string{"x=high"}); err == nil {
		t.Error("parseLogitBias accepted a non-integer bias")
	}
}
