package edit

import (
	"testing"

	"github.com/florianilch/oairequest/types"
)

func TestEncode(t *testing.T) {
	f := Encode(Input{
		Model:       types.Model(types.TextDavinciEdit001),
		Instruction: "Fix the spelling mistakes",
	})

	if f["model"] != "text-davinci-edit-001" || f["instruction"] != "Fix the spelling mistakes" {
		t.Errorf("got %v", f)
	}
	for _, key := range []string{"input", "n", "temperature", "top_p"} {
		if _, present := f[key]; present {
			t.Errorf("%s present, want omitted", key)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID bool
	}{
		{
			name:  "without id",
			input: `{"object":"edit","created":1589478378,"choices":[{"text":"What day of the week is it?","index":0}],"usage":{"prompt_tokens":25,"completion_tokens":32,"total_tokens":57}}`,
		},
		{
			name:   "with id",
			input:  `{"id":"edit-1","object":"edit","created":1589478378,"choices":[],"usage":{"prompt_tokens":0,"completion_tokens":0,"total_tokens":0}}`,
			wantID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if (out.ID != nil) != tt.wantID {
				t.Errorf("ID = %v, want present %v", out.ID, tt.wantID)
			}
			if out.Object != "edit" {
				t.Errorf("Object = %q", out.Object)
			}
		})
	}
}
