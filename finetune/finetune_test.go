package finetune

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/florianilch/oairequest/types"
)

const sampleJob = `{
	"id": "ft-AF1WoRqd3aJAHsqc9NY7iL8F",
	"object": "fine-tune",
	"model": "curie",
	"created_at": 1614807352,
	"events": [
		{"object": "fine-tune-event", "created_at": 1614807352, "level": "info", "message": "Job enqueued. Waiting for jobs ahead to complete. Queue number: 0."}
	],
	"fine_tuned_model": null,
	"hyperparams": {"batch_size": 4, "learning_rate_multiplier": 0.1, "n_epochs": 4, "prompt_loss_weight": 0.1},
	"organization_id": "org-...",
	"result_files": [],
	"status": "pending",
	"validation_files": [],
	"training_files": [
		{"id": "file-XGinujblHPwGLSztz8cPS8XY", "object": "file", "bytes": 1547276, "created_at": 1610062281, "filename": "my-data-train.jsonl", "purpose": "fine-tune-train"}
	],
	"updated_at": 1614807352
}`

func TestDecodeJob(t *testing.T) {
	job, err := DecodeJob([]byte(sampleJob))
	if err != nil {
		t.Fatalf("DecodeJob() error = %v", err)
	}

	if job.Status != (Status{Kind: StatusPending}) {
		t.Errorf("Status = %+v", job.Status)
	}
	if job.FineTunedModel != nil {
		t.Errorf("FineTunedModel = %v, want nil", job.FineTunedModel)
	}
	if job.Model != types.Model(types.Curie) {
		t.Errorf("Model = %v", job.Model)
	}
	if len(job.Events) != 1 || job.Events[0].Level != "info" {
		t.Errorf("Events = %+v", job.Events)
	}
	if job.Hyperparams.BatchSize == nil || *job.Hyperparams.BatchSize != 4 {
		t.Errorf("BatchSize = %v", job.Hyperparams.BatchSize)
	}
	if len(job.TrainingFiles) != 1 || job.TrainingFiles[0].Bytes != 1547276 {
		t.Errorf("TrainingFiles = %+v", job.TrainingFiles)
	}
}

func TestDecodeJobListEntry(t *testing.T) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(sampleJob), &fields); err != nil {
		t.Fatal(err)
	}
	delete(fields, "events")
	fields["status"] = "succeeded"
	fields["fine_tuned_model"] = "curie:ft-acme-inc-2021-03-03-21-44-20"
	fields["hyperparams"] = map[string]any{"n_epochs": 4, "prompt_loss_weight": 0.1}
	data, _ := json.Marshal(fields)

	job, err := DecodeJob(data)
	if err != nil {
		t.Fatalf("DecodeJob() error = %v", err)
	}
	if job.Events != nil {
		t.Errorf("Events = %v, want nil", job.Events)
	}
	if job.FineTunedModel == nil || job.FineTunedModel.String() != "curie:ft-acme-inc-2021-03-03-21-44-20" {
		t.Errorf("FineTunedModel = %v", job.FineTunedModel)
	}
	if job.Hyperparams.BatchSize != nil || job.Hyperparams.LearningRateMultiplier != nil {
		t.Errorf("Hyperparams = %+v, want unset batch size and learning rate", job.Hyperparams)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{input: "pending", want: Status{Kind: StatusPending}},
		{input: "succeeded", want: Status{Kind: StatusSucceeded}},
		{input: "cancelled", want: Status{Kind: StatusCancelled}},
		{input: "archived", want: Status{Kind: StatusOther, Other: "archived"}},
		{input: "running", want: Status{Kind: StatusOther, Other: "running"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseStatus(tt.input)
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	model := types.Model(types.Ada)
	f := Encode(Input{
		TrainingFile:        "file-1",
		Model:               &model,
		ClassificationBetas: []float64{0.5, 1},
	})

	if f["training_file"] != "file-1" || f["model"] != "ada" {
		t.Errorf("got %v", f)
	}
	if betas, _ := f["classification_betas"].([]float64); len(betas) != 2 {
		t.Errorf("classification_betas = %v", f["classification_betas"])
	}
	for _, key := range []string{"validation_file", "n_epochs", "batch_size", "suffix", "compute_classification_metrics"} {
		if _, present := f[key]; present {
			t.Errorf("%s present, want omitted", key)
		}
	}
}

func TestRequests(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		url        string
		wantMethod string
		wantURL    string
	}{
		{name: "list", method: List().Method, url: List().URL, wantMethod: http.MethodGet, wantURL: "/fine-tunes"},
		{name: "retrieve", method: Retrieve("ft-1").Method, url: Retrieve("ft-1").URL, wantMethod: http.MethodGet, wantURL: "/fine-tunes/ft-1"},
		{name: "cancel", method: Cancel("ft-1").Method, url: Cancel("ft-1").URL, wantMethod: http.MethodPost, wantURL: "/fine-tunes/ft-1/cancel"},
		{name: "events", method: Events("ft-1").Method, url: Events("ft-1").URL, wantMethod: http.MethodGet, wantURL: "/fine-tunes/ft-1/events"},
		{
			name:       "delete model",
			method:     DeleteModel(types.CustomModel("curie:ft-acme")).Method,
			url:        DeleteModel(types.CustomModel("curie:ft-acme")).URL,
			wantMethod: http.MethodDelete,
			wantURL:    "/models/curie:ft-acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.method != tt.wantMethod || tt.url != tt.wantURL {
				t.Errorf("got %s %s, want %s %s", tt.method, tt.url, tt.wantMethod, tt.wantURL)
			}
		})
	}
}
