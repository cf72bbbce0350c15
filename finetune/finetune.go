// Package finetune describes fine-tuning job requests (/fine-tunes) and the deletion of
// fine-tuned models.
package finetune

import (
	"net/http"
	"net/url"
	"time"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// StatusKind classifies a job status.
type StatusKind int

const (
	// StatusOther is any status string not listed below.
	StatusOther StatusKind = iota
	StatusPending
	StatusSucceeded
	StatusCancelled
)

var statusNames = map[StatusKind]string{
	StatusPending:   "pending",
	StatusSucceeded: "succeeded",
	StatusCancelled: "cancelled",
}

// Status is the state of a job. Other holds the raw string when Kind is StatusOther.
type Status struct {
	Kind  StatusKind
	Other string
}

// ParseStatus maps a wire string to a Status. It never fails.
func ParseStatus(s string) Status {
	for kind, name := range statusNames {
		if name == s {
			return Status{Kind: kind}
		}
	}
	return Status{Kind: StatusOther, Other: s}
}

// String returns the wire string.
func (s Status) String() string {
	if s.Kind == StatusOther {
		return s.Other
	}
	return statusNames[s.Kind]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event is an entry of a job's event log.
type Event struct {
	Object    string
	CreatedAt time.Time
	Level     string
	Message   string
}

// DecodeEvent decodes a job event.
func DecodeEvent(data []byte) (Event, error) {
	o := codec.NewObject("finetune.Event", data)
	e := Event{
		Object:    codec.Field(o, "object", codec.String),
		CreatedAt: codec.Field(o, "created_at", codec.Timestamp),
		Level:     codec.Field(o, "level", codec.String),
		Message:   codec.Field(o, "message", codec.String),
	}
	if err := o.Err(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Hyperparams are the training parameters the job ran with. Batch size and learning rate
// are chosen by the server and stay nil until the job starts.
type Hyperparams struct {
	BatchSize              *int
	LearningRateMultiplier *float64
	NEpochs                int
	PromptLossWeight       float64
}

func decodeHyperparams(data []byte) (Hyperparams, error) {
	o := codec.NewObject("finetune.Hyperparams", data)
	h := Hyperparams{
		BatchSize:              codec.Optional(o, "batch_size", codec.Int),
		LearningRateMultiplier: codec.Optional(o, "learning_rate_multiplier", codec.Float),
		NEpochs:                codec.Field(o, "n_epochs", codec.Int),
		PromptLossWeight:       codec.Field(o, "prompt_loss_weight", codec.Float),
	}
	if err := o.Err(); err != nil {
		return Hyperparams{}, err
	}
	return h, nil
}

// Job is a fine-tuning job. Events is nil in list responses, which omit the event log.
type Job struct {
	ID              string
	Object          string
	Model           types.ModelID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Events          []Event
	FineTunedModel  *types.ModelID
	Hyperparams     Hyperparams
	OrganizationID  string
	ResultFiles     []types.File
	Status          Status
	ValidationFiles []types.File
	TrainingFiles   []types.File
}

// DecodeJob decodes a job object.
func DecodeJob(data []byte) (Job, error) {
	o := codec.NewObject("finetune.Job", data)
	j := Job{
		ID:              codec.Field(o, "id", codec.String),
		Object:          codec.Field(o, "object", codec.String),
		Model:           codec.Field(o, "model", types.DecodeModelID),
		CreatedAt:       codec.Field(o, "created_at", codec.Timestamp),
		UpdatedAt:       codec.Field(o, "updated_at", codec.Timestamp),
		Events:          codec.OptionalSlice(o, "events", DecodeEvent),
		FineTunedModel:  codec.Optional(o, "fine_tuned_model", types.DecodeModelID),
		Hyperparams:     codec.Field(o, "hyperparams", decodeHyperparams),
		OrganizationID:  codec.Field(o, "organization_id", codec.String),
		ResultFiles:     codec.Field(o, "result_files", codec.Slice(types.DecodeFile)),
		Status:          codec.Field(o, "status", codec.Lift(codec.String, parseStatus)),
		ValidationFiles: codec.Field(o, "validation_files", codec.Slice(types.DecodeFile)),
		TrainingFiles:   codec.Field(o, "training_files", codec.Slice(types.DecodeFile)),
	}
	if err := o.Err(); err != nil {
		return Job{}, err
	}
	return j, nil
}

func parseStatus(s string) (Status, error) {
	return ParseStatus(s), nil
}

// Input creates a job training on TrainingFile, a file uploaded with purpose "fine-tune".
type Input struct {
	TrainingFile                 string
	ValidationFile               *string
	Model                        *types.ModelID
	NEpochs                      *int
	BatchSize                    *int
	LearningRateMultiplier       *float64
	PromptLossWeight             *float64
	ComputeClassificationMetrics *bool
	ClassificationNClasses       *int
	ClassificationPositiveClass  *string
	ClassificationBetas          []float64
	Suffix                       *string
}

// Encode encodes the request body.
func Encode(in Input) map[string]any {
	f := codec.Fields{
		"training_file": in.TrainingFile,
	}
	codec.SetOptional(f, "validation_file", in.ValidationFile)
	codec.SetOptionalAs(f, "model", in.Model, types.ModelID.String)
	codec.SetOptional(f, "n_epochs", in.NEpochs)
	codec.SetOptional(f, "batch_size", in.BatchSize)
	codec.SetOptional(f, "learning_rate_multiplier", in.LearningRateMultiplier)
	codec.SetOptional(f, "prompt_loss_weight", in.PromptLossWeight)
	codec.SetOptional(f, "compute_classification_metrics", in.ComputeClassificationMetrics)
	codec.SetOptional(f, "classification_n_classes", in.ClassificationNClasses)
	codec.SetOptional(f, "classification_positive_class", in.ClassificationPositiveClass)
	codec.SetSlice(f, "classification_betas", in.ClassificationBetas)
	codec.SetOptional(f, "suffix", in.Suffix)
	return f
}

// Create describes the creation of a job.
func Create(in Input) request.Request[Job] {
	return request.New(http.MethodPost, "/fine-tunes", codec.Fields(Encode(in)).Body(), request.JSON(DecodeJob))
}

// List describes listing the organization's jobs.
func List() request.Request[types.List[Job]] {
	return request.New(http.MethodGet, "/fine-tunes", nil, types.ListParser("finetune.List", DecodeJob))
}

// Retrieve describes fetching one job, including its events.
func Retrieve(id string) request.Request[Job] {
	return request.New(http.MethodGet, "/fine-tunes/"+url.PathEscape(id), nil, request.JSON(DecodeJob))
}

// Cancel describes cancelling a running job.
func Cancel(id string) request.Request[Job] {
	return request.New(http.MethodPost, "/fine-tunes/"+url.PathEscape(id)+"/cancel", nil, request.JSON(DecodeJob))
}

// Events describes listing a job's events.
func Events(id string) request.Request[types.List[Event]] {
	return request.New(http.MethodGet, "/fine-tunes/"+url.PathEscape(id)+"/events", nil, types.ListParser("finetune.Events", DecodeEvent))
}

// DeleteModel describes deleting a fine-tuned model.
func DeleteModel(model types.ModelID) request.Request[types.Deleted] {
	return request.New(http.MethodDelete, "/models/"+url.PathEscape(model.String()), nil, request.JSON(types.DecodeDeleted))
}
