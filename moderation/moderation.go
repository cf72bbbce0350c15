// Package moderation describes content moderation requests (POST /moderations).
package moderation

import (
	"net/http"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// Model is a moderation model. The endpoint only accepts these two names.
type Model int

const (
	ModelStable Model = iota + 1
	ModelLatest
)

var modelNames = map[Model]string{
	ModelStable: "text-moderation-stable",
	ModelLatest: "text-moderation-latest",
}

// String returns the wire name.
func (m Model) String() string {
	return modelNames[m]
}

// ParseModel looks up a moderation model by wire name.
func ParseModel(name string) (Model, bool) {
	for m, n := range modelNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// Input is the body of a moderation request.
type Input struct {
	Input []string
	// Model defaults to text-moderation-latest upstream when nil.
	Model *Model
}

// Encode encodes the request body.
func Encode(in Input) map[string]any {
	input := in.Input
	if input == nil {
		input = []string{}
	}
	f := codec.Fields{
		"input": input,
	}
	codec.SetOptionalAs(f, "model", in.Model, Model.String)
	return f
}

// Categories flags which policies an input violates.
type Categories struct {
	Hate            bool
	HateThreatening bool
	SelfHarm        bool
	Sexual          bool
	SexualMinors    bool
	Violence        bool
	ViolenceGraphic bool
}

// CategoryScores holds the model's confidence per category.
type CategoryScores struct {
	Hate            float64
	HateThreatening float64
	SelfHarm        float64
	Sexual          float64
	SexualMinors    float64
	Violence        float64
	ViolenceGraphic float64
}

// categoryKeys binds wire keys to fields. Wire keys contain '/' and '-', so they are
// listed verbatim rather than derived from field names.
var categoryKeys = []struct {
	key   string
	flag  func(*Categories) *bool
	score func(*CategoryScores) *float64
}{
	{"hate", func(c *Categories) *bool { return &c.Hate }, func(s *CategoryScores) *float64 { return &s.Hate }},
	{"hate/threatening", func(c *Categories) *bool { return &c.HateThreatening }, func(s *CategoryScores) *float64 { return &s.HateThreatening }},
	{"self-harm", func(c *Categories) *bool { return &c.SelfHarm }, func(s *CategoryScores) *float64 { return &s.SelfHarm }},
	{"sexual", func(c *Categories) *bool { return &c.Sexual }, func(s *CategoryScores) *float64 { return &s.Sexual }},
	{"sexual/minors", func(c *Categories) *bool { return &c.SexualMinors }, func(s *CategoryScores) *float64 { return &s.SexualMinors }},
	{"violence", func(c *Categories) *bool { return &c.Violence }, func(s *CategoryScores) *float64 { return &s.Violence }},
	{"violence/graphic", func(c *Categories) *bool { return &c.ViolenceGraphic }, func(s *CategoryScores) *float64 { return &s.ViolenceGraphic }},
}

// DecodeCategories decodes the categories object.
func DecodeCategories(data []byte) (Categories, error) {
	o := codec.NewObject("moderation.Categories", data)
	var c Categories
	for _, k := range categoryKeys {
		*k.flag(&c) = codec.Field(o, k.key, codec.Bool)
	}
	if err := o.Err(); err != nil {
		return Categories{}, err
	}
	return c, nil
}

// DecodeCategoryScores decodes the category_scores object.
func DecodeCategoryScores(data []byte) (CategoryScores, error) {
	o := codec.NewObject("moderation.CategoryScores", data)
	var s CategoryScores
	for _, k := range categoryKeys {
		*k.score(&s) = codec.Field(o, k.key, codec.Float)
	}
	if err := o.Err(); err != nil {
		return CategoryScores{}, err
	}
	return s, nil
}

// EncodeCategories is the inverse of DecodeCategories.
func EncodeCategories(c Categories) map[string]any {
	f := make(map[string]any, len(categoryKeys))
	for _, k := range categoryKeys {
		f[k.key] = *k.flag(&c)
	}
	return f
}

// Result is the verdict for one input.
type Result struct {
	Categories     Categories
	CategoryScores CategoryScores
	Flagged        bool
}

func decodeResult(data []byte) (Result, error) {
	o := codec.NewObject("moderation.Result", data)
	r := Result{
		Categories:     codec.Field(o, "categories", DecodeCategories),
		CategoryScores: codec.Field(o, "category_scores", DecodeCategoryScores),
		Flagged:        codec.Field(o, "flagged", codec.Bool),
	}
	if err := o.Err(); err != nil {
		return Result{}, err
	}
	return r, nil
}

// Output is the response of a moderation request, one Result per input.
type Output struct {
	ID      string
	Model   types.ModelID
	Results []Result
}

// Decode decodes the response body.
func Decode(data []byte) (Output, error) {
	o := codec.NewObject("moderation.Output", data)
	out := Output{
		ID:      codec.Field(o, "id", codec.String),
		Model:   codec.Field(o, "model", types.DecodeModelID),
		Results: codec.Field(o, "results", codec.Slice(decodeResult)),
	}
	if err := o.Err(); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Create describes a moderation request.
func Create(in Input) request.Request[Output] {
	return request.New(http.MethodPost, "/moderations", codec.Fields(Encode(in)).Body(), request.JSON(Decode))
}
