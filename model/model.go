// Package model describes model listing requests (/models).
//
// Deleting a fine-tuned model lives in package finetune.
package model

import (
	"net/http"
	"net/url"
	"time"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// Permission is an access rule attached to a model.
type Permission struct {
	ID                 string
	Object             string
	Created            time.Time
	AllowCreateEngine  bool
	AllowSampling      bool
	AllowLogprobs      bool
	AllowSearchIndices bool
	AllowView          bool
	AllowFineTuning    bool
	Organization       string
	Group              *string
	IsBlocking         bool
}

func decodePermission(data []byte) (Permission, error) {
	o := codec.NewObject("model.Permission", data)
	p := Permission{
		ID:                 codec.Field(o, "id", codec.String),
		Object:             codec.Field(o, "object", codec.String),
		Created:            codec.Field(o, "created", codec.Timestamp),
		AllowCreateEngine:  codec.Field(o, "allow_create_engine", codec.Bool),
		AllowSampling:      codec.Field(o, "allow_sampling", codec.Bool),
		AllowLogprobs:      codec.Field(o, "allow_logprobs", codec.Bool),
		AllowSearchIndices: codec.Field(o, "allow_search_indices", codec.Bool),
		AllowView:          codec.Field(o, "allow_view", codec.Bool),
		AllowFineTuning:    codec.Field(o, "allow_fine_tuning", codec.Bool),
		Organization:       codec.Field(o, "organization", codec.String),
		Group:              codec.Optional(o, "group", codec.String),
		IsBlocking:         codec.Field(o, "is_blocking", codec.Bool),
	}
	if err := o.Err(); err != nil {
		return Permission{}, err
	}
	return p, nil
}

// Model describes a model available to the organization.
type Model struct {
	ID          types.ModelID
	Object      string
	Created     time.Time
	OwnedBy     string
	Permissions []Permission
	Root        *string
	Parent      *string
}

// Decode decodes a model object. The permission list is optional because newer API
// versions omit it.
func Decode(data []byte) (Model, error) {
	o := codec.NewObject("model.Model", data)
	m := Model{
		ID:          codec.Field(o, "id", types.DecodeModelID),
		Object:      codec.Field(o, "object", codec.String),
		Created:     codec.Field(o, "created", codec.Timestamp),
		OwnedBy:     codec.Field(o, "owned_by", codec.String),
		Permissions: codec.OptionalSlice(o, "permission", decodePermission),
		Root:        codec.Optional(o, "root", codec.String),
		Parent:      codec.Optional(o, "parent", codec.String),
	}
	if err := o.Err(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// List describes listing the models available to the organization.
func List() request.Request[types.List[Model]] {
	return request.New(http.MethodGet, "/models", nil, types.ListParser("model.List", Decode))
}

// Retrieve describes fetching one model.
func Retrieve(id types.ModelID) request.Request[Model] {
	return request.New(http.MethodGet, "/models/"+url.PathEscape(id.String()), nil, request.JSON(Decode))
}
