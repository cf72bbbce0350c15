package types

import (
	"github.com/florianilch/oairequest/internal/codec"
)

// KnownModel names a model the library knows about.
type KnownModel int

const (
	GPT4 KnownModel = iota + 1
	GPT40314
	GPT432K
	GPT432K0314
	GPT35Turbo
	GPT35Turbo0301
	TextDavinci003
	TextDavinci002
	TextCurie001
	TextBabbage001
	TextAda001
	Davinci
	Curie
	Babbage
	Ada
	CodeDavinci002
	CodeCushman001
	TextDavinciEdit001
	CodeDavinciEdit001
	TextEmbeddingAda002
	TextModerationStable
	TextModerationLatest
	Whisper1
)

var knownModelNames = map[KnownModel]string{
	GPT4:                 "gpt-4",
	GPT40314:             "gpt-4-0314",
	GPT432K:              "gpt-4-32k",
	GPT432K0314:          "gpt-4-32k-0314",
	GPT35Turbo:           "gpt-3.5-turbo",
	GPT35Turbo0301:       "gpt-3.5-turbo-0301",
	TextDavinci003:       "text-davinci-003",
	TextDavinci002:       "text-davinci-002",
	TextCurie001:         "text-curie-001",
	TextBabbage001:       "text-babbage-001",
	TextAda001:           "text-ada-001",
	Davinci:              "davinci",
	Curie:                "curie",
	Babbage:              "babbage",
	Ada:                  "ada",
	CodeDavinci002:       "code-davinci-002",
	CodeCushman001:       "code-cushman-001",
	TextDavinciEdit001:   "text-davinci-edit-001",
	CodeDavinciEdit001:   "code-davinci-edit-001",
	TextEmbeddingAda002:  "text-embedding-ada-002",
	TextModerationStable: "text-moderation-stable",
	TextModerationLatest: "text-moderation-latest",
	Whisper1:             "whisper-1",
}

var knownModelsByName = func() map[string]KnownModel {
	m := make(map[string]KnownModel, len(knownModelNames))
	for k, name := range knownModelNames {
		m[name] = k
	}
	return m
}()

// String returns the wire name.
func (k KnownModel) String() string {
	return knownModelNames[k]
}

// ModelID identifies a model: either a KnownModel or a custom name such as a
// fine-tuned model. The zero value is empty.
type ModelID struct {
	known  KnownModel
	custom string
}

// Model returns the ID of a known model.
func Model(k KnownModel) ModelID {
	return ModelID{known: k}
}

// CustomModel returns the ID for an arbitrary model name. Names of known models
// resolve to their KnownModel, so equal names always give equal IDs.
func CustomModel(name string) ModelID {
	return ParseModelID(name)
}

// ParseModelID maps a wire name to a ModelID. It never fails: unrecognized names become
// custom IDs, because the API adds models without notice.
func ParseModelID(name string) ModelID {
	if k, ok := knownModelsByName[name]; ok {
		return ModelID{known: k}
	}
	return ModelID{custom: name}
}

// Known returns the known model, if m is one.
func (m ModelID) Known() (KnownModel, bool) {
	return m.known, m.known != 0
}

// Custom returns the custom name, if m is not a known model.
func (m ModelID) Custom() (string, bool) {
	return m.custom, m.known == 0 && m.custom != ""
}

// IsZero reports whether m is empty.
func (m ModelID) IsZero() bool {
	return m.known == 0 && m.custom == ""
}

// String returns the wire name.
func (m ModelID) String() string {
	if m.known != 0 {
		return m.known.String()
	}
	return m.custom
}

// MarshalText implements encoding.TextMarshaler.
func (m ModelID) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DecodeModelID decodes a model name string.
var DecodeModelID = codec.Lift(codec.String, func(s string) (ModelID, error) {
	return ParseModelID(s), nil
})
