// Package audio describes speech-to-text requests: transcriptions
// (POST /audio/transcriptions) and translations into English (POST /audio/translations).
package audio

import (
	"fmt"
	"net/http"

	"github.com/florianilch/oairequest/internal/codec"
	"github.com/florianilch/oairequest/request"
	"github.com/florianilch/oairequest/types"
)

// ResponseFormat selects the shape of the transcript.
type ResponseFormat int

const (
	FormatJSON ResponseFormat = iota + 1
	FormatText
	FormatSRT
	FormatVerboseJSON
	FormatVTT
)

var formatNames = map[ResponseFormat]string{
	FormatJSON:        "json",
	FormatText:        "text",
	FormatSRT:         "srt",
	FormatVerboseJSON: "verbose_json",
	FormatVTT:         "vtt",
}

// String returns the wire name.
func (f ResponseFormat) String() string {
	return formatNames[f]
}

// ParseResponseFormat looks up a format by wire name.
func ParseResponseFormat(name string) (ResponseFormat, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown audio response format %q", name)
}

// Segment is a timed piece of a verbose_json transcript.
type Segment struct {
	ID               int
	Seek             int
	Start            float64
	End              float64
	Text             string
	Tokens           []int
	Temperature      float64
	AvgLogprob       float64
	CompressionRatio float64
	NoSpeechProb     float64
}

func decodeSegment(data []byte) (Segment, error) {
	o := codec.NewObject("audio.Segment", data)
	s := Segment{
		ID:               codec.Field(o, "id", codec.Int),
		Seek:             codec.Field(o, "seek", codec.Int),
		Start:            codec.Field(o, "start", codec.Float),
		End:              codec.Field(o, "end", codec.Float),
		Text:             codec.Field(o, "text", codec.String),
		Tokens:           codec.Field(o, "tokens", codec.Ints),
		Temperature:      codec.Field(o, "temperature", codec.Float),
		AvgLogprob:       codec.Field(o, "avg_logprob", codec.Float),
		CompressionRatio: codec.Field(o, "compression_ratio", codec.Float),
		NoSpeechProb:     codec.Field(o, "no_speech_prob", codec.Float),
	}
	if err := o.Err(); err != nil {
		return Segment{}, err
	}
	return s, nil
}

// Output is the transcript. For text, srt and vtt formats Text holds the raw body;
// Language, Duration and Segments are only filled for verbose_json.
type Output struct {
	Text     string
	Language *string
	Duration *float64
	Segments []Segment
}

// DecodeJSON decodes json and verbose_json bodies.
func DecodeJSON(data []byte) (Output, error) {
	o := codec.NewObject("audio.Output", data)
	out := Output{
		Text:     codec.Field(o, "text", codec.String),
		Language: codec.Optional(o, "language", codec.String),
		Duration: codec.Optional(o, "duration", codec.Float),
		Segments: codec.OptionalSlice(o, "segments", decodeSegment),
	}
	if err := o.Err(); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Parser returns the response parser for the requested format. A nil format means the
// API default, FormatJSON.
func Parser(format *ResponseFormat) request.Parser[Output] {
	if format == nil {
		return request.JSON(DecodeJSON)
	}
	switch *format {
	case FormatText, FormatSRT, FormatVTT:
		return func(resp request.Response) (Output, error) {
			return Output{Text: string(resp.Body)}, nil
		}
	default:
		return request.JSON(DecodeJSON)
	}
}

// TranscriptionInput transcribes File in its spoken language.
type TranscriptionInput struct {
	File           types.Upload
	Model          types.ModelID
	Prompt         *string
	ResponseFormat *ResponseFormat
	Temperature    *float64
	// Language is an ISO-639-1 code hinting the spoken language.
	Language *string
}

// TranslationInput translates the speech in File into English.
type TranslationInput struct {
	File           types.Upload
	Model          types.ModelID
	Prompt         *string
	ResponseFormat *ResponseFormat
	Temperature    *float64
}

// EncodeTranscription builds the multipart parts; the file comes last.
func EncodeTranscription(in TranscriptionInput) request.MultipartBody {
	var p codec.Parts
	p.Text("model", in.Model.String())
	codec.OptionalText(&p, "prompt", in.Prompt, codec.FormatString)
	codec.OptionalText(&p, "response_format", in.ResponseFormat, ResponseFormat.String)
	codec.OptionalText(&p, "temperature", in.Temperature, codec.FormatFloat)
	codec.OptionalText(&p, "language", in.Language, codec.FormatString)
	p.File("file", in.File.Filename, in.File.Content.ContentType, in.File.Content.Data)
	return p.Body()
}

// EncodeTranslation builds the multipart parts; the file comes last.
func EncodeTranslation(in TranslationInput) request.MultipartBody {
	var p codec.Parts
	p.Text("model", in.Model.String())
	codec.OptionalText(&p, "prompt", in.Prompt, codec.FormatString)
	codec.OptionalText(&p, "response_format", in.ResponseFormat, ResponseFormat.String)
	codec.OptionalText(&p, "temperature", in.Temperature, codec.FormatFloat)
	p.File("file", in.File.Filename, in.File.Content.ContentType, in.File.Content.Data)
	return p.Body()
}

// Transcribe describes a transcription request.
func Transcribe(in TranscriptionInput) request.Request[Output] {
	return request.New(http.MethodPost, "/audio/transcriptions", EncodeTranscription(in), Parser(in.ResponseFormat))
}

// Translate describes a translation request.
func Translate(in TranslationInput) request.Request[Output] {
	return request.New(http.MethodPost, "/audio/translations", EncodeTranslation(in), Parser(in.ResponseFormat))
}
