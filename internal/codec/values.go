package codec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"
)

var errNull = errors.New("unexpected null")

// Value decodes any JSON value encoding/json can map onto T. Type mismatches fail, and
// so does null; wrap the decoder in Nullable where null is allowed.
func Value[T any](data []byte) (T, error) {
	var v T
	if isNull(data) {
		return v, errNull
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

var (
	String  Decoder[string]    = Value[string]
	Int     Decoder[int]       = Value[int]
	Int64   Decoder[int64]     = Value[int64]
	Float   Decoder[float64]   = Value[float64]
	Bool    Decoder[bool]      = Value[bool]
	Strings Decoder[[]string]  = Value[[]string]
	Floats  Decoder[[]float64] = Value[[]float64]
	Ints    Decoder[[]int]     = Value[[]int]

	// Count is a non-negative integer such as a token counter.
	Count = Lift(Int, nonNegative)

	// Timestamp decodes Unix seconds. See FromUnix.
	Timestamp = Lift(Int64, checkedUnix)

	// Base64 decodes standard base64 text into bytes.
	Base64 = Lift(String, DecodeBase64)

	// URL decodes an absolute URL.
	URL = Lift(String, ParseURL)
)

// Lift composes a decoder with a fallible conversion: the decode fails when either
// step fails.
func Lift[A, B any](decode Decoder[A], parse func(A) (B, error)) Decoder[B] {
	return func(data []byte) (B, error) {
		a, err := decode(data)
		if err != nil {
			var zero B
			return zero, err
		}
		return parse(a)
	}
}

// Slice decodes a JSON array element by element. Element failures name their index.
func Slice[T any](decode Decoder[T]) Decoder[[]T] {
	return func(data []byte) ([]T, error) {
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
		out := make([]T, 0, len(raws))
		for i, raw := range raws {
			v, err := decode(raw)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Nullable decodes a value that may be null. Null yields nil instead of the zero value.
func Nullable[T any](decode Decoder[T]) Decoder[*T] {
	return func(data []byte) (*T, error) {
		if isNull(data) {
			return nil, nil
		}
		v, err := decode(data)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// NullableMap decodes a JSON object value by value. Null yields a nil map, {} an empty one.
func NullableMap[V any](decode Decoder[V]) Decoder[map[string]V] {
	return func(data []byte) (map[string]V, error) {
		if isNull(data) {
			return nil, nil
		}
		var raws map[string]json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
		out := make(map[string]V, len(raws))
		for key, raw := range raws {
			v, err := decode(raw)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = v
		}
		return out, nil
	}
}

var errTimestampRange = errors.New("timestamp out of range")

func checkedUnix(sec int64) (time.Time, error) {
	if sec > math.MaxInt64/1000 || sec < math.MinInt64/1000 {
		return time.Time{}, fmt.Errorf("%d: %w", sec, errTimestampRange)
	}
	return FromUnix(sec), nil
}

// FromUnix converts upstream Unix seconds into a time value. Internally timestamps are
// kept at millisecond resolution, hence the scaling by 1000. sec must fit the scaling;
// Timestamp rejects values that do not.
func FromUnix(sec int64) time.Time {
	return time.UnixMilli(sec * 1000).UTC()
}

// ToUnix is the inverse of FromUnix.
func ToUnix(t time.Time) int64 {
	return t.UnixMilli() / 1000
}

// DecodeBase64 decodes standard, padded base64.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return data, nil
}

// ParseURL parses s and requires it to be absolute.
func ParseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: not absolute", s)
	}
	return u, nil
}

var errNegative = errors.New("must not be negative")

func nonNegative(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%d: %w", n, errNegative)
	}
	return n, nil
}
