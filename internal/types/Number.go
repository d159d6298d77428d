package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NullableFloat is the JSON form of every numeric input and derived value.
// Non-finite values are written as null. Decoding accepts numbers, numeric
// strings and null; null, empty, non-numeric or infinite strings decode to NaN,
// which marks the field as still requiring input.
type NullableFloat float64

func (f NullableFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *NullableFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = NullableFloat(math.NaN())
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = NullableFloat(ParseInputValue(s))
		return nil
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*f = NullableFloat(v)
	return nil
}

// ParseInputValue converts raw user text into an input value. Anything that is
// not a finite number, including "Inf" and "Infinity", becomes NaN.
func ParseInputValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
