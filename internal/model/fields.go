package model

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Flag is a boolean that also accepts the lax forms browsers and form
// libraries send: 0/1 and the strings true/false, t/f, yes/no, y/n, on/off,
// 1/0 in any case. null leaves it false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		*f = Flag(v)
		return nil
	case float64:
		if v == 0 || v == 1 {
			*f = v == 1
			return nil
		}
	case string:
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			*f = true
			return nil
		case "0", "false", "f", "no", "n", "off":
			*f = false
			return nil
		}
	}

	return typeError(value, reflect.TypeOf(false))
}

// Score is a number that may also arrive as a numeric string ("85").
// Non-finite values are rejected since they cannot be encoded as JSON.
type Score float64

func (s *Score) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		*s = Score(v)
		return nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			*s = Score(n)
			return nil
		}
	}

	return typeError(value, reflect.TypeOf(float64(0)))
}

// Scopes is a list of strings that rejects null elements.
type Scopes []string

func (s *Scopes) UnmarshalJSON(data []byte) error {
	var items []*string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if items == nil {
		*s = nil
		return nil
	}

	scopes := make(Scopes, 0, len(items))
	for _, item := range items {
		if item == nil {
			return typeError(nil, reflect.TypeOf(""))
		}
		scopes = append(scopes, *item)
	}

	*s = scopes
	return nil
}

// typeError reports value the way encoding/json does, so the decoder fills in
// the offending field name.
func typeError(value any, want reflect.Type) error {
	kind := "null"
	switch value.(type) {
	case bool:
		kind = "bool"
	case float64:
		kind = "number"
	case string:
		kind = "string"
	case []any:
		kind = "array"
	case map[string]any:
		kind = "object"
	}

	return &json.UnmarshalTypeError{Value: kind, Type: want}
}
