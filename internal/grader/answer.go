package grader

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind is the shape of a submitted answer.
type Kind int

const (
	// KindNone is an absent or null answer.
	KindNone Kind = iota
	// KindText is a single value: a JSON string or number.
	KindText
	// KindList is a JSON array of strings or numbers.
	KindList
	// KindMalformed is any other JSON value.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindMalformed:
		return "malformed"
	default:
		return "none"
	}
}

// Answer is a submitted answer. The zero value is an absent answer.
//
// Decoding an Answer from JSON never fails: values of an unexpected shape
// decode as KindMalformed and are graded as incorrect.
type Answer struct {
	kind Kind
	text string
	list []string
	raw  json.RawMessage
}

// Text returns a single-value answer.
func Text(s string) Answer {
	return Answer{kind: KindText, text: s}
}

// List returns a list answer.
func List(values ...string) Answer {
	return Answer{kind: KindList, list: append([]string{}, values...)}
}

// Kind returns the shape of the answer.
func (a Answer) Kind() Kind {
	return a.kind
}

// AsText returns the value of a single-value answer.
func (a Answer) AsText() (string, bool) {
	return a.text, a.kind == KindText
}

// AsList returns the values of a list answer.
func (a Answer) AsList() ([]string, bool) {
	return a.list, a.kind == KindList
}

func (a Answer) String() string {
	switch a.kind {
	case KindText:
		return a.text
	case KindList:
		return "[" + strings.Join(a.list, ", ") + "]"
	case KindMalformed:
		return string(a.raw)
	default:
		return ""
	}
}

// MarshalJSON writes a string, an array, null, or the original value of a
// malformed answer.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case KindText:
		return json.Marshal(a.text)
	case KindList:
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	case KindMalformed:
		if len(a.raw) > 0 {
			return a.raw, nil
		}
		return []byte("null"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON classifies the JSON value. It never returns an error.
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = parseAnswer(bytes.TrimSpace(data))
	return nil
}

func parseAnswer(data []byte) Answer {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Answer{}
	}

	malformed := Answer{kind: KindMalformed, raw: append(json.RawMessage{}, data...)}

	if data[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return malformed
		}

		values := make([]string, 0, len(elems))
		for _, elem := range elems {
			value, ok := scalar(elem)
			if !ok {
				return malformed
			}
			values = append(values, value)
		}
		return Answer{kind: KindList, list: values}
	}

	if value, ok := scalar(data); ok {
		return Text(value)
	}

	return malformed
}

// scalar decodes a JSON string, or keeps the literal of a JSON number.
func scalar(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		return s, true
	case c == '-' || ('0' <= c && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", false
		}
		return n.String(), true
	default:
		return "", false
	}
}
