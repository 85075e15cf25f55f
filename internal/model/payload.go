package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a decoded JSON object that keeps its keys in document order.
// Panel responses are rendered back to the user key by key, so the order
// the panel sent them in is the order they are printed in.
type Object struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewObject creates an empty ordered object
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, any]()}
}

// Set adds or replaces a key. New keys are appended after existing ones.
func (o *Object) Set(key string, value any) {
	o.m.Set(key, value)
}

// Get returns the value stored under key
func (o *Object) Get(key string) (any, bool) {
	return o.m.Get(key)
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys
func (o *Object) Len() int {
	return o.m.Len()
}

// MarshalJSON encodes the object with its keys in order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}

		k, err := MarshalJSON(pair.Key)
		if err != nil {
			return nil, err
		}
		v, err := MarshalJSON(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", pair.Key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes v compactly without escaping HTML characters
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeJSON decodes a JSON document into an ordered payload tree made of
// *Object, []any, string, json.Number, bool and nil values. Nested objects
// become *Object too, so the walk is done token by token instead of through
// OrderedMap.UnmarshalJSON, which decodes nested values into plain maps.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid json: unexpected data after top-level value")
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("invalid json: object key %v is not a string", kt)
			}

			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("invalid json: unexpected delimiter %v", delim)
}
