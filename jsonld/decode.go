package jsonld

import (
	"encoding/json"
	"fmt"
)

// object is a JSON object that remembers key order. A repeated key keeps its first position and
// its last value, matching encoding/json's last-wins semantics.
type object struct {
	entries []entry
}

type entry struct {
	key   string
	value any
}

func (o *object) get(key string) (any, bool) {
	for _, e := range o.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

func (o *object) set(key string, value any) {
	for i := range o.entries {
		if o.entries[i].key == key {
			o.entries[i].value = value
			return
		}
	}
	o.entries = append(o.entries, entry{key: key, value: value})
}

// decodeValue reads one JSON value from dec. Objects become *object, arrays []any, and scalars are
// returned as produced by dec.Token (string, json.Number, bool, nil).
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
		obj := &object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// plain converts decoded values back to map[string]any / []any for callers that do not care about
// key order, such as @context inspection.
func plain(v any) any {
	switch t := v.(type) {
	case *object:
		m := make(map[string]any, len(t.entries))
		for _, e := range t.entries {
			m[e.key] = plain(e.value)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}
