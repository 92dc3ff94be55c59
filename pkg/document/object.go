package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that keeps its keys in insertion order. Values are
// scalars, []any and nested *Objects.
type Object struct {
	pairs *orderedmap.OrderedMap[string, any]
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{pairs: orderedmap.New[string, any]()}
}

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v any) {
	o.pairs.Set(key, v)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	return o.pairs.Get(key)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return o.pairs.Len()
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.pairs.Len())
	for p := o.pairs.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Document returns an unordered deep copy of o.
func (o *Object) Document() Document {
	out := make(Document, o.pairs.Len())
	for p := o.pairs.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = unordered(p.Value)
	}
	return out
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	out := NewObject()
	for p := o.pairs.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, ordered(p.Value))
	}
	return out
}

// ParseObject decodes a JSON object, keeping the key order of every nested
// object. Numbers are kept as json.Number.
func ParseObject(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the top-level object")
	}
	return obj, nil
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
			key, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key.(string), v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// MergeObject returns a copy of base with patch merged over it by the same
// rules as Merge. Keys of base keep their position and keys only the patch
// has are appended in sorted order. Neither input is modified.
func MergeObject(base *Object, patch Document) *Object {
	out := NewObject()
	if base != nil {
		out = base.Clone()
	}
	for _, key := range sortedKeys(patch) {
		pv := Normalize(patch[key])
		bv, ok := out.Get(key)
		if !ok {
			out.Set(key, ordered(pv))
			continue
		}
		switch b := bv.(type) {
		case []any:
			if p, isList := pv.([]any); isList {
				merged := make([]any, 0, len(b)+len(p))
				merged = append(merged, b...)
				merged = append(merged, ordered(p).([]any)...)
				out.Set(key, merged)
				continue
			}
		case *Object:
			if p, isMap := pv.(Document); isMap {
				out.Set(key, MergeObject(b, p))
				continue
			}
		}
		out.Set(key, ordered(pv))
	}
	return out
}

// EncodeObject writes o as JSON indented with indent, keeping key order.
// HTML characters are not escaped.
func EncodeObject(o *Object, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, o, indent, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any, indent string, depth int) error {
	switch val := v.(type) {
	case *Object:
		if val.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		first := true
		for p := val.pairs.Oldest(); p != nil; p = p.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			newline(buf, indent, depth+1)
			if err := encodeScalar(buf, p.Key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encodeValue(buf, p.Value, indent, depth+1); err != nil {
				return err
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
	case Document:
		return encodeValue(buf, ordered(val), indent, depth)
	case []any:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			if err := encodeValue(buf, item, indent, depth+1); err != nil {
				return err
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
	default:
		return encodeScalar(buf, val)
	}
	return nil
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

// ordered converts Documents to *Objects with sorted keys and deep copies
// everything else.
func ordered(v any) any {
	switch val := Normalize(v).(type) {
	case *Object:
		return val.Clone()
	case Document:
		out := NewObject()
		for _, key := range sortedKeys(val) {
			out.Set(key, ordered(val[key]))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ordered(item)
		}
		return out
	default:
		return val
	}
}

func unordered(v any) any {
	switch val := v.(type) {
	case *Object:
		return val.Document()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = unordered(item)
		}
		return out
	default:
		return val
	}
}

func sortedKeys(d Document) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
