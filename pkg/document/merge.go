// Package document holds the JSON-like update documents extensions produce and
// the deep merge used to combine them.
package document

import (
	"reflect"
)

// Document is a JSON-like tree: scalars, []any and nested Documents.
type Document map[string]any

// Strategy merges a patch into a base document.
type Strategy interface {
	Merge(base, patch Document) Document
}

// AppendLists is the default Strategy: lists concatenate, maps recurse and
// everything else is replaced by the patch value.
type AppendLists struct{}

// Compile-time check that AppendLists implements Strategy.
var _ Strategy = AppendLists{}

// Merge implements Strategy.
func (AppendLists) Merge(base, patch Document) Document {
	return Merge(base, patch)
}

// Merge returns a new document with patch deep-merged over base.
// Neither input is modified.
func Merge(base, patch Document) Document {
	out := Clone(base)
	if out == nil {
		out = Document{}
	}
	for key, pv := range patch {
		pv = Normalize(pv)
		bv, ok := out[key]
		if !ok {
			out[key] = deepCopy(pv)
			continue
		}
		switch b := bv.(type) {
		case []any:
			if p, isList := pv.([]any); isList {
				merged := make([]any, 0, len(b)+len(p))
				merged = append(merged, b...)
				merged = append(merged, deepCopy(p).([]any)...)
				out[key] = merged
				continue
			}
		case Document:
			if p, isMap := pv.(Document); isMap {
				out[key] = Merge(b, p)
				continue
			}
		}
		out[key] = deepCopy(pv)
	}
	return out
}

// Clone returns a normalized deep copy of d.
func Clone(d Document) Document {
	if d == nil {
		return nil
	}
	return deepCopy(Normalize(d)).(Document)
}

// Normalize converts any slice into []any and any string-keyed map into a
// Document, recursively. Other values are returned unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Document:
		out := make(Document, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	case map[string]any:
		out := make(Document, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(Document, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case Document:
		out := make(Document, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}
