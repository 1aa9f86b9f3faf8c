package model

import (
	"reflect"
	"sort"
)

// List builds an ordered sequence value type over an element type. Honours
// MinLength, MaxLength, and WithValidator. Coercion accepts any Go slice or
// array and applies the element type's coercion to each member in order,
// failing fast with ElementError on the first bad element. The canonical
// representation is []any.
func List(elem ValueType, opts ...TypeOption) ValueType {
	if elem == nil {
		panic("model: list element type is required")
	}
	return &listType{elem: elem, cfg: newTypeConfig(opts)}
}

type listType struct {
	elem ValueType
	cfg  typeConfig
}

func (t *listType) Name() string { return "list<" + t.elem.Name() + ">" }

func (t *listType) Zero() any { return []any{} }

// Elem returns the element value type.
func (t *listType) Elem() ValueType { return t.elem }

func (t *listType) Coerce(raw any) (any, error) {
	items, ok := sequenceOf(raw)
	if !ok {
		return nil, mismatch(t.Name(), raw)
	}
	out := make([]any, len(items))
	for i, item := range items {
		coerced, err := t.elem.Coerce(item)
		if err != nil {
			return nil, &ElementError{Index: i, Err: err}
		}
		out[i] = coerced
	}
	return out, nil
}

func (t *listType) Validate(value any) []error {
	items, ok := sequenceOf(value)
	if !ok {
		return []error{mismatch(t.Name(), value)}
	}
	errs := t.cfg.lengthViolations(len(items))
	for i, item := range items {
		for _, err := range t.elem.Validate(item) {
			errs = append(errs, &ElementError{Index: i, Err: err})
		}
	}
	errs = append(errs, t.cfg.runValidators(value)...)
	return errs
}

// sequenceOf flattens any slice or array into []any. Strings and byte
// slices are not sequences here.
func sequenceOf(raw any) ([]any, bool) {
	if items, ok := raw.([]any); ok {
		return items, true
	}
	if _, ok := raw.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Map builds a string-keyed mapping value type over a value type. Honours
// MinLength, MaxLength (entry counts), and WithValidator. Coercion accepts
// any Go map with string keys and applies the value type's coercion to
// each entry, failing fast with EntryError. The canonical representation
// is map[string]any.
func Map(value ValueType, opts ...TypeOption) ValueType {
	if value == nil {
		panic("model: map value type is required")
	}
	return &mapType{value: value, cfg: newTypeConfig(opts)}
}

type mapType struct {
	value ValueType
	cfg   typeConfig
}

func (t *mapType) Name() string { return "map<" + t.value.Name() + ">" }

func (t *mapType) Zero() any { return map[string]any{} }

// Value returns the entry value type.
func (t *mapType) Value() ValueType { return t.value }

func (t *mapType) Coerce(raw any) (any, error) {
	entries, ok := mappingOf(raw)
	if !ok {
		return nil, mismatch(t.Name(), raw)
	}
	out := make(map[string]any, len(entries))
	for _, key := range sortedKeys(entries) {
		coerced, err := t.value.Coerce(entries[key])
		if err != nil {
			return nil, &EntryError{Key: key, Err: err}
		}
		out[key] = coerced
	}
	return out, nil
}

func (t *mapType) Validate(value any) []error {
	entries, ok := mappingOf(value)
	if !ok {
		return []error{mismatch(t.Name(), value)}
	}
	errs := t.cfg.lengthViolations(len(entries))
	for _, key := range sortedKeys(entries) {
		for _, err := range t.value.Validate(entries[key]) {
			errs = append(errs, &EntryError{Key: key, Err: err})
		}
	}
	errs = append(errs, t.cfg.runValidators(value)...)
	return errs
}

func mappingOf(raw any) (map[string]any, bool) {
	if entries, ok := raw.(map[string]any); ok {
		return entries, true
	}
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func sortedKeys(entries map[string]any) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
