package model

import (
	"errors"
	"fmt"
)

// The neutral tree is the serialization intermediate form: map[string]any
// for model instances, []any for sequences, and terminal scalars. It
// carries no type information beyond an optional tag key; all typing is
// re-derived from the target definition's field table on decode.

// Option configures Encode and Decode. Options that do not apply to the
// direction in use are ignored.
type Option func(*treeConfig)

type treeConfig struct {
	base   *Type
	fields map[string]struct{}
	strict bool
}

// WithBase makes Encode emit the given polymorphic base's tag key next to
// the fields, resolving the instance's own definition to its registered
// tag.
func WithBase(base *Type) Option {
	return func(cfg *treeConfig) { cfg.base = base }
}

// Fields restricts Encode and Decode to the named subset of the field
// table. Fields outside the subset are skipped on encode and follow the
// default policy on decode.
func Fields(names ...string) Option {
	return func(cfg *treeConfig) {
		if cfg.fields == nil {
			cfg.fields = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			cfg.fields[name] = struct{}{}
		}
	}
}

// Strict makes Decode reject tree keys that match no field name instead of
// ignoring them.
func Strict() Option {
	return func(cfg *treeConfig) { cfg.strict = true }
}

func (cfg *treeConfig) includes(name string) bool {
	if cfg.fields == nil {
		return true
	}
	_, ok := cfg.fields[name]
	return ok
}

// Encode converts an instance into a neutral tree, walking the field table
// in order and recursing through nested models, sequences, and mappings.
// With WithBase, the base's tag key is inserted alongside the fields; an
// instance whose definition is not registered under the base fails with
// UnregisteredTypeError.
func Encode(inst *Instance, opts ...Option) (map[string]any, error) {
	if inst == nil {
		return nil, errors.New("model: cannot encode a nil instance")
	}
	var cfg treeConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	tree := make(map[string]any, inst.def.NumFields()+1)
	for _, entry := range inst.def.table {
		if !cfg.includes(entry.Name) {
			continue
		}
		encoded, err := encodeValue(entry.Spec.valueType, inst.values[entry.Name])
		if err != nil {
			return nil, wrapFieldError(entry.Name, err)
		}
		tree[entry.Name] = encoded
	}
	if cfg.base != nil {
		tag, err := cfg.base.TagFor(inst.def)
		if err != nil {
			return nil, err
		}
		key := cfg.base.TagKey()
		// Registration checks only direct variants; a subclass can still
		// declare a field named the tag key.
		if _, clash := inst.def.index[key]; clash {
			return nil, fmt.Errorf("model: definition %q declares a field named %q, colliding with the tag key", inst.def.name, key)
		}
		tree[key] = tag
	}
	return tree, nil
}

// encodeValue recurses guided by the field's value type, so nested fields
// referencing a polymorphic base carry their tag key.
func encodeValue(spec ValueType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch st := spec.(type) {
	case *modelType:
		inst, ok := value.(*Instance)
		if !ok {
			return value, nil
		}
		if st.ref.IsPolymorphic() {
			return Encode(inst, WithBase(st.ref))
		}
		return Encode(inst)
	case *listType:
		items, ok := value.([]any)
		if !ok {
			return value, nil
		}
		out := make([]any, len(items))
		for at, item := range items {
			encoded, err := encodeValue(st.elem, item)
			if err != nil {
				return nil, &ElementError{Index: at, Err: err}
			}
			out[at] = encoded
		}
		return out, nil
	case *mapType:
		entries, ok := value.(map[string]any)
		if !ok {
			return value, nil
		}
		out := make(map[string]any, len(entries))
		for key, entry := range entries {
			encoded, err := encodeValue(st.value, entry)
			if err != nil {
				return nil, &EntryError{Key: key, Err: err}
			}
			out[key] = encoded
		}
		return out, nil
	}
	return value, nil
}

// Decode converts a neutral tree into an instance of the target
// definition. Polymorphic targets read the reserved tag key and proceed
// with the resolved concrete definition's field table. Tree keys matching
// no field are ignored unless Strict is set; absent fields follow the same
// default policy as construction.
func Decode(tree map[string]any, target *Type, opts ...Option) (*Instance, error) {
	if target == nil {
		return nil, &UnregisteredTypeError{Type: "<nil>"}
	}
	var cfg treeConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	concrete := target
	if target.IsPolymorphic() {
		key := target.TagKey()
		rawTag, present := tree[key]
		if !present {
			return nil, &MissingTypeTagError{TagKey: key}
		}
		tag, ok := rawTag.(string)
		if !ok {
			return nil, &UnknownTagError{Tag: stringify(rawTag)}
		}
		resolved, err := target.TypeFor(tag)
		if err != nil {
			return nil, err
		}
		concrete = resolved
	}

	if cfg.strict {
		for key := range tree {
			if target.IsPolymorphic() && key == target.TagKey() {
				continue
			}
			if _, known := concrete.index[key]; !known {
				return nil, &UnknownFieldError{Field: key}
			}
		}
	}

	values := make(map[string]any, len(tree))
	for _, entry := range concrete.table {
		if !cfg.includes(entry.Name) {
			continue
		}
		if raw, present := tree[entry.Name]; present {
			values[entry.Name] = raw
		}
	}
	return concrete.build(values)
}

func stringify(v any) string { return fmt.Sprint(v) }
