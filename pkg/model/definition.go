package model

import (
	"errors"
	"fmt"
)

// Type is one model definition: a name, an ordered ancestor list, and the
// resolved field table. Types are immutable once built and shared by all
// their instances.
type Type struct {
	name     string
	bases    []*Type
	own      []FieldDef
	table    []FieldDef
	index    map[string]int
	registry *registry
}

// FieldDef pairs a field name with its spec at one field-table position.
type FieldDef struct {
	Name string
	Spec *FieldSpec
}

// DefineOption configures a model definition.
type DefineOption func(*defineConfig)

type defineConfig struct {
	bases  []*Type
	fields []FieldDef
}

// Extends declares the ordered ancestor definitions whose field tables are
// merged before this definition's own fields.
func Extends(bases ...*Type) DefineOption {
	return func(cfg *defineConfig) {
		cfg.bases = append(cfg.bases, bases...)
	}
}

// Field declares one field in declaration order. Re-declaring a name
// inherited from an ancestor replaces that ancestor's spec while keeping
// the name's original position in the field table.
func Field(name string, valueType ValueType, opts ...FieldOption) DefineOption {
	spec := &FieldSpec{valueType: valueType, required: true}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(spec)
	}
	return func(cfg *defineConfig) {
		cfg.fields = append(cfg.fields, FieldDef{Name: name, Spec: spec})
	}
}

// Define builds a model definition, composing the field table once: each
// ancestor's resolved table is merged in order, then the definition's own
// fields, with re-declared names replacing in place so overrides never
// reorder the table.
func Define(name string, opts ...DefineOption) (*Type, error) {
	if name == "" {
		return nil, errors.New("model: definition name is required")
	}
	var cfg defineConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	for _, base := range cfg.bases {
		if base == nil {
			return nil, fmt.Errorf("model: %s: nil base definition", name)
		}
		if base.IsPolymorphic() {
			return nil, fmt.Errorf("model: %s: polymorphic definition %q cannot be extended", name, base.Name())
		}
	}

	seen := make(map[string]struct{}, len(cfg.fields))
	for _, def := range cfg.fields {
		if def.Name == "" {
			return nil, fmt.Errorf("model: %s: field name is required", name)
		}
		if def.Spec.valueType == nil {
			return nil, fmt.Errorf("model: %s: field %q has no value type", name, def.Name)
		}
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("model: %s: duplicate field %q", name, def.Name)
		}
		seen[def.Name] = struct{}{}
		if def.Spec.hasDefault {
			coerced, err := def.Spec.valueType.Coerce(def.Spec.def)
			if err != nil {
				return nil, fmt.Errorf("model: %s: default for field %q: %w", name, def.Name, err)
			}
			def.Spec.def = coerced
		}
	}

	t := &Type{
		name:  name,
		bases: append([]*Type(nil), cfg.bases...),
		own:   append([]FieldDef(nil), cfg.fields...),
		index: make(map[string]int),
	}
	for _, base := range t.bases {
		t.merge(base.table)
	}
	t.merge(t.own)
	return t, nil
}

// MustDefine panics when the definition cannot be built. Useful for
// declarations at package scope and in tests.
func MustDefine(name string, opts ...DefineOption) *Type {
	t, err := Define(name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// merge appends entries in order, replacing in place when the name already
// has a position.
func (t *Type) merge(entries []FieldDef) {
	for _, entry := range entries {
		if at, ok := t.index[entry.Name]; ok {
			t.table[at] = entry
			continue
		}
		t.index[entry.Name] = len(t.table)
		t.table = append(t.table, entry)
	}
}

// Name returns the definition name.
func (t *Type) Name() string { return t.name }

// Fields returns a copy of the resolved field table in order.
func (t *Type) Fields() []FieldDef {
	return append([]FieldDef(nil), t.table...)
}

// FieldNames returns the field-table key order.
func (t *Type) FieldNames() []string {
	names := make([]string, len(t.table))
	for i, entry := range t.table {
		names[i] = entry.Name
	}
	return names
}

// Lookup returns the spec bound to a field name.
func (t *Type) Lookup(name string) (*FieldSpec, bool) {
	at, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.table[at].Spec, true
}

// NumFields returns the field-table size.
func (t *Type) NumFields() int { return len(t.table) }

// IsPolymorphic reports whether this definition delegates its concrete
// shape to a tag registry.
func (t *Type) IsPolymorphic() bool { return t.registry != nil }

// isA reports whether t is other or has other anywhere in its ancestor
// chain.
func (t *Type) isA(other *Type) bool {
	if t == other {
		return true
	}
	for _, base := range t.bases {
		if base.isA(other) {
			return true
		}
	}
	return false
}

// depth is the longest ancestor chain length, used to rank registry
// entries most-derived first.
func (t *Type) depth() int {
	max := 0
	for _, base := range t.bases {
		if d := base.depth(); d > max {
			max = d
		}
	}
	return max + 1
}
