package model

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Instance is one record of a model definition: one value per field-table
// entry, keyed identically. Construction is lenient about representation
// (values coerce) but strict about its own field table (unknown keys are
// rejected); Validate is the explicit gate before use.
type Instance struct {
	def    *Type
	values map[string]any
	unset  map[string]struct{}
}

// New constructs an instance. Supplied values coerce through their field's
// value type; absent fields follow the default policy. Keys outside the
// field table fail with UnknownFieldError.
func (t *Type) New(values map[string]any) (*Instance, error) {
	if t.IsPolymorphic() {
		return nil, fmt.Errorf("model: cannot instantiate polymorphic definition %q directly, use NewByTag", t.name)
	}
	for key := range values {
		if _, ok := t.index[key]; !ok {
			return nil, &UnknownFieldError{Field: key}
		}
	}
	return t.build(values)
}

// MustNew panics when construction fails. Useful for fixtures and tests.
func (t *Type) MustNew(values map[string]any) *Instance {
	inst, err := t.New(values)
	if err != nil {
		panic(err)
	}
	return inst
}

// build populates an instance from the given values without checking for
// unknown keys; New and Decode layer their own key policies on top.
func (t *Type) build(values map[string]any) (*Instance, error) {
	inst := &Instance{
		def:    t,
		values: make(map[string]any, len(t.table)),
		unset:  make(map[string]struct{}),
	}
	for _, entry := range t.table {
		raw, supplied := values[entry.Name]
		if supplied {
			if raw == nil {
				inst.values[entry.Name] = nil
				continue
			}
			coerced, err := entry.Spec.valueType.Coerce(raw)
			if err != nil {
				return nil, wrapFieldError(entry.Name, err)
			}
			inst.values[entry.Name] = coerced
			continue
		}
		value, set := entry.Spec.resolveDefault()
		if entry.Spec.defFunc != nil && value != nil {
			coerced, err := entry.Spec.valueType.Coerce(value)
			if err != nil {
				return nil, wrapFieldError(entry.Name, fmt.Errorf("default factory: %w", err))
			}
			value = coerced
		}
		inst.values[entry.Name] = value
		if !set {
			inst.unset[entry.Name] = struct{}{}
		}
	}
	return inst, nil
}

// Type returns the instance's definition.
func (i *Instance) Type() *Type { return i.def }

// Get returns the value held for a field name.
func (i *Instance) Get(name string) (any, error) {
	if _, ok := i.def.index[name]; !ok {
		return nil, &UnknownFieldError{Field: name}
	}
	return i.values[name], nil
}

// MustGet panics on an unknown field name.
func (i *Instance) MustGet(name string) any {
	value, err := i.Get(name)
	if err != nil {
		panic(err)
	}
	return value
}

// Set stores a value for a field name. No coercion or validation happens
// here; Validate is the explicit gate.
func (i *Instance) Set(name string, value any) error {
	if _, ok := i.def.index[name]; !ok {
		return &UnknownFieldError{Field: name}
	}
	i.values[name] = value
	delete(i.unset, name)
	return nil
}

// Equal reports whether both instances share the same definition and every
// field-table entry compares equal by value.
func (i *Instance) Equal(other *Instance) bool {
	if i == nil || other == nil {
		return i == other
	}
	if i.def != other.def {
		return false
	}
	for _, entry := range i.def.table {
		if !valueEqual(i.values[entry.Name], other.values[entry.Name]) {
			return false
		}
	}
	return true
}

// String renders the instance as Name(field=value, ...) in field-table
// order.
func (i *Instance) String() string {
	if i == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(i.def.name)
	b.WriteByte('(')
	for at, entry := range i.def.table {
		if at > 0 {
			b.WriteString(", ")
		}
		b.WriteString(entry.Name)
		b.WriteByte('=')
		switch v := i.values[entry.Name].(type) {
		case string:
			fmt.Fprintf(&b, "%q", v)
		default:
			fmt.Fprintf(&b, "%v", v)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Validate walks the field table in order and collects every violation in
// the whole value tree before reporting once. Nested model violations are
// prefixed with the containing field name. Returns nil when the instance
// is valid, otherwise a *ModelValidationError.
func (i *Instance) Validate() error {
	var violations []FieldViolation
	for _, entry := range i.def.table {
		name := entry.Name
		if _, unset := i.unset[name]; unset && entry.Spec.required {
			violations = append(violations, FieldViolation{
				Path: name,
				Err:  &MissingRequiredFieldError{Field: name},
			})
			continue
		}
		value := i.values[name]
		if value == nil {
			if entry.Spec.required {
				violations = append(violations, FieldViolation{
					Path: name,
					Err:  &MissingRequiredFieldError{Field: name},
				})
			}
			continue
		}
		for _, err := range entry.Spec.valueType.Validate(value) {
			if nested, ok := err.(FieldViolation); ok {
				violations = append(violations, FieldViolation{
					Path: name + "." + nested.Path,
					Err:  nested.Err,
				})
				continue
			}
			violations = append(violations, FieldViolation{Path: name, Err: err})
		}
	}
	if len(violations) > 0 {
		return &ModelValidationError{Violations: violations}
	}
	return nil
}

// valueEqual compares canonical field values, recursing through nested
// instances, sequences, and mappings.
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for at := range av {
			if !valueEqual(av[at], bv[at]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for key, value := range av {
			other, present := bv[key]
			if !present || !valueEqual(value, other) {
				return false
			}
		}
		return true
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	return reflect.DeepEqual(a, b)
}
