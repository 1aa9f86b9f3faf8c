package model

// FieldSpec binds a value type to a field position with its required flag
// and default policy. Specs are built once at definition time and shared
// read-only by every instance of the owning definition (and by any
// subclass that does not override the field).
type FieldSpec struct {
	valueType  ValueType
	required   bool
	hasDefault bool
	def        any
	defFunc    func() any
}

// FieldOption configures one field declaration.
type FieldOption func(*FieldSpec)

// Optional marks the field as not required. Absent optional fields default
// to nil.
func Optional() FieldOption {
	return func(spec *FieldSpec) { spec.required = false }
}

// Default sets a fixed default value. The value is coerced through the
// field's type when the definition is built.
func Default(value any) FieldOption {
	return func(spec *FieldSpec) {
		spec.hasDefault = true
		spec.def = value
	}
}

// DefaultFunc sets a default factory invoked once per construction, so
// mutable defaults are never shared across instances.
func DefaultFunc(fn func() any) FieldOption {
	return func(spec *FieldSpec) { spec.defFunc = fn }
}

// Type returns the field's value type.
func (s *FieldSpec) Type() ValueType { return s.valueType }

// Required reports whether the field must carry a value to validate.
func (s *FieldSpec) Required() bool { return s.required }

// HasDefault reports whether a fixed default or a default factory is
// configured.
func (s *FieldSpec) HasDefault() bool { return s.hasDefault || s.defFunc != nil }

// resolveDefault returns the value for a field absent from construction
// input. The bool reports whether the value counts as set; a required
// field with no default yields its type's zero value flagged unset, so
// construction stays lenient and Validate reports the gap.
func (s *FieldSpec) resolveDefault() (any, bool) {
	switch {
	case s.defFunc != nil:
		return s.defFunc(), true
	case s.hasDefault:
		return s.def, true
	case !s.required:
		return nil, true
	default:
		return s.valueType.Zero(), false
	}
}
