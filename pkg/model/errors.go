package model

import (
	"fmt"
	"strings"
)

// Constraint identifiers used by ConstraintViolationError.
const (
	ConstraintMin       = "min"
	ConstraintMax       = "max"
	ConstraintMinLength = "minLength"
	ConstraintMaxLength = "maxLength"
	ConstraintPattern   = "pattern"
	ConstraintScheme    = "scheme"
)

// TypeMismatchError reports a raw value outside the enumerated set of
// representations a value type accepts, either during coercion or as a
// representation violation during validation.
type TypeMismatchError struct {
	Expected string
	Value    any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("model: %v (%T) is not an acceptable %s value", e.Value, e.Value, e.Expected)
}

// ElementError wraps the failure of a single list element, preserving its
// position.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("model: element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// EntryError wraps the failure of a single mapping entry, preserving its key.
type EntryError struct {
	Key string
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("model: entry %q: %v", e.Key, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// MissingRequiredFieldError reports a required field that was never given a
// value.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("model: field %q is required", e.Field)
}

// ConstraintViolationError reports a value that failed one of its type's
// configured constraints.
type ConstraintViolationError struct {
	Constraint string
	Limit      any
	Actual     any
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("model: value violates %s=%v (actual %v)", e.Constraint, e.Limit, e.Actual)
}

// MissingTypeTagError reports a polymorphic decode input without the
// reserved tag key.
type MissingTypeTagError struct {
	TagKey string
}

func (e *MissingTypeTagError) Error() string {
	return fmt.Sprintf("model: polymorphic input is missing the %q tag key", e.TagKey)
}

// UnknownTagError reports a tag absent from the polymorphic registry in use.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("model: unknown type tag %q", e.Tag)
}

// UnregisteredTypeError reports a model definition that is not a variant of
// the polymorphic base in use.
type UnregisteredTypeError struct {
	Type string
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("model: type %q is not registered as a variant", e.Type)
}

// UnknownFieldError reports a key that does not match any entry in the
// target definition's field table.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("model: unknown field %q", e.Field)
}

// FieldViolation attributes one validation failure to a dotted field path.
type FieldViolation struct {
	Path string
	Err  error
}

func (v FieldViolation) Error() string {
	return fmt.Sprintf("%s: %v", v.Path, v.Err)
}

func (v FieldViolation) Unwrap() error { return v.Err }

// ModelValidationError aggregates every violation found during a single
// Validate pass, in field-table order. Nested model violations carry dotted
// paths relative to the root instance.
type ModelValidationError struct {
	Violations []FieldViolation
}

func (e *ModelValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "model: validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Error())
	}
	return fmt.Sprintf("model: validation failed: %s", strings.Join(parts, "; "))
}

// ByPath returns the violations recorded for one dotted field path.
func (e *ModelValidationError) ByPath(path string) []error {
	var out []error
	for _, v := range e.Violations {
		if v.Path == path {
			out = append(out, v.Err)
		}
	}
	return out
}
