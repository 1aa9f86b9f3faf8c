package model

import (
	"fmt"
	"regexp"
	"time"
)

// ValueType describes one kind of field value. Coerce converts a raw input
// into the canonical representation, accepting only an enumerated set of
// source representations; anything else fails with TypeMismatchError.
// Validate is the strict counterpart: it never converts, and reports a
// structurally wrong representation as a violation rather than panicking.
// Zero supplies the canonical zero value used when a required field has no
// default and no supplied value.
type ValueType interface {
	Name() string
	Coerce(raw any) (any, error)
	Validate(value any) []error
	Zero() any
}

// TypeOption configures constraints on a value type at construction time.
// Options that do not apply to the type being built are ignored; each
// constructor documents the options it honours.
type TypeOption func(*typeConfig)

type typeConfig struct {
	minLength  *int
	maxLength  *int
	pattern    *regexp.Regexp
	min        *float64
	max        *float64
	minTime    *time.Time
	maxTime    *time.Time
	schemes    []string
	validators []func(any) error
}

func newTypeConfig(opts []TypeOption) typeConfig {
	var cfg typeConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// MinLength constrains the minimum length of strings (in runes), lists, and
// maps.
func MinLength(n int) TypeOption {
	return func(cfg *typeConfig) { cfg.minLength = &n }
}

// MaxLength constrains the maximum length of strings (in runes), lists, and
// maps.
func MaxLength(n int) TypeOption {
	return func(cfg *typeConfig) { cfg.maxLength = &n }
}

// Pattern requires string values to contain a match for the expression. It
// panics on an invalid expression to surface configuration mistakes early.
func Pattern(expr string) TypeOption {
	re := regexp.MustCompile(expr)
	return func(cfg *typeConfig) { cfg.pattern = re }
}

// Min sets the inclusive lower bound for numeric values.
func Min(v float64) TypeOption {
	return func(cfg *typeConfig) { cfg.min = &v }
}

// Max sets the inclusive upper bound for numeric values.
func Max(v float64) TypeOption {
	return func(cfg *typeConfig) { cfg.max = &v }
}

// MinTime sets the inclusive lower bound for time values.
func MinTime(t time.Time) TypeOption {
	return func(cfg *typeConfig) { cfg.minTime = &t }
}

// MaxTime sets the inclusive upper bound for time values.
func MaxTime(t time.Time) TypeOption {
	return func(cfg *typeConfig) { cfg.maxTime = &t }
}

// Schemes restricts URL values to the given URI schemes.
func Schemes(schemes ...string) TypeOption {
	return func(cfg *typeConfig) {
		cfg.schemes = append(cfg.schemes, schemes...)
	}
}

// WithValidator registers a custom validator run after the built-in
// constraint checks. The function receives the canonical value and returns
// a describing error on violation.
func WithValidator(fn func(any) error) TypeOption {
	return func(cfg *typeConfig) {
		if fn != nil {
			cfg.validators = append(cfg.validators, fn)
		}
	}
}

func (cfg *typeConfig) runValidators(value any) []error {
	var errs []error
	for _, fn := range cfg.validators {
		if err := fn(value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (cfg *typeConfig) lengthViolations(length int) []error {
	var errs []error
	if cfg.minLength != nil && length < *cfg.minLength {
		errs = append(errs, &ConstraintViolationError{
			Constraint: ConstraintMinLength,
			Limit:      *cfg.minLength,
			Actual:     length,
		})
	}
	if cfg.maxLength != nil && length > *cfg.maxLength {
		errs = append(errs, &ConstraintViolationError{
			Constraint: ConstraintMaxLength,
			Limit:      *cfg.maxLength,
			Actual:     length,
		})
	}
	return errs
}

func (cfg *typeConfig) boundViolations(value float64, actual any) []error {
	var errs []error
	if cfg.min != nil && value < *cfg.min {
		errs = append(errs, &ConstraintViolationError{
			Constraint: ConstraintMin,
			Limit:      *cfg.min,
			Actual:     actual,
		})
	}
	if cfg.max != nil && value > *cfg.max {
		errs = append(errs, &ConstraintViolationError{
			Constraint: ConstraintMax,
			Limit:      *cfg.max,
			Actual:     actual,
		})
	}
	return errs
}

func (cfg *typeConfig) timeViolations(value time.Time) []error {
	var errs []error
	if cfg.minTime != nil && value.Before(*cfg.minTime) {
		errs = append(errs, &ConstraintViolationError{
			Constraint: ConstraintMin,
			Limit:      cfg.minTime.Format(time.RFC3339),
			Actual:     value.Format(time.RFC3339),
		})
	}
	if cfg.maxTime != nil && value.After(*cfg.maxTime) {
		errs = append(errs, &ConstraintViolationError{
			Constraint: ConstraintMax,
			Limit:      cfg.maxTime.Format(time.RFC3339),
			Actual:     value.Format(time.RFC3339),
		})
	}
	return errs
}

func mismatch(name string, value any) *TypeMismatchError {
	return &TypeMismatchError{Expected: name, Value: value}
}

func wrapFieldError(field string, err error) error {
	return fmt.Errorf("model: field %q: %w", field, err)
}
