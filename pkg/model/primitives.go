package model

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"
)

// String builds a string value type. Honours MinLength, MaxLength, Pattern,
// and WithValidator. Coercion accepts string and []byte.
func String(opts ...TypeOption) ValueType {
	return &stringType{name: "string", cfg: newTypeConfig(opts)}
}

type stringType struct {
	name string
	cfg  typeConfig
}

func (t *stringType) Name() string { return t.name }

func (t *stringType) Zero() any { return "" }

func (t *stringType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return nil, mismatch(t.name, raw)
}

func (t *stringType) Validate(value any) []error {
	s, ok := value.(string)
	if !ok {
		return []error{mismatch(t.name, value)}
	}
	errs := t.cfg.lengthViolations(utf8.RuneCountInString(s))
	if t.cfg.pattern != nil && !t.cfg.pattern.MatchString(s) {
		errs = append(errs, &ConstraintViolationError{
			Constraint: ConstraintPattern,
			Limit:      t.cfg.pattern.String(),
			Actual:     s,
		})
	}
	errs = append(errs, t.cfg.runValidators(s)...)
	return errs
}

// URL builds a string value type whose values must parse as URLs. Honours
// the String options plus Schemes.
func URL(opts ...TypeOption) ValueType {
	return &urlType{stringType{name: "url", cfg: newTypeConfig(opts)}}
}

type urlType struct {
	stringType
}

func (t *urlType) Validate(value any) []error {
	errs := t.stringType.Validate(value)
	s, ok := value.(string)
	if !ok {
		return errs
	}
	parsed, err := url.Parse(s)
	if err != nil {
		errs = append(errs, mismatch(t.name, value))
		return errs
	}
	if len(t.cfg.schemes) > 0 {
		allowed := false
		for _, scheme := range t.cfg.schemes {
			if parsed.Scheme == scheme {
				allowed = true
				break
			}
		}
		if !allowed {
			errs = append(errs, &ConstraintViolationError{
				Constraint: ConstraintScheme,
				Limit:      t.cfg.schemes,
				Actual:     parsed.Scheme,
			})
		}
	}
	return errs
}

// Int builds an integer value type with int64 as the canonical
// representation. Honours Min, Max, and WithValidator. Coercion accepts Go
// integer kinds, floats with an integral value, numeric strings, and
// json.Number.
func Int(opts ...TypeOption) ValueType {
	return &intType{cfg: newTypeConfig(opts)}
}

type intType struct {
	cfg typeConfig
}

func (t *intType) Name() string { return "integer" }

func (t *intType) Zero() any { return int64(0) }

func (t *intType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, mismatch(t.Name(), raw)
		}
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, mismatch(t.Name(), raw)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, mismatch(t.Name(), raw)
		}
		return int64(v), nil
	case float32:
		f := float64(v)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, mismatch(t.Name(), raw)
		}
		return int64(f), nil
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return nil, mismatch(t.Name(), raw)
		}
		return parsed, nil
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, mismatch(t.Name(), raw)
		}
		return parsed, nil
	}
	return nil, mismatch(t.Name(), raw)
}

func (t *intType) Validate(value any) []error {
	n, ok := asInt64(value)
	if !ok {
		return []error{mismatch(t.Name(), value)}
	}
	errs := t.cfg.boundViolations(float64(n), n)
	errs = append(errs, t.cfg.runValidators(n)...)
	return errs
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

// Float builds a floating-point value type with float64 as the canonical
// representation. Honours Min, Max, and WithValidator. Coercion accepts
// floats, Go integer kinds, numeric strings, and json.Number.
func Float(opts ...TypeOption) ValueType {
	return &floatType{cfg: newTypeConfig(opts)}
}

type floatType struct {
	cfg typeConfig
}

func (t *floatType) Name() string { return "number" }

func (t *floatType) Zero() any { return float64(0) }

func (t *floatType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, mismatch(t.Name(), raw)
		}
		return parsed, nil
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, mismatch(t.Name(), raw)
		}
		return parsed, nil
	}
	if n, ok := asInt64(raw); ok {
		return float64(n), nil
	}
	return nil, mismatch(t.Name(), raw)
}

func (t *floatType) Validate(value any) []error {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		if n, ok := asInt64(value); ok {
			f = float64(n)
		} else {
			return []error{mismatch(t.Name(), value)}
		}
	}
	errs := t.cfg.boundViolations(f, value)
	errs = append(errs, t.cfg.runValidators(f)...)
	return errs
}

// Bool builds a boolean value type. Honours WithValidator. Coercion accepts
// bool and the strings "true", "false", "1", and "0".
func Bool(opts ...TypeOption) ValueType {
	return &boolType{cfg: newTypeConfig(opts)}
}

type boolType struct {
	cfg typeConfig
}

func (t *boolType) Name() string { return "boolean" }

func (t *boolType) Zero() any { return false }

func (t *boolType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	}
	return nil, mismatch(t.Name(), raw)
}

func (t *boolType) Validate(value any) []error {
	b, ok := value.(bool)
	if !ok {
		return []error{mismatch(t.Name(), value)}
	}
	return t.cfg.runValidators(b)
}

// Time builds a timestamp value type with time.Time as the canonical
// representation. Honours MinTime, MaxTime, and WithValidator. Coercion
// accepts time.Time and RFC 3339 strings.
func Time(opts ...TypeOption) ValueType {
	return &timeType{name: "time", layout: time.RFC3339, cfg: newTypeConfig(opts)}
}

// Date builds a calendar-date value type. Same canonical representation and
// options as Time; string coercion parses "2006-01-02".
func Date(opts ...TypeOption) ValueType {
	return &timeType{name: "date", layout: time.DateOnly, cfg: newTypeConfig(opts)}
}

// TimeOfDay builds a wall-clock value type. Same canonical representation
// and options as Time; string coercion parses "15:04:05".
func TimeOfDay(opts ...TypeOption) ValueType {
	return &timeType{name: "time-of-day", layout: time.TimeOnly, cfg: newTypeConfig(opts)}
}

type timeType struct {
	name   string
	layout string
	cfg    typeConfig
}

func (t *timeType) Name() string { return t.name }

func (t *timeType) Zero() any { return time.Time{} }

func (t *timeType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		parsed, err := time.Parse(t.layout, v)
		if err != nil {
			return nil, mismatch(t.name, raw)
		}
		return parsed, nil
	}
	return nil, mismatch(t.name, raw)
}

func (t *timeType) Validate(value any) []error {
	ts, ok := value.(time.Time)
	if !ok {
		return []error{mismatch(t.name, value)}
	}
	errs := t.cfg.timeViolations(ts)
	errs = append(errs, t.cfg.runValidators(ts)...)
	return errs
}
