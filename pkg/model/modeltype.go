package model

// Of builds a nested-model value type referencing another definition.
// Honours WithValidator. Coercion accepts an *Instance of the referenced
// definition (or of a registered variant when the reference is
// polymorphic), or a map[string]any tree which is decoded recursively with
// the lenient key policy. The canonical representation is *Instance.
func Of(ref *Type, opts ...TypeOption) ValueType {
	if ref == nil {
		panic("model: nested model reference is required")
	}
	return &modelType{ref: ref, cfg: newTypeConfig(opts)}
}

type modelType struct {
	ref *Type
	cfg typeConfig
}

func (t *modelType) Name() string { return t.ref.Name() }

// Zero is nil rather than a fresh instance so self-referential definitions
// cannot recurse without bound; Validate reports the missing value instead.
func (t *modelType) Zero() any { return nil }

// Ref returns the referenced model definition.
func (t *modelType) Ref() *Type { return t.ref }

func (t *modelType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case *Instance:
		if err := t.checkMembership(v); err != nil {
			return nil, err
		}
		return v, nil
	case map[string]any:
		return Decode(v, t.ref)
	}
	return nil, mismatch(t.Name(), raw)
}

func (t *modelType) Validate(value any) []error {
	inst, ok := value.(*Instance)
	if !ok || inst == nil {
		return []error{mismatch(t.Name(), value)}
	}
	if err := t.checkMembership(inst); err != nil {
		return []error{err}
	}
	var errs []error
	if err := inst.Validate(); err != nil {
		if mve, ok := err.(*ModelValidationError); ok {
			for _, violation := range mve.Violations {
				errs = append(errs, violation)
			}
		} else {
			errs = append(errs, err)
		}
	}
	errs = append(errs, t.cfg.runValidators(inst)...)
	return errs
}

func (t *modelType) checkMembership(inst *Instance) error {
	if t.ref.IsPolymorphic() {
		if !t.ref.IsVariant(inst.Type()) {
			return &UnregisteredTypeError{Type: inst.Type().Name()}
		}
		return nil
	}
	if !inst.Type().isA(t.ref) {
		return mismatch(t.Name(), inst)
	}
	return nil
}
