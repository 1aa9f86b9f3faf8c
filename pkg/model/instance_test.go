package model_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-modelkit/pkg/model"
)

func defineFruit(t *testing.T) *model.Type {
	t.Helper()
	return model.MustDefine("Fruit",
		model.Field("name", model.String(model.MinLength(1))),
		model.Field("colour", model.String(), model.Optional()),
		model.Field("pieces", model.Int(), model.Default(2)),
	)
}

func TestNew_Defaults(t *testing.T) {
	fruit := defineFruit(t)

	inst, err := fruit.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := inst.MustGet("name"); got != "" {
		t.Fatalf("name = %v, want zero-value sentinel %q", got, "")
	}
	if got := inst.MustGet("colour"); got != nil {
		t.Fatalf("colour = %v, want nil", got)
	}
	if got := inst.MustGet("pieces"); got != int64(2) {
		t.Fatalf("pieces = %v, want 2", got)
	}
}

func TestNew_CoercesValues(t *testing.T) {
	fruit := defineFruit(t)

	inst, err := fruit.New(map[string]any{"name": "apple", "pieces": "4"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := inst.MustGet("pieces"); got != int64(4) {
		t.Fatalf("pieces = %v (%T), want coerced int64(4)", got, got)
	}

	_, err = fruit.New(map[string]any{"name": "apple", "pieces": "lots"})
	var mismatch *model.TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want wrapped TypeMismatchError", err)
	}
}

func TestNew_RejectsUnknownKeys(t *testing.T) {
	fruit := defineFruit(t)

	_, err := fruit.New(map[string]any{"name": "apple", "weight": 120})
	var unknown *model.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownFieldError", err)
	}
	if unknown.Field != "weight" {
		t.Fatalf("field = %q, want %q", unknown.Field, "weight")
	}
}

func TestDefaultFactoryIndependence(t *testing.T) {
	basket := model.MustDefine("Basket",
		model.Field("tags", model.List(model.String()), model.DefaultFunc(func() any {
			return []string{"seed"}
		})),
	)

	first := basket.MustNew(nil)
	second := basket.MustNew(nil)
	if !first.Equal(second) {
		t.Fatal("default-valued instances compare equal by value")
	}

	tags := first.MustGet("tags").([]any)
	tags[0] = "changed"
	if got := second.MustGet("tags").([]any)[0]; got != "seed" {
		t.Fatalf("second instance tags[0] = %v, factories must not alias", got)
	}
	if first.Equal(second) {
		t.Fatal("instances must diverge after mutating one default")
	}
}

func TestEqual(t *testing.T) {
	fruit := defineFruit(t)
	sameShape := model.MustDefine("Vegetable",
		model.Field("name", model.String(model.MinLength(1))),
		model.Field("colour", model.String(), model.Optional()),
		model.Field("pieces", model.Int(), model.Default(2)),
	)

	a := fruit.MustNew(map[string]any{"name": "apple"})
	b := fruit.MustNew(map[string]any{"name": "apple"})
	c := fruit.MustNew(map[string]any{"name": "pear"})
	d := sameShape.MustNew(map[string]any{"name": "apple"})

	if !a.Equal(b) {
		t.Fatal("identical construction must compare equal")
	}
	if a.Equal(c) {
		t.Fatal("different values must not compare equal")
	}
	if a.Equal(d) {
		t.Fatal("same shape but different definition must not compare equal")
	}
}

func TestSetSkipsValidation(t *testing.T) {
	fruit := defineFruit(t)
	inst := fruit.MustNew(map[string]any{"name": "apple"})

	if err := inst.Set("pieces", "many"); err != nil {
		t.Fatalf("set: %v", err)
	}
	err := inst.Validate()
	if err == nil {
		t.Fatal("validate must flag the bad representation")
	}
	var validation *model.ModelValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want ModelValidationError", err)
	}
	if got := validation.ByPath("pieces"); len(got) != 1 {
		t.Fatalf("pieces violations = %v, want one", got)
	}

	if err := inst.Set("weight", 1); err == nil {
		t.Fatal("set of unknown field must fail")
	}
}

func TestValidate_Completeness(t *testing.T) {
	fruit := defineFruit(t)

	// name unset-and-required, pieces out of representation: two entries,
	// each attributable to its field.
	inst := fruit.MustNew(nil)
	if err := inst.Set("pieces", "many"); err != nil {
		t.Fatalf("set: %v", err)
	}

	err := inst.Validate()
	var validation *model.ModelValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want ModelValidationError", err)
	}
	if len(validation.Violations) != 2 {
		t.Fatalf("violations = %v, want exactly two", validation.Violations)
	}
	var missing *model.MissingRequiredFieldError
	if got := validation.ByPath("name"); len(got) != 1 || !errors.As(got[0], &missing) {
		t.Fatalf("name violations = %v, want one MissingRequiredFieldError", got)
	}
	if got := validation.ByPath("pieces"); len(got) != 1 {
		t.Fatalf("pieces violations = %v, want one", got)
	}
}

func TestValidate_ValidInstance(t *testing.T) {
	fruit := defineFruit(t)
	inst := fruit.MustNew(map[string]any{"name": "apple", "colour": "red"})
	if err := inst.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_NilRequired(t *testing.T) {
	fruit := defineFruit(t)
	inst := fruit.MustNew(map[string]any{"name": nil})

	err := inst.Validate()
	var validation *model.ModelValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want ModelValidationError", err)
	}
	var missing *model.MissingRequiredFieldError
	if got := validation.ByPath("name"); len(got) != 1 || !errors.As(got[0], &missing) {
		t.Fatalf("name violations = %v, want MissingRequiredFieldError", got)
	}
}

func TestValidate_NestedPaths(t *testing.T) {
	owner := model.MustDefine("Owner",
		model.Field("email", model.String(model.MinLength(5))),
	)
	pet := model.MustDefine("Pet",
		model.Field("name", model.String(model.MinLength(1))),
		model.Field("owner", model.Of(owner)),
	)

	inst := pet.MustNew(map[string]any{
		"name":  "rex",
		"owner": map[string]any{"email": "x"},
	})

	err := inst.Validate()
	var validation *model.ModelValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want ModelValidationError", err)
	}
	if got := validation.ByPath("owner.email"); len(got) != 1 {
		t.Fatalf("owner.email violations = %v, want one with the dotted path", got)
	}
}

func TestInstanceString(t *testing.T) {
	fruit := defineFruit(t)
	inst := fruit.MustNew(map[string]any{"name": "apple"})

	want := `Fruit(name="apple", colour=<nil>, pieces=2)`
	if got := inst.String(); got != want {
		t.Fatalf("String() = %s, want %s", got, want)
	}
}

func TestPolymorphicNewRejected(t *testing.T) {
	fruit := defineFruit(t)
	container := model.MustDefinePolymorphic("Container",
		model.Variant("fruit", fruit),
	)
	if _, err := container.New(nil); err == nil {
		t.Fatal("direct construction of a polymorphic base must fail")
	}
}
