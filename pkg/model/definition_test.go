package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelkit/pkg/model"
)

func TestDefine_FieldTableOrder(t *testing.T) {
	base := model.MustDefine("Base",
		model.Field("a", model.String()),
		model.Field("b", model.Int()),
	)
	middle := model.MustDefine("Middle",
		model.Extends(base),
		model.Field("c", model.Bool()),
		model.Field("b", model.String()), // override keeps b at position 1
	)
	leaf := model.MustDefine("Leaf",
		model.Extends(middle),
		model.Field("d", model.Float()),
		model.Field("a", model.Int(model.Min(0))), // override keeps a at position 0
	)

	if diff := cmp.Diff([]string{"a", "b"}, base.FieldNames()); diff != "" {
		t.Fatalf("base order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, middle.FieldNames()); diff != "" {
		t.Fatalf("middle order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, leaf.FieldNames()); diff != "" {
		t.Fatalf("leaf order mismatch (-want +got):\n%s", diff)
	}

	spec, ok := middle.Lookup("b")
	if !ok {
		t.Fatal("middle lost field b")
	}
	if got := spec.Type().Name(); got != "string" {
		t.Fatalf("middle.b type = %q, want overridden string", got)
	}
	spec, ok = leaf.Lookup("a")
	if !ok {
		t.Fatal("leaf lost field a")
	}
	if got := spec.Type().Name(); got != "integer" {
		t.Fatalf("leaf.a type = %q, want overridden integer", got)
	}
	// The base definition keeps its own specs untouched.
	spec, _ = base.Lookup("b")
	if got := spec.Type().Name(); got != "integer" {
		t.Fatalf("base.b type = %q, override leaked into ancestor", got)
	}
}

func TestDefine_DiamondOverride(t *testing.T) {
	left := model.MustDefine("Left",
		model.Field("x", model.String()),
		model.Field("l", model.Int()),
	)
	right := model.MustDefine("Right",
		model.Field("r", model.Int()),
		model.Field("x", model.Bool()),
	)
	joined := model.MustDefine("Joined",
		model.Extends(left, right),
		model.Field("j", model.String()),
	)

	// x keeps the first declarer's position, the last ancestor wins the spec.
	if diff := cmp.Diff([]string{"x", "l", "r", "j"}, joined.FieldNames()); diff != "" {
		t.Fatalf("diamond order mismatch (-want +got):\n%s", diff)
	}
	spec, _ := joined.Lookup("x")
	if got := spec.Type().Name(); got != "boolean" {
		t.Fatalf("joined.x type = %q, want boolean from the last ancestor", got)
	}
}

func TestDefine_Errors(t *testing.T) {
	fruit := model.MustDefine("Fruit", model.Field("name", model.String()))
	container := model.MustDefinePolymorphic("Container",
		model.Variant("fruit", fruit),
	)

	tests := []struct {
		name string
		fn   func() (*model.Type, error)
	}{
		{"empty name", func() (*model.Type, error) {
			return model.Define("")
		}},
		{"duplicate field", func() (*model.Type, error) {
			return model.Define("Dup",
				model.Field("a", model.String()),
				model.Field("a", model.Int()),
			)
		}},
		{"missing value type", func() (*model.Type, error) {
			return model.Define("NoType", model.Field("a", nil))
		}},
		{"extend polymorphic", func() (*model.Type, error) {
			return model.Define("Sub", model.Extends(container))
		}},
		{"uncoercible default", func() (*model.Type, error) {
			return model.Define("BadDefault",
				model.Field("n", model.Int(), model.Default("not a number")),
			)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestDefine_DefaultCoercedOnce(t *testing.T) {
	def := model.MustDefine("Counted",
		model.Field("pieces", model.Int(), model.Default(float64(2))),
	)
	inst := def.MustNew(nil)
	got, err := inst.Get("pieces")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != int64(2) {
		t.Fatalf("pieces = %v (%T), want canonical int64(2)", got, got)
	}
}

func TestDefine_UncoercibleDefaultIsTypeMismatch(t *testing.T) {
	_, err := model.Define("BadDefault",
		model.Field("n", model.Int(), model.Default("nope")),
	)
	var mismatch *model.TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want TypeMismatchError", err)
	}
}
