// Package modelkit is the façade over the modeling engine: it re-exports
// the definition, instance, and tree surfaces from pkg/model so common
// usage needs a single import. Text codecs live in pkg/codec and OpenAPI
// derivation in pkg/openapi.
package modelkit

import "github.com/goliatone/go-modelkit/pkg/model"

// Core types re-exported from pkg/model.
type (
	Type      = model.Type
	Instance  = model.Instance
	ValueType = model.ValueType
	FieldSpec = model.FieldSpec
	FieldDef  = model.FieldDef
	Option    = model.Option
)

// Define builds a model definition. See model.Define.
func Define(name string, opts ...model.DefineOption) (*Type, error) {
	return model.Define(name, opts...)
}

// MustDefine panics when the definition cannot be built.
func MustDefine(name string, opts ...model.DefineOption) *Type {
	return model.MustDefine(name, opts...)
}

// DefinePolymorphic builds a tag-dispatched polymorphic base. See
// model.DefinePolymorphic.
func DefinePolymorphic(name string, opts ...model.PolyOption) (*Type, error) {
	return model.DefinePolymorphic(name, opts...)
}

// MustDefinePolymorphic panics when the definition cannot be built.
func MustDefinePolymorphic(name string, opts ...model.PolyOption) *Type {
	return model.MustDefinePolymorphic(name, opts...)
}

// Encode converts an instance into a neutral tree. See model.Encode.
func Encode(inst *Instance, opts ...Option) (map[string]any, error) {
	return model.Encode(inst, opts...)
}

// Decode converts a neutral tree into an instance. See model.Decode.
func Decode(tree map[string]any, target *Type, opts ...Option) (*Instance, error) {
	return model.Decode(tree, target, opts...)
}
