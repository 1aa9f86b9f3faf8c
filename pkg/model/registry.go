package model

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultTagKey is the reserved tree key carrying a variant tag when no
// override is configured.
const DefaultTagKey = "type"

// registry maps opaque tags to concrete definitions for one polymorphic
// base. Populated once at definition time, immutable thereafter.
type registry struct {
	tagKey  string
	byTag   map[string]*Type
	ordered []taggedType // most-derived first, for reverse lookup
}

type taggedType struct {
	tag string
	t   *Type
}

// PolyOption configures a polymorphic definition.
type PolyOption func(*polyConfig)

type polyConfig struct {
	tagKey   string
	variants []taggedType
}

// Variant registers one tag to concrete definition mapping.
func Variant(tag string, t *Type) PolyOption {
	return func(cfg *polyConfig) {
		cfg.variants = append(cfg.variants, taggedType{tag: tag, t: t})
	}
}

// WithTagKey overrides the reserved tree key used to carry the variant
// tag. The default is DefaultTagKey.
func WithTagKey(key string) PolyOption {
	return func(cfg *polyConfig) { cfg.tagKey = key }
}

// DefinePolymorphic builds a polymorphic base: a definition with no field
// table of its own that resolves concrete shapes through its tag registry.
// Every listed definition (and, transitively, anything extending one)
// becomes a virtual member of the base without explicit registration.
func DefinePolymorphic(name string, opts ...PolyOption) (*Type, error) {
	if name == "" {
		return nil, errors.New("model: definition name is required")
	}
	cfg := polyConfig{tagKey: DefaultTagKey}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.tagKey == "" {
		return nil, fmt.Errorf("model: %s: tag key is required", name)
	}
	if len(cfg.variants) == 0 {
		return nil, fmt.Errorf("model: %s: at least one variant is required", name)
	}

	reg := &registry{
		tagKey: cfg.tagKey,
		byTag:  make(map[string]*Type, len(cfg.variants)),
	}
	registered := make(map[*Type]string, len(cfg.variants))
	for _, variant := range cfg.variants {
		if variant.tag == "" {
			return nil, fmt.Errorf("model: %s: variant tag is required", name)
		}
		if variant.t == nil {
			return nil, fmt.Errorf("model: %s: variant %q has no definition", name, variant.tag)
		}
		if prev, dup := reg.byTag[variant.tag]; dup {
			return nil, fmt.Errorf("model: %s: tag %q already registered for %q", name, variant.tag, prev.Name())
		}
		if prevTag, dup := registered[variant.t]; dup {
			return nil, fmt.Errorf("model: %s: definition %q already registered as %q", name, variant.t.Name(), prevTag)
		}
		if _, clash := variant.t.index[cfg.tagKey]; clash {
			return nil, fmt.Errorf("model: %s: variant %q declares a field named %q, colliding with the tag key", name, variant.t.Name(), cfg.tagKey)
		}
		reg.byTag[variant.tag] = variant.t
		registered[variant.t] = variant.tag
		reg.ordered = append(reg.ordered, variant)
	}
	sort.SliceStable(reg.ordered, func(i, j int) bool {
		di, dj := reg.ordered[i].t.depth(), reg.ordered[j].t.depth()
		if di != dj {
			return di > dj
		}
		return reg.ordered[i].tag < reg.ordered[j].tag
	})

	return &Type{name: name, index: make(map[string]int), registry: reg}, nil
}

// MustDefinePolymorphic panics when the definition cannot be built.
func MustDefinePolymorphic(name string, opts ...PolyOption) *Type {
	t, err := DefinePolymorphic(name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// TagKey returns the reserved tree key for this base, or the default for
// non-polymorphic definitions.
func (t *Type) TagKey() string {
	if t.registry == nil {
		return DefaultTagKey
	}
	return t.registry.tagKey
}

// TypeFor resolves the concrete definition registered under a tag.
func (t *Type) TypeFor(tag string) (*Type, error) {
	if t.registry == nil {
		return nil, fmt.Errorf("model: %s is not polymorphic", t.name)
	}
	concrete, ok := t.registry.byTag[tag]
	if !ok {
		return nil, &UnknownTagError{Tag: tag}
	}
	return concrete, nil
}

// TagFor resolves the tag for a concrete definition. A definition that
// extends a registered variant resolves to the most-derived registered
// ancestor's tag.
func (t *Type) TagFor(concrete *Type) (string, error) {
	if t.registry == nil {
		return "", fmt.Errorf("model: %s is not polymorphic", t.name)
	}
	if concrete == nil {
		return "", &UnregisteredTypeError{Type: "<nil>"}
	}
	for _, entry := range t.registry.ordered {
		if concrete.isA(entry.t) {
			return entry.tag, nil
		}
	}
	return "", &UnregisteredTypeError{Type: concrete.Name()}
}

// IsVariant reports whether a definition is a (virtual) member of this
// polymorphic base.
func (t *Type) IsVariant(concrete *Type) bool {
	if t.registry == nil || concrete == nil {
		return false
	}
	_, err := t.TagFor(concrete)
	return err == nil
}

// Variants returns the registered tags in sorted order.
func (t *Type) Variants() []string {
	if t.registry == nil {
		return nil
	}
	tags := make([]string, 0, len(t.registry.byTag))
	for tag := range t.registry.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// NewByTag constructs an instance of the definition registered under tag.
func (t *Type) NewByTag(tag string, values map[string]any) (*Instance, error) {
	concrete, err := t.TypeFor(tag)
	if err != nil {
		return nil, err
	}
	return concrete.New(values)
}
