package openapi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-modelkit/pkg/model"
)

const componentPrefix = "#/components/schemas/"

// ParserOptions configures schema-to-definition conversion.
type ParserOptions struct {
	// SchemaFilter restricts conversion to component names it accepts.
	// A nil filter accepts everything.
	SchemaFilter func(name string) bool
}

// Parser converts OpenAPI component schemas into model definitions using
// kin-openapi.
type Parser struct {
	options ParserOptions
}

// NewParser constructs a Parser with the given options.
func NewParser(options ParserOptions) *Parser {
	return &Parser{options: options}
}

// Definitions loads the document and converts every object schema under
// components.schemas into a model definition, keyed by component name.
// Schemas with a discriminator over a oneOf become polymorphic bases.
// Non-object components (primitive aliases) are skipped as standalone
// definitions but still resolve when referenced by fields.
func (p *Parser) Definitions(ctx context.Context, doc Document) (map[string]*model.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document has no component schemas")
	}

	builder := &definitionBuilder{
		schemas:  spec.Components.Schemas,
		built:    make(map[string]*model.Type),
		building: make(map[string]bool),
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		if p.options.SchemaFilter != nil && !p.options.SchemaFilter(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	definitions := make(map[string]*model.Type, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ref := spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		if !convertible(ref.Value) {
			continue
		}
		def, err := builder.component(name)
		if err != nil {
			return nil, err
		}
		definitions[name] = def
	}
	if len(definitions) == 0 {
		return nil, errors.New("openapi: no object schemas converted")
	}
	return definitions, nil
}

// convertible reports whether a component schema yields a standalone
// definition: object shapes and discriminated oneOf compositions.
func convertible(schema *openapi3.Schema) bool {
	if schema.Discriminator != nil && len(schema.OneOf) > 0 {
		return true
	}
	kind := firstType(schema.Type)
	return (kind == "object" || kind == "") && len(schema.Properties) > 0
}

// definitionBuilder memoises component conversions and detects reference
// cycles.
type definitionBuilder struct {
	schemas  openapi3.Schemas
	built    map[string]*model.Type
	building map[string]bool
}

func (b *definitionBuilder) component(name string) (*model.Type, error) {
	if def, ok := b.built[name]; ok {
		return def, nil
	}
	if b.building[name] {
		return nil, fmt.Errorf("openapi: circular reference through schema %q", name)
	}
	ref, ok := b.schemas[name]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	def, err := b.defineSchema(name, ref.Value)
	if err != nil {
		return nil, err
	}
	b.built[name] = def
	return def, nil
}

func (b *definitionBuilder) defineSchema(name string, schema *openapi3.Schema) (*model.Type, error) {
	if schema.Discriminator != nil && len(schema.OneOf) > 0 {
		return b.definePolymorphic(name, schema)
	}

	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, item := range schema.Required {
		requiredSet[item] = struct{}{}
	}

	propNames := make([]string, 0, len(schema.Properties))
	for propName := range schema.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	opts := make([]model.DefineOption, 0, len(propNames))
	for _, propName := range propNames {
		valueType, err := b.valueType(name, propName, schema.Properties[propName])
		if err != nil {
			return nil, err
		}
		fieldOpts := make([]model.FieldOption, 0, 2)
		if _, isRequired := requiredSet[propName]; !isRequired {
			fieldOpts = append(fieldOpts, model.Optional())
		}
		if def := schema.Properties[propName].Value; def != nil && def.Default != nil {
			fieldOpts = append(fieldOpts, model.Default(def.Default))
		}
		opts = append(opts, model.Field(propName, valueType, fieldOpts...))
	}

	def, err := model.Define(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("openapi: schema %q: %w", name, err)
	}
	return def, nil
}

func (b *definitionBuilder) definePolymorphic(name string, schema *openapi3.Schema) (*model.Type, error) {
	tagKey := schema.Discriminator.PropertyName
	opts := []model.PolyOption{}
	if tagKey != "" {
		opts = append(opts, model.WithTagKey(tagKey))
	}

	if len(schema.Discriminator.Mapping) > 0 {
		tags := make([]string, 0, len(schema.Discriminator.Mapping))
		for tag := range schema.Discriminator.Mapping {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			component := componentName(schema.Discriminator.Mapping[tag])
			if component == "" {
				return nil, fmt.Errorf("openapi: schema %q: discriminator mapping %q is not a component reference", name, tag)
			}
			variant, err := b.component(component)
			if err != nil {
				return nil, err
			}
			opts = append(opts, model.Variant(tag, variant))
		}
	} else {
		for _, ref := range schema.OneOf {
			component := componentName(ref.Ref)
			if component == "" {
				return nil, fmt.Errorf("openapi: schema %q: oneOf entries must reference components", name)
			}
			variant, err := b.component(component)
			if err != nil {
				return nil, err
			}
			opts = append(opts, model.Variant(component, variant))
		}
	}

	def, err := model.DefinePolymorphic(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("openapi: schema %q: %w", name, err)
	}
	return def, nil
}

func (b *definitionBuilder) valueType(owner, field string, ref *openapi3.SchemaRef) (model.ValueType, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: schema %q: property %q has no schema", owner, field)
	}
	if component := componentName(ref.Ref); component != "" {
		if target, ok := b.schemas[component]; ok && target.Value != nil && convertible(target.Value) {
			def, err := b.component(component)
			if err != nil {
				return nil, err
			}
			return model.Of(def), nil
		}
		// Primitive alias components inline their value schema.
	}

	schema := ref.Value
	switch firstType(schema.Type) {
	case "string":
		switch schema.Format {
		case "date-time":
			return model.Time(), nil
		case "date":
			return model.Date(), nil
		case "time":
			return model.TimeOfDay(), nil
		case "uri", "url":
			return model.URL(stringOptions(schema)...), nil
		default:
			return model.String(stringOptions(schema)...), nil
		}
	case "integer":
		return model.Int(numberOptions(schema)...), nil
	case "number":
		return model.Float(numberOptions(schema)...), nil
	case "boolean":
		return model.Bool(), nil
	case "array":
		if schema.Items == nil {
			return nil, fmt.Errorf("openapi: schema %q: array property %q missing items", owner, field)
		}
		elem, err := b.valueType(owner, field+"[]", schema.Items)
		if err != nil {
			return nil, err
		}
		var opts []model.TypeOption
		if schema.MinItems != 0 {
			opts = append(opts, model.MinLength(int(schema.MinItems)))
		}
		if schema.MaxItems != nil {
			opts = append(opts, model.MaxLength(int(*schema.MaxItems)))
		}
		return model.List(elem, opts...), nil
	case "object", "":
		if len(schema.Properties) > 0 {
			inline, err := b.defineSchema(owner+"."+field, schema)
			if err != nil {
				return nil, err
			}
			return model.Of(inline), nil
		}
		if schema.AdditionalProperties.Schema != nil {
			value, err := b.valueType(owner, field+".*", schema.AdditionalProperties.Schema)
			if err != nil {
				return nil, err
			}
			return model.Map(value), nil
		}
		return nil, fmt.Errorf("openapi: schema %q: property %q is an untyped object", owner, field)
	}
	return nil, fmt.Errorf("openapi: schema %q: property %q has unsupported type %q", owner, field, firstType(schema.Type))
}

func stringOptions(schema *openapi3.Schema) []model.TypeOption {
	var opts []model.TypeOption
	if schema.MinLength != 0 {
		opts = append(opts, model.MinLength(int(schema.MinLength)))
	}
	if schema.MaxLength != nil {
		opts = append(opts, model.MaxLength(int(*schema.MaxLength)))
	}
	if schema.Pattern != "" {
		// Patterns that do not compile as Go regexps are dropped rather
		// than panicking the conversion.
		if _, err := regexp.Compile(schema.Pattern); err == nil {
			opts = append(opts, model.Pattern(schema.Pattern))
		}
	}
	return opts
}

func numberOptions(schema *openapi3.Schema) []model.TypeOption {
	var opts []model.TypeOption
	if schema.Min != nil {
		opts = append(opts, model.Min(*schema.Min))
	}
	if schema.Max != nil {
		opts = append(opts, model.Max(*schema.Max))
	}
	return opts
}

func firstType(types *openapi3.Types) string {
	if types == nil || len(*types) == 0 {
		return ""
	}
	return (*types)[0]
}

func componentName(ref string) string {
	if !strings.HasPrefix(ref, componentPrefix) {
		return ""
	}
	name := strings.TrimPrefix(ref, componentPrefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
