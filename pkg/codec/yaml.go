package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-modelkit/pkg/model"
)

// YAML encodes instances as YAML text.
type YAML struct{}

var _ Codec = YAML{}

// Marshal encodes an instance as a YAML mapping.
func (c YAML) Marshal(inst *model.Instance, opts ...model.Option) ([]byte, error) {
	tree, err := model.Encode(inst, opts...)
	if err != nil {
		return nil, fmt.Errorf("codec: encode: %w", err)
	}
	data, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal yaml: %w", err)
	}
	return data, nil
}

// Unmarshal parses YAML text and decodes the resulting tree.
func (c YAML) Unmarshal(data []byte, target *model.Type, opts ...model.Option) (*model.Instance, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("codec: parse yaml: %w", err)
	}
	inst, err := model.Decode(tree, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	return inst, nil
}
