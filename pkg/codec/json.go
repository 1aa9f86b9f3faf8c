package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-modelkit/pkg/model"
)

// JSON encodes instances as JSON text. The zero value is ready to use;
// set Indent for pretty output.
type JSON struct {
	Indent string
}

var _ Codec = JSON{}

// Marshal encodes an instance as a JSON object. Keys serialise in Go's
// canonical sorted-key order; field-table order is a property of the
// neutral tree, not of the text form.
func (c JSON) Marshal(inst *model.Instance, opts ...model.Option) ([]byte, error) {
	tree, err := model.Encode(inst, opts...)
	if err != nil {
		return nil, fmt.Errorf("codec: encode: %w", err)
	}
	var data []byte
	if c.Indent != "" {
		data, err = json.MarshalIndent(tree, "", c.Indent)
	} else {
		data, err = json.Marshal(tree)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: marshal json: %w", err)
	}
	return data, nil
}

// Unmarshal parses JSON text and decodes the resulting tree. Numbers are
// kept as json.Number so integer fields coerce without precision loss.
func (c JSON) Unmarshal(data []byte, target *model.Type, opts ...model.Option) (*model.Instance, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree map[string]any
	if err := decoder.Decode(&tree); err != nil {
		return nil, fmt.Errorf("codec: parse json: %w", err)
	}
	inst, err := model.Decode(tree, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	return inst, nil
}
