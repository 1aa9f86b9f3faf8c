// Package codec provides text encodings over the neutral tree: instances
// marshal to JSON or YAML byte payloads and back without the model engine
// knowing about either wire format.
package codec

import (
	"github.com/goliatone/go-modelkit/pkg/model"
)

// Codec is the contract both text encodings satisfy.
type Codec interface {
	// Marshal encodes an instance through the neutral tree into a byte
	// payload. Options pass through to model.Encode.
	Marshal(inst *model.Instance, opts ...model.Option) ([]byte, error)
	// Unmarshal parses a byte payload into a neutral tree and decodes it
	// into an instance of the target definition. Options pass through to
	// model.Decode.
	Unmarshal(data []byte, target *model.Type, opts ...model.Option) (*model.Instance, error)
}
