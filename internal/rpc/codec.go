package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype the Delos services negotiate.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals wire messages with encoding/json. The Delos services
// exchange JSON-encoded messages over gRPC, so hand-written wire structs
// stand in for generated protobuf code.
type jsonCodec struct{}

// Marshal implements encoding.Codec.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal implements encoding.Codec.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: unmarshal into %T: %w", v, err)
	}
	return nil
}

// Name implements encoding.Codec.
func (jsonCodec) Name() string { return CodecName }

// Ensure jsonCodec implements encoding.Codec.
var _ encoding.Codec = jsonCodec{}
