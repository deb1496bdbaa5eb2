package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// JSONCodec encodes history snapshots as JSON. Decimals are written as
// strings and enums by their symbolic names, so a snapshot round-trips
// without loss.
type JSONCodec struct{}

// NewJSONCodec returns a JSONCodec.
func NewJSONCodec() JSONCodec {
	return JSONCodec{}
}

// Marshal encodes v.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// Unmarshal decodes data into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return nil
}
