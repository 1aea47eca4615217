// Package api defines the request and response messages of the budget
// tracker's Connect services.
//
// Messages are plain Go structs encoded as JSON. Money travels as a number
// rounded to two decimal places; the server converts to and from
// decimal.Decimal at the edge.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is registered for the application/json content type.
const CodecName = "json"

// Codec returns the connect.Codec used by every handler and client in
// apiconnect.
func Codec() connect.Codec {
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	// Connect sends an empty body for empty messages.
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
