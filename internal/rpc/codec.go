// Package rpc defines the Connect procedures, messages, handlers and clients of the
// PocketSage API. Messages are plain Go structs carried by a JSON codec.
package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals messages with encoding/json. It replaces Connect's protobuf-only
// "json" codec so that handlers and clients can exchange non-proto structs.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON installs the JSON codec on a handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
