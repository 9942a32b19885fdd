// Package rpc exposes the Coordinator over gRPC: one method per coordinator
// operation, with payload shapes matching the Task/NodeInfo/TaskStatus/
// TaskPriority domain types and integer amounts serialized as decimal
// strings.
//
// The service is defined by hand against google.golang.org/grpc's codec
// interface rather than through protoc-generated stubs: the Coordinator.proto
// sketch in service.go is the source-of-truth contract (kept for documentation and for
// regenerating client bindings in other languages), and the wire messages
// here are plain Go structs marshaled with the registered "json" codec.
// This keeps the RPC surface a real gRPC service (HTTP/2 framing over
// google.golang.org/grpc) without requiring a protoc run to produce this
// repository.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec implements google.golang.org/grpc/encoding.Codec using
// encoding/json instead of protobuf wire format.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
func (jsonCodec) Name() string { return codecName }
