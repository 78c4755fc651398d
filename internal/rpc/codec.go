// Package rpc carries the data service RPC surface: a gRPC codec for the
// hand-rolled wire messages, the four service descriptors, and a typed
// client for the gateway services.
package rpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"

	"github.com/flyagain/server/internal/wire"
)

// CodecName is the content-subtype the gateways request on every call.
const CodecName = "flywire"

func init() {
	encoding.RegisterCodec(codec{})
}

// codec moves wire.Message values through gRPC without protoc-generated
// types. Both sides of every RPC speak protobuf wire format already, so
// marshalling is a straight append.
type codec struct{}

func (codec) Name() string { return CodecName }

func (codec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(wire.Message)
	if !ok {
		return nil, fmt.Errorf("flywire: cannot marshal %T", v)
	}
	return wire.Marshal(msg), nil
}

func (codec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(wire.Message)
	if !ok {
		return fmt.Errorf("flywire: cannot unmarshal into %T", v)
	}
	return msg.Unmarshal(data)
}
