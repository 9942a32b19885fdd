package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestJSONCodecName(t *testing.T) {
	assert.Equal(t, "json", jsonCodec{}.Name())
}

func TestJSONCodecMarshalUnmarshalRoundTrip(t *testing.T) {
	c := jsonCodec{}
	req := &SubmitTaskRequest{Requester: "alice", Description: "do work", Priority: "High"}

	data, err := c.Marshal(req)
	require.NoError(t, err)

	var out SubmitTaskRequest
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, *req, out)
}

func TestJSONCodecIsRegisteredUnderItsName(t *testing.T) {
	assert.NotNil(t, encoding.GetCodec(codecName))
}
