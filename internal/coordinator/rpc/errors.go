package rpc

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

// apierr.Kind does not survive a gRPC round trip on its own: the wire only
// carries a status code and a message. We carry the original Kind as a
// "Kind: message" prefix on the status message and fall back to a
// code->Kind mapping when talking to a peer that didn't send one.
var kindToCode = map[apierr.Kind]codes.Code{
	apierr.BadRequest:          codes.InvalidArgument,
	apierr.Unauthorized:        codes.Unauthenticated,
	apierr.Forbidden:           codes.PermissionDenied,
	apierr.NotFound:            codes.NotFound,
	apierr.Conflict:            codes.AlreadyExists,
	apierr.TooManyRequests:     codes.ResourceExhausted,
	apierr.Paused:              codes.FailedPrecondition,
	apierr.InsufficientStake:   codes.FailedPrecondition,
	apierr.InsufficientDeposit: codes.FailedPrecondition,
	apierr.NotAssigned:         codes.PermissionDenied,
	apierr.TaskNotActive:       codes.FailedPrecondition,
	apierr.TaskTimedOut:        codes.FailedPrecondition,
	apierr.InsufficientBalance: codes.FailedPrecondition,
	apierr.Internal:            codes.Internal,
}

var codeToKind = map[codes.Code]apierr.Kind{
	codes.InvalidArgument:    apierr.BadRequest,
	codes.Unauthenticated:    apierr.Unauthorized,
	codes.PermissionDenied:   apierr.Forbidden,
	codes.NotFound:           apierr.NotFound,
	codes.AlreadyExists:      apierr.Conflict,
	codes.ResourceExhausted:  apierr.TooManyRequests,
	codes.FailedPrecondition: apierr.Paused,
	codes.Internal:           apierr.Internal,
}

// toStatusError converts a Coordinator error into a gRPC status error,
// preserving its apierr.Kind for reconstruction on the client side.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	kind := apierr.KindOf(err)
	code, ok := kindToCode[kind]
	if !ok {
		code = codes.Unknown
	}
	msg := err.Error()
	if ae, ok := err.(*apierr.Error); ok {
		msg = ae.Message
	}
	return status.Error(code, string(kind)+": "+msg)
}

// fromStatusError reconstructs an apierr.Error from a gRPC status error
// returned by a Coordinator RPC call.
func fromStatusError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	msg := st.Message()
	if idx := strings.Index(msg, ": "); idx > 0 {
		kind := apierr.Kind(msg[:idx])
		if _, known := kindToCode[kind]; known {
			return apierr.New(kind, "%s", msg[idx+2:])
		}
	}
	kind, ok := codeToKind[st.Code()]
	if !ok {
		kind = apierr.Internal
	}
	return apierr.New(kind, "%s", msg)
}
