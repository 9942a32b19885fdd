// Package gatewayapi implements the gateway's HTTP surface: JSON over
// HTTPS, httprouter-based routing, Bearer auth, and the rate limiter and
// coordinator-backed handlers for tasks/nodes/user/admin routes.
package gatewayapi

import (
	"encoding/json"
	"net/http"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

// errorBody is the gateway's uniform error envelope: `{error, message,
// code?}`. It carries no details field.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := apierr.KindOf(err)
	status := httpStatusForKind(kind)
	msg := err.Error()
	if ae, ok := err.(*apierr.Error); ok {
		msg = ae.Message
	}
	writeJSON(w, status, errorBody{
		Error:   string(kind),
		Message: msg,
		Code:    string(kind),
	})
}

func httpStatusForKind(kind apierr.Kind) int {
	switch kind {
	case apierr.BadRequest:
		return http.StatusBadRequest
	case apierr.Unauthorized:
		return http.StatusUnauthorized
	case apierr.Forbidden, apierr.NotAssigned:
		return http.StatusForbidden
	case apierr.NotFound:
		return http.StatusNotFound
	case apierr.Conflict:
		return http.StatusConflict
	case apierr.TooManyRequests:
		return http.StatusTooManyRequests
	case apierr.Paused, apierr.InsufficientStake, apierr.InsufficientDeposit,
		apierr.TaskNotActive, apierr.TaskTimedOut, apierr.InsufficientBalance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
