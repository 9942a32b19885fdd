package gatewayapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

func TestHTTPStatusForKindMapping(t *testing.T) {
	cases := map[apierr.Kind]int{
		apierr.BadRequest:          http.StatusBadRequest,
		apierr.Unauthorized:        http.StatusUnauthorized,
		apierr.Forbidden:           http.StatusForbidden,
		apierr.NotAssigned:         http.StatusForbidden,
		apierr.NotFound:            http.StatusNotFound,
		apierr.Conflict:            http.StatusConflict,
		apierr.TooManyRequests:     http.StatusTooManyRequests,
		apierr.Paused:              http.StatusUnprocessableEntity,
		apierr.InsufficientStake:   http.StatusUnprocessableEntity,
		apierr.InsufficientDeposit: http.StatusUnprocessableEntity,
		apierr.TaskNotActive:       http.StatusUnprocessableEntity,
		apierr.TaskTimedOut:        http.StatusUnprocessableEntity,
		apierr.InsufficientBalance: http.StatusUnprocessableEntity,
		apierr.Internal:            http.StatusInternalServerError,
		apierr.Kind("UNKNOWN_KIND"): http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, httpStatusForKind(kind), "kind %s", kind)
	}
}

func TestWriteErrorEncodesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, apierr.New(apierr.Conflict, "username %s already taken", "alice"))

	assert.Equal(t, http.StatusConflict, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CONFLICT", body.Error)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Contains(t, body.Message, "alice")
}

func TestWriteJSONOmitsBodyWhenNil(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}
