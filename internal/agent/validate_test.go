package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTaskDescriptionAccepts(t *testing.T) {
	p, err := validateTaskDescription(`{"model":"llama-7b","input":{"prompt":"hi"},"task_type":"text_generation"}`)
	require.NoError(t, err)
	assert.Equal(t, "llama-7b", p.Model)
	assert.Equal(t, "text_generation", p.TaskType)
}

func TestValidateTaskDescriptionRejectsInvalidJSON(t *testing.T) {
	_, err := validateTaskDescription(`not json`)
	assert.Error(t, err)
}

func TestValidateTaskDescriptionRejectsMissingModel(t *testing.T) {
	_, err := validateTaskDescription(`{"input":{"a":1},"task_type":"inference"}`)
	assert.Error(t, err)
}

func TestValidateTaskDescriptionRejectsMissingInput(t *testing.T) {
	_, err := validateTaskDescription(`{"model":"m","task_type":"inference"}`)
	assert.Error(t, err)
}

func TestValidateTaskDescriptionRejectsOversizedInput(t *testing.T) {
	big := `"` + strings.Repeat("a", maxTaskInputBytes+1) + `"`
	desc := `{"model":"m","task_type":"inference","input":` + big + `}`
	_, err := validateTaskDescription(desc)
	assert.Error(t, err)
}

func TestValidateTaskDescriptionRejectsUnknownTaskType(t *testing.T) {
	_, err := validateTaskDescription(`{"model":"m","input":1,"task_type":"summarization"}`)
	assert.Error(t, err)
}

func TestValidateBackendResultAccepts(t *testing.T) {
	hash := strings.Repeat("a", proofHashLen)
	err := validateBackendResult(hash, `{"ok":true}`)
	assert.NoError(t, err)
}

func TestValidateBackendResultRejectsWrongLengthHash(t *testing.T) {
	err := validateBackendResult("deadbeef", `{}`)
	assert.Error(t, err)
}

func TestValidateBackendResultRejectsNonHexHash(t *testing.T) {
	hash := strings.Repeat("z", proofHashLen)
	err := validateBackendResult(hash, `{}`)
	assert.Error(t, err)
}

func TestValidateBackendResultRejectsOversizedOutput(t *testing.T) {
	hash := strings.Repeat("a", proofHashLen)
	err := validateBackendResult(hash, strings.Repeat("a", maxResultOutputLen+1))
	assert.Error(t, err)
}

func TestValidateBackendResultRejectsInvalidJSONOutput(t *testing.T) {
	hash := strings.Repeat("a", proofHashLen)
	err := validateBackendResult(hash, `not json`)
	assert.Error(t, err)
}
