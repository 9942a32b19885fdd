package agent

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	maxTaskInputBytes  = 50 * 1024
	maxResultOutputLen = 1024 * 1024
	proofHashLen       = 64
)

var validTaskTypes = map[string]bool{
	"inference":       true,
	"text_generation": true,
	"classification":  true,
	"embedding":       true,
}

// taskPayload is the required shape of a task's opaque description.
type taskPayload struct {
	Model    string          `json:"model"`
	Input    json.RawMessage `json:"input"`
	TaskType string          `json:"task_type"`
}

func validateTaskDescription(description string) (*taskPayload, error) {
	var p taskPayload
	if err := json.Unmarshal([]byte(description), &p); err != nil {
		return nil, errors.Wrap(err, "task description is not valid JSON")
	}
	if p.Model == "" {
		return nil, errors.New("task description missing required field \"model\"")
	}
	if len(p.Input) == 0 {
		return nil, errors.New("task description missing required field \"input\"")
	}
	if len(p.Input) > maxTaskInputBytes {
		return nil, errors.Errorf("task input exceeds %d bytes", maxTaskInputBytes)
	}
	if !validTaskTypes[p.TaskType] {
		return nil, errors.Errorf("task_type %q is not one of inference/text_generation/classification/embedding", p.TaskType)
	}
	return &p, nil
}

func validateBackendResult(proofHash, output string) error {
	if len(proofHash) != proofHashLen {
		return errors.Errorf("proof_hash must be %d hex characters, got %d", proofHashLen, len(proofHash))
	}
	if _, err := hex.DecodeString(proofHash); err != nil {
		return errors.Wrap(err, "proof_hash is not valid hex")
	}
	if len(output) > maxResultOutputLen {
		return errors.Errorf("output exceeds %d bytes", maxResultOutputLen)
	}
	if !json.Valid([]byte(output)) {
		return errors.New("output is not valid JSON")
	}
	return nil
}
