// Package aibackend invokes the external AI execution process that actually
// runs a task: a child process given one JSON argument and expected to
// print a JSON result on stdout.
package aibackend

import (
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("aibackend")
}

// Input is the JSON argument passed to the backend process.
type Input struct {
	Description string          `json:"description"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Result is the JSON object the backend process must print on stdout.
type Result struct {
	ProofHash string `json:"proof_hash"`
	Output    string `json:"output"`
}

// Backend invokes a configured external command once per task.
type Backend struct {
	command string
	args    []string
	timeout time.Duration
}

// New builds a Backend that runs command(args..., inputJSON) for each task.
func New(command string, args []string, timeout time.Duration) *Backend {
	return &Backend{command: command, args: args, timeout: timeout}
}

// Run executes the backend process for one task and parses its result.
// A non-zero exit status is reported with the process's stderr as
// diagnostics.
func (b *Backend) Run(ctx context.Context, description string, config json.RawMessage) (*Result, error) {
	input, err := json.Marshal(Input{Description: description, Config: config})
	if err != nil {
		return nil, errors.Wrap(err, "marshal aibackend input")
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if b.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, b.command, append(b.args, string(input))...)
	stdout, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			logger().Errorw("aibackend process failed", "stderr", string(exitErr.Stderr))
			return nil, errors.Wrapf(err, "aibackend exited with diagnostics: %s", string(exitErr.Stderr))
		}
		return nil, errors.Wrap(err, "run aibackend process")
	}

	var result Result
	if err := json.Unmarshal(stdout, &result); err != nil {
		return nil, errors.Wrap(err, "parse aibackend stdout")
	}
	return &result, nil
}
