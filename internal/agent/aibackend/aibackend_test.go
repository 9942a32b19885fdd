package aibackend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParsesResultFromStdout(t *testing.T) {
	b := New("/bin/sh", []string{"-c", `echo '{"proof_hash":"abc123","output":"{\"ok\":true}"}'`}, 5*time.Second)

	result, err := b.Run(context.Background(), `{"model":"m"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.ProofHash)
	assert.Equal(t, `{"ok":true}`, result.Output)
}

func TestRunReturnsErrorOnNonZeroExit(t *testing.T) {
	b := New("/bin/sh", []string{"-c", "exit 1"}, 5*time.Second)

	_, err := b.Run(context.Background(), `{"model":"m"}`, nil)
	assert.Error(t, err)
}

func TestRunReturnsErrorOnMalformedStdout(t *testing.T) {
	b := New("/bin/sh", []string{"-c", "echo not-json"}, 5*time.Second)

	_, err := b.Run(context.Background(), `{"model":"m"}`, nil)
	assert.Error(t, err)
}

func TestRunRespectsTimeout(t *testing.T) {
	b := New("/bin/sh", []string{"-c", "sleep 5"}, 20*time.Millisecond)

	_, err := b.Run(context.Background(), `{"model":"m"}`, nil)
	assert.Error(t, err)
}
