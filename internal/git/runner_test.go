package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Output(t *testing.T) {
	requireShell(t)
	t.Parallel()

	r := NewExecRunner("sh", t.TempDir())
	out, err := r.Run(context.Background(), "-c", "printf '* main\\n'")
	require.NoError(t, err)
	assert.Equal(t, "* main\n", out)
}

func TestExecRunner_StderrBecomesMessage(t *testing.T) {
	requireShell(t)
	t.Parallel()

	r := NewExecRunner("sh", t.TempDir())
	_, err := r.Run(context.Background(), "-c", "echo 'error: branch not found.' >&2; exit 1")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "error: branch not found.", cmdErr.Message)
	assert.Equal(t, "error: branch not found.", ErrorDetail(err))
}

func TestExecRunner_IgnoresCancellation(t *testing.T) {
	requireShell(t)
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewExecRunner("sh", t.TempDir())
	out, err := r.Run(ctx, "-c", "sleep 0.1; echo done")
	require.NoError(t, err)
	assert.Equal(t, "done\n", out)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	r := NewExecRunner("bgoblin-no-such-binary", t.TempDir())
	_, err := r.Run(context.Background(), "branch")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Empty(t, cmdErr.Message)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	assert.NotEmpty(t, ErrorDetail(err))
}

func TestExecRunner_LogsCommandWhenVerbose(t *testing.T) {
	requireShell(t)
	t.Parallel()

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true))
	r := NewExecRunner("sh", "")
	_, err := r.Run(ctx, "-c", "true")
	require.NoError(t, err)
	assert.Equal(t, "$ sh -c true\n", buf.String())
}

func TestNewExecRunner_DefaultsToGit(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "git", NewExecRunner("", "/repo").Binary)
}
