package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
)

// Runner invokes the git binary and returns its standard output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner runs a real git binary inside a working directory.
type ExecRunner struct {
	Binary string // defaults to "git"
	Dir    string
}

// NewExecRunner returns a runner bound to the repository root dir.
func NewExecRunner(binary, dir string) *ExecRunner {
	if binary == "" {
		binary = "git"
	}
	return &ExecRunner{Binary: binary, Dir: dir}
}

// Run executes git with args. Any failure, including a missing binary, is
// reported as a *CommandError carrying git's stderr. A started invocation
// always runs to completion; cancelling ctx does not kill it.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	log.FromContext(ctx).Command(r.Dir, r.Binary, args...)

	cmd := exec.CommandContext(context.WithoutCancel(ctx), r.Binary, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:    args,
			Message: strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.String(), nil
}
