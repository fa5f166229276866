package branches

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Johannes-Berggren/BranchGoblin/internal/git"
)

// fakeRunner stands in for the git binary. It answers `git branch` with a
// fixed listing and fails any invocation registered in failOn.
type fakeRunner struct {
	mu           sync.Mutex
	branchOutput string
	statusOutput string
	failOn       map[string]string
	calls        [][]string
}

func newFakeRunner(branchOutput string) *fakeRunner {
	return &fakeRunner{branchOutput: branchOutput, failOn: map[string]string{}}
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]string(nil), args...))
	key := strings.Join(args, " ")
	if msg, ok := f.failOn[key]; ok {
		return "", &git.CommandError{Args: args, Message: msg, Err: errors.New("exit status 1")}
	}

	switch {
	case key == "branch":
		return f.branchOutput, nil
	case key == "status --porcelain":
		return f.statusOutput, nil
	}
	return "", nil
}

// mutations returns every invocation except listings and status reads.
func (f *fakeRunner) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.calls {
		key := strings.Join(c, " ")
		if key == "branch" || key == "status --porcelain" {
			continue
		}
		out = append(out, key)
	}
	return out
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}
