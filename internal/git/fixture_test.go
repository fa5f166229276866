package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// requireGitBinary skips tests that shell out when git is not installed.
func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return resolved
}

// setupFixtureRepo builds a repository on disk with one commit on current
// and every extra branch pointing at that commit.
func setupFixtureRepo(t *testing.T, current string, branches ...string) string {
	t.Helper()
	dir := resolveTempDir(t)

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(current))
	require.NoError(t, repo.Storer.SetReference(head))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# fixture\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("Initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	for _, b := range branches {
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(b), hash)
		require.NoError(t, repo.Storer.SetReference(ref))
	}

	return dir
}
