package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Repo locates a working tree and its metadata directories.
type Repo struct {
	Root      string // top of the working tree, used as the git working directory
	GitDir    string // per-worktree metadata (HEAD lives here)
	CommonDir string // shared metadata (refs/heads and packed-refs live here)
}

// FindRepo resolves the repository containing dir, walking up parent
// directories the way git does. Bare repositories have no working tree and
// are treated as no workspace.
func FindRepo(dir string) (Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Repo{}, fmt.Errorf("resolve %s: %w", dir, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return Repo{}, ErrNoWorkspace
		}
		return Repo{}, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return Repo{}, ErrNoWorkspace
		}
		return Repo{}, fmt.Errorf("open worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	gitDir := filepath.Join(root, ".git")
	if st, ok := repo.Storer.(*filesystem.Storage); ok {
		gitDir = st.Filesystem().Root()
	}

	return Repo{
		Root:      root,
		GitDir:    gitDir,
		CommonDir: commonDir(gitDir),
	}, nil
}

// commonDir follows the "commondir" pointer that linked worktrees keep in
// their private metadata directory.
func commonDir(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		return gitDir
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return gitDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(gitDir, dir)
	}
	return filepath.Clean(dir)
}
