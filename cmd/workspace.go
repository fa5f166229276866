package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
	"github.com/Johannes-Berggren/BranchGoblin/internal/config"
	"github.com/Johannes-Berggren/BranchGoblin/internal/git"
	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
)

// workspace is the repository a command operates on and its settings.
type workspace struct {
	repo git.Repo
	cfg  config.Config
}

func openWorkspace(opts *options) (*workspace, error) {
	dir := opts.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	repo, err := git.FindRepo(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath, repo.Root)
	if err != nil {
		return nil, err
	}
	return &workspace{repo: repo, cfg: cfg}, nil
}

// logFile returns the flag value, falling back to the configured path.
func (w *workspace) logFile(opts *options) string {
	if opts.logFile != "" {
		return opts.logFile
	}
	return w.cfg.LogFile
}

// surface wires the branch actions to git in the repository root. A nil
// clipboard means the system clipboard.
func (w *workspace) surface(clip branches.Clipboard) *branches.Surface {
	runner := git.NewExecRunner(w.cfg.GitBinary, w.repo.Root)
	return branches.NewSurface(branches.NewManager(runner, w.cfg.Policy()), clip)
}

// cliSession opens the workspace for a non-interactive command, logging to
// stderr, and reads the branch list once.
func cliSession(cmd *cobra.Command, opts *options) (context.Context, *branches.Surface, error) {
	ws, err := openWorkspace(opts)
	if err != nil {
		return nil, nil, err
	}

	ctx := log.WithLogger(cmd.Context(), log.New(cmd.ErrOrStderr(), opts.verbose))
	s := ws.surface(clipboardFor(cmd))
	if err := reportError(s.Refresh(ctx)); err != nil {
		return nil, nil, err
	}
	return ctx, s, nil
}

// clipboardFor lets tests swap the system clipboard.
func clipboardFor(cmd *cobra.Command) branches.Clipboard {
	if c, ok := cmd.Context().Value(clipboardKey{}).(branches.Clipboard); ok {
		return c
	}
	return nil
}

type clipboardKey struct{}
