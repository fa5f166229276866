package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
	"github.com/Johannes-Berggren/BranchGoblin/internal/ui"
	"github.com/Johannes-Berggren/BranchGoblin/internal/watch"
)

// options are the global flags shared by every command.
type options struct {
	dir        string
	configPath string
	logFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bgoblin",
		Short: "Select, rename and bulk-delete local git branches",
		Long: `BranchGoblin - a terminal branch tree for local git branches.

Without a subcommand it opens the interactive tree when stdout is a
terminal and prints the branch list otherwise. Protected branches and the
current branch are never deleted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fd := os.Stdout.Fd()
			if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return runList(cmd, opts, false)
			}
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.dir, "directory", "C", "", "run as if started in this directory")
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/bgoblin/config.toml)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file for the interactive tree")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every git invocation")

	cmd.AddCommand(
		newListCmd(opts),
		newDeleteCmd(opts),
		newRenameCmd(opts),
		newCopyCmd(opts),
	)
	return cmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}

// runTUI opens the interactive tree. Logs go to a file since the terminal
// belongs to the UI.
func runTUI(ctx context.Context, opts *options) error {
	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}

	path := ws.logFile(opts)
	if path == "" {
		path = filepath.Join(os.TempDir(), "bgoblin.log")
	}
	f, err := tea.LogToFile(path, branches.ViewID)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	logger := log.New(f, opts.verbose)
	ctx = log.WithLogger(ctx, logger)
	surface := ws.surface(nil)

	var changes <-chan struct{}
	w, err := watch.New(ctx, ws.repo, ws.cfg.WatchDebounce.Duration)
	if err != nil {
		logger.Warnf("branch list will not refresh on its own: %v", err)
	} else {
		defer w.Close()
		changes = w.Events()
	}

	p := tea.NewProgram(ui.NewModel(ctx, surface, changes), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
