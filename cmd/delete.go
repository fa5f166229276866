package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/BranchGoblin/internal/ui"
)

var errNeedsYes = errors.New("stdin is not a terminal; pass --yes to confirm")

func newDeleteCmd(opts *options) *cobra.Command {
	var (
		pattern string
		all     bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:     "delete [branch...]",
		Short:   "Delete local branches",
		Aliases: []string{"rm"},
		Long: `Delete local branches with git branch -D.

Branches are named explicitly, picked by a configured pattern, or all
selectable branches are taken. Protected branches and the current branch
are skipped with a warning. Deletion stops at the first failure.`,
		Example: `  bgoblin delete feature/old bug/123   # Named branches
  bgoblin delete --pattern feature      # Every feature branch
  bgoblin delete --all --yes            # Everything deletable, no prompt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && (pattern != "" || all) {
				return fmt.Errorf("branch names cannot be combined with --pattern or --all")
			}
			if len(args) == 0 && pattern == "" && !all {
				return fmt.Errorf("name branches to delete or pass --pattern or --all")
			}

			ctx, s, err := cliSession(cmd, opts)
			if err != nil {
				return err
			}
			m := s.Manager()

			names := args
			switch {
			case pattern != "":
				if _, err := m.SelectPattern(ctx, pattern); err != nil {
					return fmt.Errorf("selecting %s branches failed: %w", pattern, err)
				}
				names = m.Checked()
			case all:
				if _, err := m.SelectAll(ctx); err != nil {
					return fmt.Errorf("select all failed: %w", err)
				}
				names = m.Checked()
			}

			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no branches to delete")
				return nil
			}

			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete %d branch(es)?", len(names)), strings.Join(names, ", "))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			report := s.Delete(ctx, names)
			printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report)
			return reportError(report)
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "delete branches starting with a configured pattern")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "delete every branch that is neither protected nor current")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.MarkFlagsMutuallyExclusive("pattern", "all")
	return cmd
}

// confirm asks on the terminal. Without a terminal there is nobody to ask.
func confirm(cmd *cobra.Command, prompt, detail string) (bool, error) {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isatty.IsTerminal(in.Fd()) {
		return false, errNeedsYes
	}
	return ui.Confirm(prompt, detail, tea.WithInput(in), tea.WithOutput(cmd.ErrOrStderr()))
}
