package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
	"github.com/Johannes-Berggren/BranchGoblin/internal/models"
)

func newRenameCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rename OLD NEW",
		Short:   "Rename a local branch",
		Aliases: []string{"mv"},
		Args:    cobra.ExactArgs(2),
		Long: `Rename a local branch with git branch -m.

The current branch is renamed by checking out another branch first (a
protected one when available) and checking out the new name afterwards.
That sequence asks for confirmation unless --yes is given. A failure part
way is reported with the branch left checked out and is not rolled back.`,
		Example: `  bgoblin rename feature/lgoin feature/login
  bgoblin rename main trunk --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			oldName, newName := args[0], strings.TrimSpace(args[1])

			ctx, s, err := cliSession(cmd, opts)
			if err != nil {
				return err
			}
			m := s.Manager()

			listing := m.Listing()
			if !listing.Contains(oldName) {
				return fmt.Errorf("no local branch named %q", oldName)
			}
			if newName == "" || newName == oldName {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to rename")
				return nil
			}

			row := branches.RowFor(models.Branch{
				Name:        oldName,
				IsCurrent:   listing.Current == oldName,
				IsProtected: m.IsProtected(oldName),
			})

			if row.Kind == branches.KindCurrent && !yes {
				plan, err := m.PlanRename(ctx, oldName, true)
				if err != nil {
					return fmt.Errorf("cannot rename %s: %w", oldName, err)
				}
				detail := fmt.Sprintf("%s is checked out while renaming", plan.Temp)
				if plan.Changes > 0 {
					detail += fmt.Sprintf("; %d uncommitted change(s) will be carried along", plan.Changes)
				}
				ok, err := confirm(cmd, fmt.Sprintf("Rename current branch %s to %s?", oldName, newName), detail)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			report := s.Rename(ctx, row, newName)
			printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report)
			return reportError(report)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask before switching branches")
	return cmd
}
