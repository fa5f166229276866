package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCopyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "copy BRANCH",
		Short: "Copy a branch name to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := cliSession(cmd, opts)
			if err != nil {
				return err
			}
			if !s.Manager().Listing().Contains(args[0]) {
				return fmt.Errorf("no local branch named %q", args[0])
			}

			report := s.CopyName(args[0])
			printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report)
			return reportError(report)
		},
	}
}
