package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
)

func newListCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List local branches",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Long: `List local branches in git's order.

The current branch is marked with *, protected branches with !.`,
		Example: `  bgoblin list          # Plain list
  bgoblin list --json   # Output as JSON for scripting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runList(cmd *cobra.Command, opts *options, asJSON bool) error {
	_, s, err := cliSession(cmd, opts)
	if err != nil {
		return err
	}

	p := &listPresenter{out: cmd.OutOrStdout(), asJSON: asJSON}
	branches.Present(s.Manager(), p)
	return p.err
}
