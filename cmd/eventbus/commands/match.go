package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

func newMatchCmd(opts *globalOptions) *cobra.Command {
	var regex bool

	cmd := &cobra.Command{
		Use:   "match MATCHER NAME",
		Short: "Check whether a matcher accepts an event name",
		Long: `Check whether a matcher accepts an event name.

MATCHER is an exact event name, or with --regex a regular expression that
matches anywhere in NAME unless anchored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := eventbus.Exact(args[0])
			if regex {
				m = eventbus.Expr(args[0])
			}

			ok, err := m.Match(args[1])
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s matches %q\n", m, args[1])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s does not match %q\n", m, args[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&regex, "regex", "r", false, "Treat MATCHER as a regular expression")
	return cmd
}
