package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/telnet2/eventbus/internal/config"
	"github.com/telnet2/eventbus/internal/router"
)

func newRoutesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List configured routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(cfg.Routes) == 0 {
				fmt.Fprintln(out, color.New(color.FgHiBlack).Sprint("no routes configured"))
				return nil
			}

			policy := cfg.Policy
			if policy == "" {
				policy = "fail-fast"
			}
			fmt.Fprintf(out, "policy: %s\n", policy)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROUTE\tMATCHER\tSINK\tFILTER")
			for _, route := range cfg.Routes {
				sinkName := route.Sink
				if sinkName == config.SinkTap {
					sinkName += ":" + route.TapTopic()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					route.Label(), router.Matcher(route).String(), sinkName, route.Filter)
			}
			return w.Flush()
		},
	}
}
