package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

func newPublishCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publish NAME [key=value ...]",
		Short: "Publish one event through the configured routes",
		Long: `Publish one event through the configured routes.

Each key=value argument becomes a detail. Values are parsed as JSON when
possible (42, true, {"a":1}) and kept as strings otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := parseDetails(args[1:])
			if err != nil {
				return err
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.router.Publish(args[0], details)
		},
	}
}

// parseDetails turns key=value arguments into event details.
func parseDetails(args []string) (eventbus.Details, error) {
	details := make(eventbus.Details, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid detail %q: expected key=value", arg)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		details[key] = value
	}
	return details, nil
}
