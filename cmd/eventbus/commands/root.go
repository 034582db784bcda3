// Package commands provides the CLI commands for eventbus.
package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/telnet2/eventbus/internal/config"
	"github.com/telnet2/eventbus/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	dir      string
	envFile  string
	logLevel string
	policy   string
	noColor  bool

	fs afero.Fs
}

// NewRootCmd builds the eventbus command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "eventbus",
		Short: "Route named events to listeners",
		Long: `eventbus wires named events to listeners through configured routes.

Routes match an exact event name or a regular expression and deliver the
event details to a sink: print, log or tap. See 'eventbus routes' for the
routes loaded from eventbus.json, eventbus.jsonc or eventbus.yaml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Directory to load configuration from (default: current directory)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Dotenv file loaded before configuration")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR|OFF)")
	cmd.PersistentFlags().StringVar(&opts.policy, "policy", "", "Dispatch failure policy (fail-fast|collect)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.SetVersionTemplate(fmt.Sprintf("eventbus %s (%s)\n", Version, BuildTime))

	cmd.AddCommand(newPublishCmd(opts))
	cmd.AddCommand(newReplayCmd(opts))
	cmd.AddCommand(newRoutesCmd(opts))
	cmd.AddCommand(newMatchCmd(opts))
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *globalOptions) setup(cmd *cobra.Command) error {
	if o.envFile != "" {
		err := godotenv.Load(o.envFile)
		// A missing default .env is fine; a missing explicit one is not.
		if err != nil && (cmd.Flags().Changed("env-file") || !errors.Is(err, fs.ErrNotExist)) {
			return fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}
	if o.noColor {
		color.NoColor = true
	}
	logging.Init(logging.Config{
		Level:   logging.ParseLevel(o.logLevel),
		Output:  cmd.ErrOrStderr(),
		Pretty:  true,
		NoColor: color.NoColor,
	})
	return nil
}

// loadConfig loads configuration and applies command-line overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	dir := o.dir
	if dir == "" {
		dir = "."
	}
	cfg, err := config.Load(o.fs, dir)
	if err != nil {
		return nil, err
	}
	if o.policy != "" {
		cfg.Policy = o.policy
	}
	if o.logLevel == "" && cfg.LogLevel != "" {
		logging.Logger = logging.Logger.Level(logging.ParseLevel(cfg.LogLevel))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
