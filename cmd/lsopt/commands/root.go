/*
Package commands implements the CLI command structure for lsopt.
It provides the root command and the subcommands for listing operations,
with flag handling layered over the environment configuration.
*/
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sonemaro/lsopt/internal/config"
	"github.com/sonemaro/lsopt/pkg/logger"
)

// Options holds state shared by all commands.
type Options struct {
	Config  *config.Config
	Log     logger.Logger
	Verbose int
	NoColor bool
}

// NewRootCommand creates the root command for the application.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "lsopt [command] [flags] <path>",
		Short: "Configurable filesystem listing",
		Long: `lsopt lists files and directories reachable from a root path according
to a declarative set of filters: entry type, hidden-name visibility,
descent depth or unbounded recursion, and literal name suffixes.

Configuration comes from LSOPT_* environment variables, overridden by
command-line flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeCommand(cmd, opts)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v",
		"increase verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false,
		"disable colored output")

	rootCmd.AddCommand(
		newListCommand(opts),
		newVersionCommand(opts),
	)

	return rootCmd
}

// initializeCommand performs common initialization for all commands.
func initializeCommand(cmd *cobra.Command, opts *Options) error {
	log := logger.NewLogger(logger.Config{
		Verbosity: opts.Verbose,
	})

	log.WithFields(logger.Fields{
		"verbosity": opts.Verbose,
		"command":   cmd.Name(),
	}).Debug("Initializing command")

	cfg, err := config.Load()
	if err != nil {
		log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to load configuration")
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Verbose = opts.Verbose
	if opts.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		cfg.NoColor = true
	}

	opts.Config = &cfg
	opts.Log = log

	return nil
}
