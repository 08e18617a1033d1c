package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for mii
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "mii",
		Short: "Module command index for Lmod and Tcl environment modules",
		Long: `mii indexes the modulefiles on your MODULEPATH and records which
commands each module puts on PATH when loaded.

Build the index once with "mii build", keep it current with "mii sync",
then ask which module provides a command with "mii exact" or "mii search".`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.modulePath, "modulepath", "m", "", "Colon-separated module path to index (default: $MODULEPATH)")
	flags.StringVarP(&opts.dataDir, "datadir", "d", "", "Directory holding the index (default: $MII_DATADIR or ~/.mii)")
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: <datadir>/config.yaml)")
	flags.BoolVarP(&opts.jsonOutput, "json", "j", false, "Print results as JSON")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log errors")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewExactCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))

	return cmd
}
