package cmd

import (
	"github.com/spf13/cobra"
)

// NewBuildCommand creates the 'mii build' command
func NewBuildCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild the module index from scratch",
		Long: `Crawl every directory on the module path, analyze every modulefile
found (including modules revealed by other modules), and replace the index file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			return s.buildIndex()
		},
	}
}
