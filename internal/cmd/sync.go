package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCommand creates the 'mii sync' command
func NewSyncCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Update the index, analyzing only new or modified modulefiles",
		Long: `Crawl the module path and reuse the results of every modulefile whose
modification time is unchanged since the last index was written. Only new
and modified modulefiles are analyzed. The index file is rewritten only
when something was analyzed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			return runSync(s)
		},
	}
}

func runSync(s *session) error {
	ix, closeAnalyzer, err := s.newIndex()
	if err != nil {
		return err
	}
	defer closeAnalyzer()

	if err := ix.Build(s.cfg.ModulePath); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if err := ix.Preanalyze(s.cfg.IndexPath()); err != nil {
		s.log.LogWarn(fmt.Sprintf("Couldn't reuse the previous index, analyzing everything: %v", err))
	}

	count, err := s.analyze(ix)
	if err != nil {
		return err
	}

	if count == 0 {
		s.log.LogInfo("All modules up to date")
		return nil
	}

	s.log.LogInfo(fmt.Sprintf("Synchronized %d modules", count))
	return ix.Export(s.cfg.IndexPath())
}
