package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExactCommand creates the 'mii exact' command
func NewExactCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exact <command>",
		Short: "List the modules providing exactly this command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			ix, err := s.loadIndex()
			if err != nil {
				return err
			}

			matches, err := ix.SearchExact(args[0])
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return newPrinter(s.out, s.cfg.JSON).printMatches(args[0], matches, false)
		},
	}
}

// NewSearchCommand creates the 'mii search' command
func NewSearchCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <command>",
		Short: "List the modules providing commands similar to this one",
		Long: `Fuzzy search ignoring case. Commands within a small edit distance of the
query are listed, closest first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			ix, err := s.loadIndex()
			if err != nil {
				return err
			}

			matches, err := ix.SearchFuzzy(args[0])
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return newPrinter(s.out, s.cfg.JSON).printMatches(args[0], matches, true)
		},
	}
}

// NewInfoCommand creates the 'mii info' command
func NewInfoCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <module>",
		Short: "Show the commands a module provides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			ix, err := s.loadIndex()
			if err != nil {
				return err
			}

			infos, err := ix.SearchInfo(args[0])
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return newPrinter(s.out, s.cfg.JSON).printInfos(args[0], infos)
		},
	}
}
