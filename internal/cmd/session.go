package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harrison/mii/internal/analysis"
	"github.com/harrison/mii/internal/config"
	"github.com/harrison/mii/internal/index"
	"github.com/harrison/mii/internal/logger"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	modulePath string
	dataDir    string
	configPath string
	jsonOutput bool
	logLevel   string
	quiet      bool
}

// session is the resolved configuration and logging for one invocation.
type session struct {
	cfg *config.Config
	log logger.Logger
	out io.Writer
	// progress is nil unless stderr is a terminal and info messages are shown.
	progress *logger.ProgressBar
}

// newSession loads the config file, applies flags on top and resolves the
// environment defaults. Flags win over the file, the file wins over the environment.
func (o *globalOptions) newSession(cmd *cobra.Command) (*session, error) {
	configPath := o.configPath
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath(o.dataDir)
		if err != nil {
			return nil, fmt.Errorf("locate config file: %w", err)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var modulePathPtr, dataDirPtr, logLevelPtr *string
	var jsonPtr *bool
	if cmd.Flags().Changed("modulepath") {
		modulePathPtr = &o.modulePath
	}
	if cmd.Flags().Changed("datadir") {
		dataDirPtr = &o.dataDir
	}
	if cmd.Flags().Changed("log-level") {
		logLevelPtr = &o.logLevel
	}
	if o.quiet {
		quietLevel := "error"
		logLevelPtr = &quietLevel
	}
	if cmd.Flags().Changed("json") {
		jsonPtr = &o.jsonOutput
	}
	cfg.MergeWithFlags(modulePathPtr, dataDirPtr, logLevelPtr, jsonPtr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	log.LogDebug(fmt.Sprintf("Module path: %s", cfg.ModulePath))
	log.LogDebug(fmt.Sprintf("Index file: %s", cfg.IndexPath()))

	s := &session{
		cfg: cfg,
		log: log,
		out: cmd.OutOrStdout(),
	}
	if stderr := cmd.ErrOrStderr(); isTerminal(stderr) && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		s.progress = logger.NewProgressBar(stderr, 30, !color.NoColor)
		s.progress.SetPrefix("Analyzing ")
	}
	return s, nil
}

// newIndex creates an empty index wired to a fresh analyzer. The returned func
// releases the analyzer.
func (s *session) newIndex() (*index.Index, func(), error) {
	a, err := analysis.New(analysis.WithLogger(s.log))
	if err != nil {
		return nil, nil, fmt.Errorf("create analyzer: %w", err)
	}

	opts := []index.Option{index.WithAnalyzer(a), index.WithLogger(s.log)}
	if s.progress != nil {
		opts = append(opts, index.WithProgress(s.progress.Update))
	}
	return index.New(opts...), func() { a.Close() }, nil
}

// buildIndex crawls and analyzes the whole module path from scratch and exports
// the result.
func (s *session) buildIndex() error {
	ix, closeAnalyzer, err := s.newIndex()
	if err != nil {
		return err
	}
	defer closeAnalyzer()

	if err := ix.Build(s.cfg.ModulePath); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	count, err := s.analyze(ix)
	if err != nil {
		return err
	}

	if count == 0 {
		s.log.LogWarn("Didn't analyze any modules. Is the MODULEPATH correct?")
	} else {
		s.log.LogInfo(fmt.Sprintf("Finished analysis on %d modules", count))
	}

	return ix.Export(s.cfg.IndexPath())
}

// analyze drains the pending modules, drawing the progress bar if there is one.
func (s *session) analyze(ix *index.Index) (int, error) {
	count, err := ix.Analyze()
	if s.progress != nil {
		s.progress.Finish()
	}
	if err != nil {
		return 0, fmt.Errorf("analyze modules: %w", err)
	}
	return count, nil
}

// loadIndex imports the index file. If that fails the index is rebuilt once and
// imported again.
func (s *session) loadIndex() (*index.Index, error) {
	ix := index.New(index.WithLogger(s.log))
	err := ix.Import(s.cfg.IndexPath())
	if err == nil {
		return ix, nil
	}

	s.log.LogWarn(fmt.Sprintf("Failed to import index, rebuilding: %v", err))
	if err := s.buildIndex(); err != nil {
		return nil, err
	}

	if err := ix.Import(s.cfg.IndexPath()); err != nil {
		return nil, fmt.Errorf("import rebuilt index: %w", err)
	}
	return ix, nil
}
