package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/mergehint/pkg/analyze"
	"github.com/utkarsh5026/mergehint/pkg/config"
	"github.com/utkarsh5026/mergehint/pkg/logging"
	"github.com/utkarsh5026/mergehint/pkg/resolve"
	"github.com/utkarsh5026/mergehint/pkg/vcs"
	"go.uber.org/zap"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"workers":        config.KeyWorkers,
	"format":         config.KeyFormat,
	"log-level":      config.KeyLogLevel,
	"disable":        config.KeyDisabledStrategies,
	"preview-lines":  config.KeyPreviewLines,
	"min-confidence": config.KeyMinConfidence,
}

// session is what every subcommand works with once flags and config are read.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *resolve.Registry
	analyzer *analyze.Analyzer
	// newRepo opens the repository in a directory; replaced in tests
	newRepo func(dir string) *vcs.Repository
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&session{newRepo: vcs.Open})
}

func newRootCmdFor(s *session) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "mergehint",
		Short: "Suggest resolutions for merge conflicts",
		Long: `Scans files for conflict markers and proposes resolutions for each
conflict, with a confidence score, for you to accept or reject.

Without paths, the files git reports as unmerged are used.

Built-in strategies merge package.json dependencies, regenerate lock files,
merge changelogs, union import statements, keep the higher version string
and deep merge JSON, YAML and TOML configuration.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(cmd, configFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default .mergehint.yaml in the current or home directory)")
	cmd.PersistentFlags().Int("workers", config.Default().Workers, "Number of files analyzed in parallel")
	cmd.PersistentFlags().String("format", config.FormatText, "Output format: text or json")
	cmd.PersistentFlags().String("log-level", config.Default().LogLevel, "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringSlice("disable", nil, "Strategies to turn off")

	cmd.AddCommand(newAnalyzeCmd(s))
	cmd.AddCommand(newCheckCmd(s))
	cmd.AddCommand(newApplyCmd(s))
	cmd.AddCommand(newStrategiesCmd(s))

	return cmd
}

func (s *session) init(cmd *cobra.Command, configFile string) error {
	loader := config.NewLoader(configFile)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := loader.BindFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", zap.String("file", used))
	}

	registry, err := resolve.Default().Without(cfg.DisabledStrategies...)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.logger = logger
	s.registry = registry
	s.analyzer = analyze.New(registry, analyze.WithLogger(logger))
	return nil
}

// targets returns the files to work on and how to read them. Explicit paths
// are read as given; otherwise git is asked for the unmerged files and paths
// are relative to the repository root.
func (s *session) targets(ctx context.Context, args []string) ([]string, analyze.ReadFunc, string, error) {
	if len(args) > 0 {
		return args, os.ReadFile, "", nil
	}

	root, err := s.newRepo(".").Root(ctx)
	if err != nil {
		return nil, nil, "", err
	}

	repo := s.newRepo(root)
	files, err := repo.ConflictedFiles(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	s.logger.Debug("conflicted files from git", zap.String("root", root), zap.Int("count", len(files)))

	read := func(path string) ([]byte, error) {
		return os.ReadFile(repo.Path(path))
	}
	return files, read, root, nil
}

// resolvePath maps a reported path back to the file on disk.
func resolvePath(root, path string) string {
	if root == "" {
		return path
	}
	return filepath.Join(root, filepath.FromSlash(path))
}

func noConflicts(cmd *cobra.Command) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), "No merge conflicts detected.")
	return err
}
