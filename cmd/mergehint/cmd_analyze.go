package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/mergehint/cmd/ui"
	"github.com/utkarsh5026/mergehint/pkg/config"
)

func newAnalyzeCmd(s *session) *cobra.Command {
	var (
		showAll bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [<path>...]",
		Short: "Show conflicts and suggested resolutions",
		Long: `Lists every conflict in the given files, or in the files git reports
as unmerged, with a preview of both sides and the best suggestion.

Examples:
  # Analyze all unmerged files of the current repository
  mergehint analyze

  # Analyze specific files and show every candidate
  mergehint analyze --all package.json CHANGELOG.md

  # Machine readable output
  mergehint analyze --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			paths, read, _, err := s.targets(ctx, args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return noConflicts(cmd)
			}

			reports, readErr := s.analyzer.AnalyzeFiles(ctx, paths, read, s.cfg.Workers)
			if readErr != nil && len(reports) == 0 {
				return readErr
			}

			out := cmd.OutOrStdout()
			if s.cfg.Format == config.FormatJSON {
				if err := renderJSON(out, reports); err != nil {
					return err
				}
			} else {
				r := textRenderer{
					w:             out,
					previewLines:  s.cfg.PreviewLines,
					minConfidence: s.cfg.MinConfidence,
					showAll:       showAll,
					verbose:       verbose,
				}
				r.render(paths, reports)
			}

			if readErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Red(ui.IconCross+" some files could not be read"))
			}
			return readErr
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Show every candidate, not only the best one")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also show strategies that matched but failed")
	cmd.Flags().Int("preview-lines", config.Default().PreviewLines, "Lines of each side shown per conflict")

	return cmd
}
