package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/mergehint/cmd/ui"
	"github.com/utkarsh5026/mergehint/pkg/analyze"
	"github.com/utkarsh5026/mergehint/pkg/config"
	"github.com/utkarsh5026/mergehint/pkg/merge"
)

func newApplyCmd(s *session) *cobra.Command {
	var (
		dryRun bool
		stage  bool
		keep   string
	)

	cmd := &cobra.Command{
		Use:   "apply [<path>...]",
		Short: "Write back files whose conflicts can all be resolved",
		Long: `Replaces conflicts with their best suggestion. A file is only written
when every conflict in it has a textual suggestion at or above
--min-confidence; other files are left untouched. Line endings are kept.

With --keep, every conflict takes the given side (ours, theirs or base)
and no suggestions are computed.

Structured suggestions (packageJson, config) are re-encoded, so JSON keys
in the resolved block come out sorted alphabetically.

Examples:
  # Preview what would be written
  mergehint apply --dry-run

  # Apply only the safest suggestions and stage the files
  mergehint apply --min-confidence 0.95 --stage

  # Take their side everywhere in one file
  mergehint apply --keep theirs src/app.ts`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var side merge.Side
			if keep != "" {
				var err error
				if side, err = merge.ParseSide(keep); err != nil {
					return err
				}
			}

			paths, read, root, err := s.targets(ctx, args)
			if err != nil {
				return err
			}
			if stage && root == "" {
				return fmt.Errorf("--stage needs files from git, not explicit paths")
			}
			if len(paths) == 0 {
				return noConflicts(cmd)
			}

			out := cmd.OutOrStdout()
			var written []string
			emit := func(path string, resolved []byte) error {
				if dryRun {
					fmt.Fprintf(out, "%s %s\n%s\n", ui.Cyan("would write"), path, resolved)
					return nil
				}
				if err := writeFile(resolvePath(root, path), resolved); err != nil {
					return err
				}
				written = append(written, path)
				fmt.Fprintf(out, "%s %s\n", ui.Green(ui.IconCheck+" resolved"), path)
				return nil
			}
			skip := func(path, reason string) {
				fmt.Fprintf(out, "%s %s: %s\n", ui.Yellow("skip"), path, reason)
			}

			if keep != "" {
				for _, path := range paths {
					content, err := read(path)
					if err != nil {
						return fmt.Errorf("failed to read %s: %w", path, err)
					}
					if len(merge.Parse(content)) == 0 {
						continue
					}

					resolved, err := merge.KeepSide(content, side)
					if err != nil {
						skip(path, err.Error())
						continue
					}
					if err := emit(path, resolved); err != nil {
						return err
					}
				}
			} else {
				var contents sync.Map
				cachingRead := func(path string) ([]byte, error) {
					b, err := read(path)
					if err == nil {
						contents.Store(path, b)
					}
					return b, err
				}

				reports, err := s.analyzer.AnalyzeFiles(ctx, paths, cachingRead, s.cfg.Workers)
				if err != nil {
					return err
				}

				for _, report := range reports {
					if !report.HasConflicts() {
						continue
					}

					raw, _ := contents.Load(report.Path)
					resolved, reason := resolveFile(report, raw.([]byte), s.cfg.MinConfidence)
					if resolved == nil {
						skip(report.Path, reason)
						continue
					}
					if err := emit(report.Path, resolved); err != nil {
						return err
					}
				}
			}

			if stage && len(written) > 0 {
				if err := s.newRepo(root).Stage(ctx, written...); err != nil {
					return err
				}
				fmt.Fprintf(out, "Staged %d files.\n", len(written))
			}

			return nil
		},
	}

	cmd.Flags().Float64("min-confidence", config.Default().MinConfidence, "Lowest confidence that is applied")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resolved files instead of writing them")
	cmd.Flags().BoolVar(&stage, "stage", false, "Run git add on the files that were written")
	cmd.Flags().StringVar(&keep, "keep", "", "Resolve every conflict with one side: ours, theirs or base")

	return cmd
}

// resolveFile substitutes the best suggestion of every region. It returns
// nil and a reason when any region cannot be resolved at minConfidence.
func resolveFile(report analyze.FileReport, content []byte, minConfidence float64) ([]byte, string) {
	replacements := make(map[int][]string, len(report.Regions))
	regions := make([]*merge.Region, len(report.Regions))

	for i, region := range report.Regions {
		regions[i] = region.Region

		best, ok := region.Best()
		switch {
		case !ok || best.Strategy == analyze.ManualStrategy:
			return nil, fmt.Sprintf("conflict %d needs manual resolution", i+1)
		case !best.Resolved():
			return nil, fmt.Sprintf("conflict %d: %s", i+1, best.Explanation)
		case best.Confidence < minConfidence:
			return nil, fmt.Sprintf("conflict %d: %s confidence %.2f is below %.2f", i+1, best.Strategy, best.Confidence, minConfidence)
		}
		replacements[i] = best.Lines
	}

	lines, err := merge.Splice(merge.SplitLines(content), regions, replacements)
	if err != nil {
		return nil, err.Error()
	}
	return []byte(strings.Join(lines, merge.LineEnding(content))), ""
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write resolved file: %w", err)
	}
	return nil
}
