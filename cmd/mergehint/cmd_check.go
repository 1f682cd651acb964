package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/mergehint/cmd/ui"
	"github.com/utkarsh5026/mergehint/pkg/merge"
)

func newCheckCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [<path>...]",
		Short: "Fail if files still contain conflict markers",
		Long: `Checks files for leftover conflict markers and exits with an error if
any are found. Useful as a pre-commit hook.

Examples:
  # Check the unmerged files of the current repository
  mergehint check

  # Check specific files
  mergehint check src/app.ts package.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, read, _, err := s.targets(context.Background(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dirty := 0
			for _, path := range paths {
				content, err := read(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}

				if !merge.HasConflictMarkers(content) {
					fmt.Fprintf(out, "%s %s\n", ui.Green(ui.IconCheck), path)
					continue
				}

				dirty++
				if n := len(merge.Parse(content)); n > 0 {
					fmt.Fprintf(out, "%s %s (%d conflicts)\n", ui.Red(ui.IconCross), path, n)
				} else {
					fmt.Fprintf(out, "%s %s (unterminated conflict markers)\n", ui.Red(ui.IconCross), path)
				}
			}

			if dirty > 0 {
				return fmt.Errorf("%d of %d files still contain conflict markers", dirty, len(paths))
			}
			return nil
		},
	}

	return cmd
}
