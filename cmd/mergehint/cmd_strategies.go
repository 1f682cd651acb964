package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/utkarsh5026/mergehint/cmd/ui"
)

func newStrategiesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the resolution strategies in evaluation order",
		Long: `Lists the enabled resolution strategies. A strategy applies when its
pattern matches the file name or our side of a conflict. When two
strategies are equally confident, the one listed first wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("#", "Strategy", "Pattern", "Description")

			for i, st := range s.registry.Strategies() {
				table.Append(strconv.Itoa(i+1), ui.Magenta(st.Name), ui.Blue(st.Pattern.String()), st.Description)
			}

			return table.Render()
		},
	}

	return cmd
}
