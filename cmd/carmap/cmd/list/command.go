// Package list provides the vehicle listing command.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/cmdutil"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/internal/cmd/table"
	"github.com/agentstation/carmap/pkg/constants"
)

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.FilterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "search"},
		GroupID: "core",
		Short:   "List vehicles matching filters",
		Long: `List shows the vehicles in the catalog that match every filter given.

Filters combine with AND. Empty range flags are unbounded; text that is not
a number is ignored. Results keep catalog order unless --sort is set.`,
		Example: `  carmap list
  carmap list --make Toyota --type SUV
  carmap list -s "electric automatic" --sort price-asc
  carmap list --year-min 2021 --price-max 40000 -o wide
  carmap list --favorites -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := cmdutil.LoadClient(cmd.Context(), app)
			if err != nil {
				return err
			}

			criteria := flags.Criteria()
			app.Logger().Debug().
				Str("query", criteria.Values().Encode()).
				Msg("Listing vehicles")

			results, err := client.Browse(criteria)
			if err != nil {
				return err
			}
			if results.Count == 0 && output.DetectFormat(app.OutputFormat()).IsTable() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), constants.NoResultsMessage)
				return err
			}
			return cmdutil.Render(cmd, app, results, func(wide bool) output.Data {
				return table.CardsToTableData(results.Vehicles, wide)
			})
		},
	}

	flags = cmdutil.AddFilterFlags(cmd)
	return cmd
}
