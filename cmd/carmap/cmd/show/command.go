// Package show provides the vehicle detail command.
package show

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/cmdutil"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/internal/cmd/table"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// NewCommand creates the show command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		GroupID: "core",
		Short:   "Show the details of one vehicle",
		Example: `  carmap show 4
  carmap show 4 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.LoadClient(cmd.Context(), app)
			if err != nil {
				return err
			}
			detail, err := client.Detail(vehicles.ID(args[0]))
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, detail, func(bool) output.Data {
				return table.DetailToTableData(detail)
			})
		},
	}
}
