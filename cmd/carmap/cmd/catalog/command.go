// Package catalog provides commands that describe the loaded catalog.
package catalog

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/cmdutil"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/internal/cmd/table"
)

// NewMakesCommand creates the makes command.
func NewMakesCommand(app application.Application) *cobra.Command {
	return newListCommand(app, "makes", "List the distinct vehicle makes", "Make",
		func(c catalogLister) ([]string, error) { return c.Makes() })
}

// NewTypesCommand creates the types command.
func NewTypesCommand(app application.Application) *cobra.Command {
	return newListCommand(app, "types", "List the distinct body types", "Type",
		func(c catalogLister) ([]string, error) { return c.Types() })
}

type catalogLister interface {
	Makes() ([]string, error)
	Types() ([]string, error)
}

func newListCommand(app application.Application, use, short, header string, items func(catalogLister) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		GroupID: "catalog",
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := cmdutil.LoadClient(cmd.Context(), app)
			if err != nil {
				return err
			}
			values, err := items(client)
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, values, func(bool) output.Data {
				return table.ListToTableData(header, values)
			})
		},
	}
}
