// Package favorites provides the favorite toggle and listing commands.
package favorites

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/cmdutil"
	"github.com/agentstation/carmap/internal/cmd/emoji"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/internal/cmd/table"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Toggle is the result of a favorite toggle.
type Toggle struct {
	ID       vehicles.ID `json:"id" yaml:"id"`
	Favorite bool        `json:"favorite" yaml:"favorite"`
	Count    int         `json:"count" yaml:"count"`
}

// List is the favorites listing.
type List struct {
	IDs   []vehicles.ID `json:"ids" yaml:"ids"`
	Count int           `json:"count" yaml:"count"`
}

// NewToggleCommand creates the favorite command, which flips one vehicle's
// membership in the persisted favorites.
func NewToggleCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <id>",
		Aliases: []string{"fav", "toggle"},
		GroupID: "core",
		Short:   "Toggle a vehicle in favorites",
		Example: `  carmap favorite 4`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.LoadClient(cmd.Context(), app)
			if err != nil {
				return err
			}
			id := vehicles.ID(args[0])
			favorite, err := client.ToggleFavorite(id)
			if err != nil {
				return err
			}
			result := Toggle{ID: id, Favorite: favorite, Count: client.FavoritesCount()}

			if !output.DetectFormat(app.OutputFormat()).IsTable() {
				return cmdutil.Render(cmd, app, result, nil)
			}
			mark, verb := emoji.Star, "added to"
			if !favorite {
				mark, verb = emoji.EmptyStar, "removed from"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s Vehicle %s %s favorites (%d total)\n", mark, id, verb, result.Count)
			return err
		},
	}
}

// NewCommand creates the favorites listing command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "favorites",
		GroupID: "core",
		Short:   "List favorited vehicles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := cmdutil.LoadClient(cmd.Context(), app)
			if err != nil {
				return err
			}

			ids := client.Favorites()
			titles := make(map[vehicles.ID]string, len(ids))
			for _, id := range ids {
				// Favorites may name vehicles no longer in the catalog.
				if v, err := client.Vehicle(id); err == nil {
					titles[id] = v.Title()
				}
			}

			list := List{IDs: ids, Count: len(ids)}
			if list.IDs == nil {
				list.IDs = []vehicles.ID{}
			}
			return cmdutil.Render(cmd, app, list, func(bool) output.Data {
				return table.FavoritesToTableData(ids, titles)
			})
		},
	}
}
