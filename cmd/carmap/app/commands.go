package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/carmap/cmd/catalog"
	"github.com/agentstation/carmap/cmd/carmap/cmd/favorites"
	"github.com/agentstation/carmap/cmd/carmap/cmd/list"
	"github.com/agentstation/carmap/cmd/carmap/cmd/serve"
	"github.com/agentstation/carmap/cmd/carmap/cmd/show"
	"github.com/agentstation/carmap/internal/cmd/cmdutil"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(show.NewCommand(a))
	rootCmd.AddCommand(favorites.NewToggleCommand(a))
	rootCmd.AddCommand(favorites.NewCommand(a))

	// Catalog commands
	rootCmd.AddCommand(catalog.NewMakesCommand(a))
	rootCmd.AddCommand(catalog.NewTypesCommand(a))

	// Server commands
	rootCmd.AddCommand(serve.NewCommand(a))

	rootCmd.AddCommand(a.NewVersionCommand())
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := VersionInfo{
				Version:   a.version,
				Commit:    a.commit,
				Date:      a.date,
				BuiltBy:   a.builtBy,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			return cmdutil.Render(cmd, a, info, nil)
		},
	}
}
