package app

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/internal/cmd/output"
)

// Execute runs the carmap CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "carmap",
		Short:   "Browse a vehicle catalog from the command line",
		Version: a.version,
		Long: `carmap browses a used-vehicle catalog: search and filter listings,
view details, and keep a persistent list of favorites.

The catalog comes from a URL, a local JSON or YAML file, or the built-in
sample. The same catalog can be served over HTTP with "carmap serve".`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "catalog", Title: "Catalog Commands:"},
		&cobra.Group{ID: "server", Title: "Server Commands:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.carmap.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("catalog", "", "catalog source: http(s) URL or .json/.yaml path (default: built-in sample)")
	flags.String("favorites-backend", "", "favorites storage: file, bolt, memory (default file)")
	flags.String("favorites-path", "", "favorites file or database path")
	flags.Duration("fetch-timeout", 0, "catalog fetch timeout (default 30s)")

	rootCmd.SetVersionTemplate("carmap {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand applies --config and any changed flags, then rebuilds the
// logger. Flags left at their defaults do not override config or env values.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfig(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		a.config.Verbose = mustGetBool(cmd, "verbose")
	}
	if flags.Changed("quiet") {
		a.config.Quiet = mustGetBool(cmd, "quiet")
	}
	if flags.Changed("no-color") {
		a.config.NoColor = mustGetBool(cmd, "no-color")
	}
	if flags.Changed("log-level") {
		a.config.LogLevel = mustGetString(cmd, "log-level")
	}
	if flags.Changed("catalog") {
		a.config.CatalogSource = mustGetString(cmd, "catalog")
	}
	if flags.Changed("favorites-backend") {
		a.config.FavoritesBackend = mustGetString(cmd, "favorites-backend")
	}
	if flags.Changed("favorites-path") {
		a.config.FavoritesPath = mustGetString(cmd, "favorites-path")
	}
	if flags.Changed("fetch-timeout") {
		a.config.FetchTimeout = mustGetDuration(cmd, "fetch-timeout")
	}
	if flags.Changed("format") {
		a.config.Format = mustGetString(cmd, "format")
	}
	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
