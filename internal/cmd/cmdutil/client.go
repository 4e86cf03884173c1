package cmdutil

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/pkg/constants"
)

// LoadClient returns app's client with the catalog loaded. A failed load
// is reported with the user-facing load failure message.
func LoadClient(ctx context.Context, app application.Application) (carmap.Client, error) {
	client, err := app.Client()
	if err != nil {
		return nil, err
	}
	if err := client.Load(ctx); err != nil {
		return nil, fmt.Errorf("%s %w", constants.LoadFailedMessage, err)
	}
	return client, nil
}

// Render writes data to cmd's output in app's format. Table formats render
// the result of asTable, which receives whether the wide format was asked for.
func Render(cmd *cobra.Command, app application.Application, data any, asTable func(wide bool) output.Data) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	var v any = data
	if asTable != nil && format.IsTable() {
		v = asTable(format == output.FormatWide)
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), v)
}
