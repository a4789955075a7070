package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

func newSystemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Controller lifecycle operations",
	}
	cmd.AddCommand(
		newSystemOpCmd(app, "reset", "Restart the controller software", func(ctx context.Context) (*amplipi.Status, error) {
			return app.client.Reset(ctx)
		}),
		newSystemOpCmd(app, "reboot", "Reboot the controller hardware", func(ctx context.Context) (*amplipi.Status, error) {
			return app.client.Reboot(ctx)
		}),
		newSystemOpCmd(app, "shutdown", "Power the controller down", func(ctx context.Context) (*amplipi.Status, error) {
			return app.client.Shutdown(ctx)
		}),
		newSystemOpCmd(app, "factory-reset", "Restore the factory configuration", func(ctx context.Context) (*amplipi.Status, error) {
			return app.client.FactoryReset(ctx)
		}),
	)
	return cmd
}

func newSystemOpCmd(app *App, use, short string, op func(context.Context) (*amplipi.Status, error)) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := op(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}
