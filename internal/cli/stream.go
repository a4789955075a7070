package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

func newStreamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stream",
		Aliases: []string{"streams", "str"},
		Short:   "Manage the available digital streams",
	}
	cmd.AddCommand(
		newStreamListCmd(app),
		newStreamGetCmd(app),
		newStreamSetCmd(app),
		newStreamNewCmd(app),
		newStreamDeleteCmd(app),
		newStreamOpCmd(app, "play", []string{"pl"}, "Start playback on a stream", app.clientPlayStream),
		newStreamOpCmd(app, "pause", []string{"ps"}, "Pause playback on a stream", app.clientPauseStream),
		newStreamOpCmd(app, "stop", []string{"st"}, "Stop playback on a stream", app.clientStopStream),
		newStreamOpCmd(app, "next", []string{"fwd"}, "Skip a stream to its next item", app.clientNextStream),
		newStreamOpCmd(app, "previous", []string{"prev", "back", "bwd"}, "Move a stream back to its previous item", app.clientPreviousStream),
		newStreamStationCmd(app),
	)
	return cmd
}

// app.client is nil until PersistentPreRunE runs, so the transport
// subcommands must resolve it at run time, not at tree construction.
func (a *App) clientPlayStream(ctx context.Context, id int) (*amplipi.Status, error) {
	return a.client.PlayStream(ctx, id)
}

func (a *App) clientPauseStream(ctx context.Context, id int) (*amplipi.Status, error) {
	return a.client.PauseStream(ctx, id)
}

func (a *App) clientStopStream(ctx context.Context, id int) (*amplipi.Status, error) {
	return a.client.StopStream(ctx, id)
}

func (a *App) clientNextStream(ctx context.Context, id int) (*amplipi.Status, error) {
	return a.client.NextStream(ctx, id)
}

func (a *App) clientPreviousStream(ctx context.Context, id int) (*amplipi.Status, error) {
	return a.client.PreviousStream(ctx, id)
}

func newStreamListCmd(app *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the configured streams",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			streams, err := app.client.Streams(cmd.Context())
			if err != nil {
				return err
			}
			if f.asJSON {
				return app.writeJSON(f.outputFlags, streams)
			}
			return app.writeText(f.outputFlags, renderStreams(streams))
		},
	}
	addListFlags(cmd, &f)
	return cmd
}

func newStreamGetCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Dump one stream as JSON, or all with '*'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "*" {
				streams, err := app.client.Streams(cmd.Context())
				if err != nil {
					return err
				}
				return app.writeJSON(f, streams)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			stream, err := app.client.Stream(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, stream)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newStreamSetCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Apply a partial stream update from the input document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, err := app.readInput(in)
			if err != nil {
				return err
			}
			var update amplipi.StreamUpdate
			if err := decodeInput(raw, &update); err != nil {
				return err
			}
			status, err := app.client.SetStream(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			return app.writeJSON(out, status)
		},
	}
	addInputFlags(cmd, &in)
	addOutputFlags(cmd, &out)
	return cmd
}

func newStreamNewCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "new",
		Aliases: []string{"make", "create"},
		Short:   "Create a stream from the input document",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := app.readInput(in)
			if err != nil {
				return err
			}
			var stream amplipi.Stream
			if err := decodeInput(raw, &stream); err != nil {
				return err
			}
			status, err := app.client.CreateStream(cmd.Context(), stream)
			if err != nil {
				return err
			}
			return app.writeJSON(out, status)
		},
	}
	addInputFlags(cmd, &in)
	addOutputFlags(cmd, &out)
	return cmd
}

func newStreamDeleteCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a stream",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := app.client.DeleteStream(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newStreamOpCmd(app *App, use string, aliases []string, short string, op func(context.Context, int) (*amplipi.Status, error)) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:     use + " ID",
		Aliases: aliases,
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := op(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newStreamStationCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "station ID STATION",
		Short: "Switch a stream to a different station",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			station, err := parseID(args[1])
			if err != nil {
				return err
			}
			status, err := app.client.ChangeStation(cmd.Context(), id, station)
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}
