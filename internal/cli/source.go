package cli

import (
	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

func newSourceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "source",
		Aliases: []string{"sources", "src"},
		Short:   "Configure the controller's input sources",
	}
	cmd.AddCommand(
		newSourceListCmd(app),
		newSourceGetCmd(app),
		newSourceSetCmd(app),
		newSourceImageCmd(app),
	)
	return cmd
}

func newSourceListCmd(app *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the input sources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := app.client.Sources(cmd.Context())
			if err != nil {
				return err
			}
			if f.asJSON {
				return app.writeJSON(f.outputFlags, sources)
			}
			return app.writeText(f.outputFlags, renderSources(sources))
		},
	}
	addListFlags(cmd, &f)
	return cmd
}

func newSourceGetCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Dump one source as JSON, or all with '*'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "*" {
				sources, err := app.client.Sources(cmd.Context())
				if err != nil {
					return err
				}
				return app.writeJSON(f, sources)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			source, err := app.client.Source(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, source)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

// newSourceImageCmd downloads album art. The result is raw image bytes, so
// it bypasses the JSON writer: --outfile saves the image, otherwise the
// bytes go to stdout for piping.
func newSourceImageCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "image ID HEIGHT",
		Short: "Download a source's album art scaled to HEIGHT pixels",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			height, err := parseID(args[1])
			if err != nil {
				return err
			}
			raw, err := app.client.SourceImage(cmd.Context(), id, height)
			if err != nil {
				return err
			}
			return app.writeBytes(f, raw)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newSourceSetCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Apply a partial source update from the input document",
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
			var update amplipi.SourceUpdate
			if err := decodeInput(raw, &update); err != nil {
				return err
			}
			status, err := app.client.SetSource(cmd.Context(), id, update)
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
