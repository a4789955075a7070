package cli

import (
	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

func newPresetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets", "pre"},
		Short:   "Manage the stored presets",
	}
	cmd.AddCommand(
		newPresetListCmd(app),
		newPresetGetCmd(app),
		newPresetSetCmd(app),
		newPresetNewCmd(app),
		newPresetDeleteCmd(app),
		newPresetLoadCmd(app),
	)
	return cmd
}

func newPresetListCmd(app *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the stored presets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := app.client.Presets(cmd.Context())
			if err != nil {
				return err
			}
			if f.asJSON {
				return app.writeJSON(f.outputFlags, presets)
			}
			return app.writeText(f.outputFlags, renderPresets(presets))
		},
	}
	addListFlags(cmd, &f)
	return cmd
}

func newPresetGetCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Dump one preset as JSON, or all with '*'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "*" {
				presets, err := app.client.Presets(cmd.Context())
				if err != nil {
					return err
				}
				return app.writeJSON(f, presets)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			preset, err := app.client.Preset(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, preset)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newPresetSetCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Replace a preset's state and commands from the input document",
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
			var update amplipi.PresetUpdate
			if err := decodeInput(raw, &update); err != nil {
				return err
			}
			status, err := app.client.SetPreset(cmd.Context(), id, update)
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

func newPresetNewCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "new",
		Aliases: []string{"make", "create"},
		Short:   "Store a preset from the input document",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := app.readInput(in)
			if err != nil {
				return err
			}
			var preset amplipi.Preset
			if err := decodeInput(raw, &preset); err != nil {
				return err
			}
			created, err := app.client.CreatePreset(cmd.Context(), preset)
			if err != nil {
				return err
			}
			return app.writeJSON(out, created)
		},
	}
	addInputFlags(cmd, &in)
	addOutputFlags(cmd, &out)
	return cmd
}

func newPresetDeleteCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := app.client.DeletePreset(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newPresetLoadCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "load ID",
		Short: "Apply a stored preset to the controller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := app.client.LoadPreset(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}
