package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

func newZoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zone",
		Aliases: []string{"zones", "zn"},
		Short:   "Configure the available output zones",
	}
	cmd.AddCommand(
		newZoneListCmd(app),
		newZoneGetCmd(app),
		newZoneSetCmd(app),
	)
	return cmd
}

func newZoneListCmd(app *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the output zones",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			zones, err := app.client.Zones(cmd.Context())
			if err != nil {
				return err
			}
			if f.asJSON {
				return app.writeJSON(f.outputFlags, zones)
			}
			return app.writeText(f.outputFlags, renderZones(zones))
		},
	}
	addListFlags(cmd, &f)
	return cmd
}

func newZoneGetCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Dump one zone as JSON, or all with '*'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "*" {
				zones, err := app.client.Zones(cmd.Context())
				if err != nil {
					return err
				}
				return app.writeJSON(f, zones)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			zone, err := app.client.Zone(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, zone)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

// newZoneSetCmd covers both the single-zone and multi-zone forms: with an ID
// argument the update patches one zone; with --zones / --groups it fans the
// same update across all of them in one request.
func newZoneSetCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	var zones, groups []int
	cmd := &cobra.Command{
		Use:   "set [ID]",
		Short: "Apply a partial zone update from the input document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := app.readInput(in)
			if err != nil {
				return err
			}
			var update amplipi.ZoneUpdate
			if err := decodeInput(raw, &update); err != nil {
				return err
			}

			if len(args) == 1 {
				if len(zones) > 0 || len(groups) > 0 {
					return fmt.Errorf("give either a zone ID or --zones/--groups, not both")
				}
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				status, err := app.client.SetZone(cmd.Context(), id, update)
				if err != nil {
					return err
				}
				return app.writeJSON(out, status)
			}

			if len(zones) == 0 && len(groups) == 0 {
				return fmt.Errorf("give a zone ID or at least one of --zones/--groups")
			}
			status, err := app.client.SetZones(cmd.Context(), amplipi.MultiZoneUpdate{
				Zones:  zones,
				Groups: groups,
				Update: update,
			})
			if err != nil {
				return err
			}
			return app.writeJSON(out, status)
		},
	}
	addInputFlags(cmd, &in)
	addOutputFlags(cmd, &out)
	cmd.Flags().IntSliceVar(&zones, "zones", nil, "apply the update to these zone ids")
	cmd.Flags().IntSliceVar(&groups, "groups", nil, "apply the update to these group ids")
	return cmd
}
