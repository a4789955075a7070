package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// listFlags extend outputFlags with the raw-JSON switch list verbs offer.
type listFlags struct {
	outputFlags
	asJSON bool
}

func addListFlags(cmd *cobra.Command, f *listFlags) {
	addOutputFlags(cmd, &f.outputFlags)
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "emit raw JSON instead of the overview")
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("bad id %q: want a non-negative integer", arg)
	}
	return id, nil
}

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"stat", "state"},
		Short:   "View or replace the controller status",
	}
	cmd.AddCommand(
		newStatusListCmd(app),
		newStatusGetCmd(app),
		newStatusSetCmd(app),
		newStatusInfoCmd(app),
	)
	return cmd
}

func newStatusListCmd(app *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show a whole-controller overview",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.client.Status(cmd.Context())
			if err != nil {
				return err
			}
			if f.asJSON {
				return app.writeJSON(f.outputFlags, status)
			}
			return app.writeText(f.outputFlags, renderStatus(status))
		},
	}
	addListFlags(cmd, &f)
	return cmd
}

func newStatusGetCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Dump the status document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.client.Status(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newStatusSetCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the controller configuration with the input document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := app.readInput(in)
			if err != nil {
				return err
			}
			status, err := app.client.LoadConfig(cmd.Context(), raw)
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

func newStatusInfoCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show controller settings and firmware version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.client.Info(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeJSON(f, info)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}
