package cli

import (
	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups", "grp"},
		Short:   "Manage the output zone groups",
	}
	cmd.AddCommand(
		newGroupListCmd(app),
		newGroupGetCmd(app),
		newGroupSetCmd(app),
		newGroupNewCmd(app),
		newGroupDeleteCmd(app),
	)
	return cmd
}

func newGroupListCmd(app *App) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the zone groups",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app.client.Groups(cmd.Context())
			if err != nil {
				return err
			}
			if f.asJSON {
				return app.writeJSON(f.outputFlags, groups)
			}
			return app.writeText(f.outputFlags, renderGroups(groups))
		},
	}
	addListFlags(cmd, &f)
	return cmd
}

func newGroupGetCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Dump one group as JSON, or all with '*'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "*" {
				groups, err := app.client.Groups(cmd.Context())
				if err != nil {
					return err
				}
				return app.writeJSON(f, groups)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			group, err := app.client.Group(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, group)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}

func newGroupSetCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Apply a partial group update from the input document",
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
			var update amplipi.GroupUpdate
			if err := decodeInput(raw, &update); err != nil {
				return err
			}
			status, err := app.client.SetGroup(cmd.Context(), id, update)
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

func newGroupNewCmd(app *App) *cobra.Command {
	var in inputFlags
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "new",
		Aliases: []string{"make", "create"},
		Short:   "Create a group from the input document",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := app.readInput(in)
			if err != nil {
				return err
			}
			var group amplipi.Group
			if err := decodeInput(raw, &group); err != nil {
				return err
			}
			created, err := app.client.CreateGroup(cmd.Context(), group)
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

func newGroupDeleteCmd(app *App) *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a group",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := app.client.DeleteGroup(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.writeJSON(f, status)
		},
	}
	addOutputFlags(cmd, &f)
	return cmd
}
