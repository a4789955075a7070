package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

// newAnnounceCmd plays a one-shot PA announcement. Flag defaults come from
// the resolved configuration so a doorbell clip can live in .env or the TOML
// file and be triggered with a bare `amplictl announce`.
func newAnnounceCmd(app *App) *cobra.Command {
	var out outputFlags
	var (
		volF           float64
		vol            int
		sourceID       int
		zones, groups  []int
		timeoutSeconds int
	)
	cmd := &cobra.Command{
		Use:     "announce [URL]",
		Aliases: []string{"ann"},
		Short:   "Play a PA-style announcement",
		Long: `Play a one-shot announcement from a media URL. Without zones or groups the
device plays it everywhere. The URL, volume and source id fall back to the
configured announce defaults when omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := amplipi.Announcement{
				Media:    app.cfg.Announce.Media,
				VolF:     app.cfg.Announce.VolF,
				SourceID: app.cfg.Announce.SourceID,
				Zones:    zones,
				Groups:   groups,
			}
			if len(args) == 1 {
				a.Media = args[0]
			}
			if a.Media == "" {
				return fmt.Errorf("no media URL: pass one or configure an announce default")
			}
			if cmd.Flags().Changed("vol-f") {
				if volF < 0 || volF > 1 {
					return fmt.Errorf("bad --vol-f %v: want a float between 0 and 1", volF)
				}
				a.VolF = &volF
			}
			if cmd.Flags().Changed("vol") {
				a.Vol = &vol
			}
			if cmd.Flags().Changed("source-id") {
				a.SourceID = &sourceID
			}

			var timeout time.Duration
			if timeoutSeconds > 0 {
				timeout = time.Duration(timeoutSeconds) * time.Second
			}
			status, err := app.client.Announce(cmd.Context(), a, timeout)
			if err != nil {
				return err
			}
			return app.writeJSON(out, status)
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().Float64Var(&volF, "vol-f", 0, "announcement volume as a float between 0 and 1")
	cmd.Flags().IntVar(&vol, "vol", 0, "announcement volume in dB (-79..0)")
	cmd.Flags().IntVar(&sourceID, "source-id", 0, "source to play the announcement through")
	cmd.Flags().IntSliceVar(&zones, "zones", nil, "limit the announcement to these zone ids")
	cmd.Flags().IntSliceVar(&groups, "groups", nil, "limit the announcement to these group ids")
	// The local flag shadows the persistent --timeout/-t on this command;
	// it must carry the same shorthand or -t stops parsing here.
	cmd.Flags().IntVarP(&timeoutSeconds, "timeout", "t", 0, "seconds to wait for the clip to finish (overrides the client timeout)")
	return cmd
}

// newPlayCmd plays a media URL on one source without interrupting the others.
func newPlayCmd(app *App) *cobra.Command {
	var out outputFlags
	var (
		volF     float64
		sourceID int
	)
	cmd := &cobra.Command{
		Use:   "play URL",
		Short: "Play a media URL on a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			media := amplipi.PlayMedia{
				Media:    args[0],
				SourceID: app.cfg.Announce.SourceID,
			}
			if cmd.Flags().Changed("vol-f") {
				if volF < 0 || volF > 1 {
					return fmt.Errorf("bad --vol-f %v: want a float between 0 and 1", volF)
				}
				media.VolF = &volF
			}
			if cmd.Flags().Changed("source-id") {
				media.SourceID = &sourceID
			}
			status, err := app.client.PlayMedia(cmd.Context(), media)
			if err != nil {
				return err
			}
			return app.writeJSON(out, status)
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().Float64Var(&volF, "vol-f", 0, "playback volume as a float between 0 and 1")
	cmd.Flags().IntVar(&sourceID, "source-id", 0, "source to play the media through")
	return cmd
}
