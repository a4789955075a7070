package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homeaudio/amplictl/internal/amplipi"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	idStyle      = lipgloss.NewStyle().Faint(true)
	onStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func formatID(id *int) string {
	if id == nil {
		return idStyle.Render("-")
	}
	return idStyle.Render(fmt.Sprintf("%d", *id))
}

func renderSources(sources []amplipi.Source) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Sources"))
	b.WriteByte('\n')
	for _, s := range sources {
		playing := ""
		if s.Info != nil && s.Info.State == "playing" {
			playing = " " + onStyle.Render(nowPlaying(s.Info))
		}
		fmt.Fprintf(&b, "  %s  %-16s input=%s%s\n", formatID(s.ID), s.Name, s.Input, playing)
	}
	if len(sources) == 0 {
		b.WriteString(idStyle.Render("  (none)") + "\n")
	}
	return b.String()
}

func nowPlaying(info *amplipi.SourceInfo) string {
	switch {
	case info.Artist != "" && info.Track != "":
		return fmt.Sprintf("▶ %s - %s", info.Artist, info.Track)
	case info.Station != "":
		return "▶ " + info.Station
	default:
		return "▶ playing"
	}
}

func renderZones(zones []amplipi.Zone) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Zones"))
	b.WriteByte('\n')
	for _, z := range zones {
		state := onStyle.Render(fmt.Sprintf("vol=%d", z.Vol))
		if z.Mute {
			state = offStyle.Render("muted")
		}
		if z.Disabled {
			state = idStyle.Render("disabled")
		}
		fmt.Fprintf(&b, "  %s  %-16s source=%d %s\n", formatID(z.ID), z.Name, z.SourceID, state)
	}
	if len(zones) == 0 {
		b.WriteString(idStyle.Render("  (none)") + "\n")
	}
	return b.String()
}

func renderGroups(groups []amplipi.Group) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Groups"))
	b.WriteByte('\n')
	for _, g := range groups {
		zones := make([]string, 0, len(g.Zones))
		for _, id := range g.Zones {
			zones = append(zones, fmt.Sprintf("%d", id))
		}
		fmt.Fprintf(&b, "  %s  %-16s zones=[%s]\n", formatID(g.ID), g.Name, strings.Join(zones, ","))
	}
	if len(groups) == 0 {
		b.WriteString(idStyle.Render("  (none)") + "\n")
	}
	return b.String()
}

func renderStreams(streams []amplipi.Stream) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Streams"))
	b.WriteByte('\n')
	for _, s := range streams {
		fmt.Fprintf(&b, "  %s  %-16s type=%s\n", formatID(s.ID), s.Name, s.Type)
	}
	if len(streams) == 0 {
		b.WriteString(idStyle.Render("  (none)") + "\n")
	}
	return b.String()
}

func renderPresets(presets []amplipi.Preset) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Presets"))
	b.WriteByte('\n')
	for _, p := range presets {
		fmt.Fprintf(&b, "  %s  %s\n", formatID(p.ID), p.Name)
	}
	if len(presets) == 0 {
		b.WriteString(idStyle.Render("  (none)") + "\n")
	}
	return b.String()
}

// renderStatus produces the whole-controller overview for `status list`.
func renderStatus(status *amplipi.Status) string {
	sections := []string{
		renderSources(status.Sources),
		renderZones(status.Zones),
		renderGroups(status.Groups),
		renderStreams(status.Streams),
		renderPresets(status.Presets),
	}
	out := strings.Join(sections, "\n")
	if status.Info != nil {
		out += "\n" + idStyle.Render(fmt.Sprintf("controller %s (%s)", status.Info.Version, status.Info.ConfigFile)) + "\n"
	}
	return out
}
