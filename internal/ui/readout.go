package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/KKK12142/myskyapp/model"
)

// Readout is everything the numeric panel displays for one frame.
type Readout struct {
	Orientation *model.OrientationEstimate
	Pointing    *model.EquatorialCoordinate
	Target      *model.CelestialObject
	Bearing     *model.BearingResult
	Zone        string
	SkyTime     time.Time
	TimeOffset  time.Duration
}

// RenderReadout renders the numeric panel: device orientation, equatorial
// pointing, and target offsets when a target is selected.
func RenderReadout(r Readout, width int) string {
	var lines []string

	if r.Orientation != nil {
		lines = append(lines,
			row("AZ", fmt.Sprintf("%7.2f°", r.Orientation.AzimuthDeg)),
			row("ALT", fmt.Sprintf("%7.2f°", r.Orientation.AltitudeDeg)),
		)
	} else {
		lines = append(lines, StyleResultDim.Render("waiting for sensors..."))
	}

	if r.Pointing != nil {
		lines = append(lines,
			row("RA", formatRA(r.Pointing.RAHours)),
			row("DEC", formatDec(r.Pointing.DecDeg)),
		)
	}

	lines = append(lines, "")
	if r.Target != nil {
		lines = append(lines, row("TARGET", r.Target.DisplayName()))
		if r.Bearing != nil {
			lines = append(lines,
				row("ΔRA", fmt.Sprintf("%+7.2f°", r.Bearing.RAOffsetDeg)),
				row("ΔDEC", fmt.Sprintf("%+7.2f°", r.Bearing.DecOffsetDeg)),
				row("DIST", fmt.Sprintf("%7.2f°", r.Bearing.DistanceDeg)),
				row("ZONE", zoneBadge(r.Zone)),
			)
		}
	} else {
		lines = append(lines, StyleResultDim.Render("no target  (/ to search)"))
	}

	lines = append(lines, "", row("SKY", r.SkyTime.UTC().Format("15:04:05")))
	if r.TimeOffset != 0 {
		lines = append(lines, row("SHIFT", fmt.Sprintf("%+v", r.TimeOffset.Round(time.Minute))))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return StyleLabel.Render(fmt.Sprintf("%-7s", label)) + StyleValue.Render(value)
}

func zoneBadge(zone string) string {
	switch zone {
	case "aligned":
		return StyleZoneAligned.Render("ALIGNED")
	case "acquired":
		return StyleZoneAcquired.Render("ACQUIRED")
	default:
		return StyleZoneSearching.Render("searching")
	}
}

func formatRA(hours float64) string {
	h := int(hours)
	m := (hours - float64(h)) * 60
	return fmt.Sprintf("%02dh %04.1fm", h, m)
}

func formatDec(deg float64) string {
	sign := "+"
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	d := int(deg)
	m := (deg - float64(d)) * 60
	return fmt.Sprintf("%s%02d° %04.1f'", sign, d, m)
}

// RenderMenuBar draws the top key help line.
func RenderMenuBar(width int) string {
	help := "[/] search  [esc] back  [enter] select  [x] clear target  [,/.] sky time  [r] live  [q] quit"
	return StyleMenuBar.Width(width).Render(help)
}

// RenderStatusBar summarizes pipeline health at the bottom of the screen.
func RenderStatusBar(width int, source string, stars int, obs *model.Observer) string {
	loc := "no fix"
	if obs != nil {
		loc = fmt.Sprintf("%.3f°, %.3f°", obs.LatitudeDeg, obs.LongitudeDeg)
	}
	s := fmt.Sprintf("src:%s  stars:%d  obs:%s", source, stars, loc)
	return StyleStatusBar.Width(width).Render(s)
}
