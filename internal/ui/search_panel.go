package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KKK12142/myskyapp/model"
)

// RenderSearchPanel draws the query line and the ranked result list.
// selected indexes into results; -1 means nothing highlighted.
func RenderSearchPanel(query string, results []model.CelestialObject, selected, width, maxRows int) string {
	var lines []string

	prompt := StyleLabel.Render("find: ") + StyleValue.Render(query) + StyleValue.Render("_")
	lines = append(lines, prompt, "")

	if len(results) == 0 {
		if len([]rune(strings.TrimSpace(query))) >= 2 {
			lines = append(lines, StyleResultDim.Render("no matches"))
		} else {
			lines = append(lines, StyleResultDim.Render("type at least 2 characters"))
		}
	}

	for i, obj := range results {
		if i >= maxRows {
			lines = append(lines, StyleResultDim.Render(fmt.Sprintf("  ... %d more", len(results)-maxRows)))
			break
		}
		lines = append(lines, renderResult(obj, i == selected, width))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func renderResult(obj model.CelestialObject, selected bool, width int) string {
	mag := "  -- "
	if obj.HasMagnitude {
		mag = fmt.Sprintf("%5.1f", obj.Magnitude)
	}
	kind := "star"
	if obj.IsSolarBody {
		kind = "body"
	}

	name := obj.DisplayName()
	maxName := width - 16
	if maxName > 0 && len([]rune(name)) > maxName {
		name = string([]rune(name)[:maxName-1]) + "…"
	}

	line := fmt.Sprintf(" %s %s  %-*s", mag, kind, maxName, name)
	if selected {
		return StyleResultSelected.Render("▸" + line)
	}
	return StyleResult.Render(" " + line)
}
