package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPointer draws the guidance dial: a ring representing the offset
// plane around the target, with an arrow showing which way to swing the
// device. direction is degrees counterclockwise from +RA (east);
// distance is degrees of separation, aligned/acquired pick the ring color.
func RenderPointer(width, height int, direction, distance float64, zone string) string {
	if width < 11 || height < 7 {
		return ""
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	fcx := float64(width) / 2
	fcy := float64(height) / 2
	rx := fcx - 2
	ry := fcy - 1.5
	if rx < 3 {
		rx = 3
	}
	if ry < 2 {
		ry = 2
	}

	for i := 0; i < 72; i++ {
		a := float64(i) * 2 * math.Pi / 72
		col := int(math.Round(fcx + rx*math.Cos(a)))
		row := int(math.Round(fcy - ry*math.Sin(a)))
		put(grid, col, row, '·')
	}

	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))

	// Offset-plane axes: +RA to the right, +Dec up.
	put(grid, cx+int(math.Round(rx))+1, cy, 'E')
	put(grid, cx-int(math.Round(rx))-1, cy, 'W')
	put(grid, cx, cy-int(math.Round(ry))-1, '+')
	put(grid, cx, cy+int(math.Round(ry))+1, '-')

	if zone == "aligned" {
		put(grid, cx, cy, '◎')
	} else {
		put(grid, cx, cy, '+')
		drawArrow(grid, fcx, fcy, rx, ry, direction, distance)
	}

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}

	style := StyleZoneSearching
	switch zone {
	case "aligned":
		style = StyleZoneAligned
	case "acquired":
		style = StyleZoneAcquired
	}
	return style.Render(b.String())
}

func drawArrow(grid [][]rune, fcx, fcy, rx, ry, direction, distance float64) {
	a := direction * math.Pi / 180

	// Farther targets push the arrow tip to the rim.
	frac := 0.35 + 0.6*math.Min(distance/90, 1)
	steps := int(math.Max(rx, ry))
	for i := 1; i <= steps; i++ {
		f := frac * float64(i) / float64(steps)
		col := int(math.Round(fcx + rx*f*math.Cos(a)))
		row := int(math.Round(fcy - ry*f*math.Sin(a)))
		ch := '•'
		if i == steps {
			ch = arrowHead(a)
		}
		put(grid, col, row, ch)
	}
}

func arrowHead(a float64) rune {
	deg := math.Mod(a*180/math.Pi+360, 360)
	switch {
	case deg < 22.5 || deg >= 337.5:
		return '→'
	case deg < 67.5:
		return '↗'
	case deg < 112.5:
		return '↑'
	case deg < 157.5:
		return '↖'
	case deg < 202.5:
		return '←'
	case deg < 247.5:
		return '↙'
	case deg < 292.5:
		return '↓'
	default:
		return '↘'
	}
}

func put(grid [][]rune, col, row int, ch rune) {
	if row < 0 || row >= len(grid) {
		return
	}
	if col < 0 || col >= len(grid[row]) {
		return
	}
	grid[row][col] = ch
}

// FramePanel wraps content in the standard panel chrome with a title.
func FramePanel(title, content string, width, height int, focused bool) string {
	style := StylePanel
	if focused {
		style = StylePanelFocus
	}
	inner := lipgloss.JoinVertical(lipgloss.Left,
		StylePanelTitle.Render(title),
		content,
	)
	return style.Width(width - 2).Height(height - 2).Render(inner)
}
