package ui

import "github.com/charmbracelet/lipgloss"

// Night-vision palette: deep reds and ambers preserve dark adaptation.
var (
	ColorAmber       = lipgloss.Color("#FFB000")
	ColorAmberDim    = lipgloss.Color("#8A5E00")
	ColorRed         = lipgloss.Color("#FF4444")
	ColorRedDim      = lipgloss.Color("#802222")
	ColorWhite       = lipgloss.Color("#E8E8E8")
	ColorGrey        = lipgloss.Color("#777777")
	ColorAligned     = lipgloss.Color("#44FF88")
	ColorAcquired    = lipgloss.Color("#FFD24D")
	ColorBorder      = lipgloss.Color("#5C4300")
	ColorBorderFocus = lipgloss.Color("#FFB000")
)

var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1A1200")).
			Foreground(ColorAmber).
			Bold(true).
			Padding(0, 1)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1A1200")).
			Foreground(ColorAmberDim).
			Padding(0, 1)

	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePanelFocus = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderFocus)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorAmber).
			Bold(true)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorAmberDim)

	StyleZoneAligned = lipgloss.NewStyle().
				Foreground(ColorAligned).
				Bold(true)

	StyleZoneAcquired = lipgloss.NewStyle().
				Foreground(ColorAcquired).
				Bold(true)

	StyleZoneSearching = lipgloss.NewStyle().
				Foreground(ColorGrey)

	StyleResultSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("#332200")).
				Foreground(ColorAmber).
				Bold(true)

	StyleResult = lipgloss.NewStyle().
			Foreground(ColorWhite)

	StyleResultDim = lipgloss.NewStyle().
			Foreground(ColorGrey)
)
