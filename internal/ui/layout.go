package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, the two body panels side by side, and
// the status bar into the final frame.
func ComposeLayout(menuBar, left, right, statusBar string) string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, body, statusBar)
}
