package tui

import (
	"github.com/JPM1118/cmredux/internal/notify"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	colorInfo   = lipgloss.Color("2")  // green
	colorWarn   = lipgloss.Color("3")  // yellow
	colorError  = lipgloss.Color("1")  // red
	colorHeader = lipgloss.Color("12") // bright blue
	colorMuted  = lipgloss.Color("8")  // dim
	colorCursor = lipgloss.Color("6")  // cyan

	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	subheaderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorCursor).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Bold(true)

	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Underline(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	notificationBarStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	busyStyle = lipgloss.NewStyle().
			Foreground(colorWarn).
			Bold(true)
)

// noticeStyle returns the style for a notice level.
func noticeStyle(l notify.Level) lipgloss.Style {
	switch l {
	case notify.LevelError:
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	case notify.LevelWarn:
		return lipgloss.NewStyle().Foreground(colorWarn)
	default:
		return lipgloss.NewStyle().Foreground(colorInfo)
	}
}
