package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/gpiostatus/internal/ui"
)

var (
	// SpinnerStyle colors the refresh spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor)

	// OptionStyle is for an enabled option toggle
	OptionStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			PaddingRight(2)

	// DisabledOptionStyle greys out toggles while controls are disabled
	DisabledOptionStyle = lipgloss.NewStyle().
				Foreground(ui.MutedColor).
				PaddingRight(2)

	OKTextStyle    = lipgloss.NewStyle().Foreground(ui.SuccessColor)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(ui.ErrorColor).Bold(true)
	MutedTextStyle = lipgloss.NewStyle().Foreground(ui.MutedColor)
)
