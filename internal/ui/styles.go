package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/gpiostatus/internal/layout"
)

// Color palette for terminal output
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, HIGH, pull up
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, 5V
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, 3V3, outputs
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content

	// Pin function colors
	InputColor = lipgloss.Color("#5FAFFF") // Blue
	SPIColor   = lipgloss.Color("#FF8B94") // Pink
	I2CColor   = lipgloss.Color("#D7AF5F") // Sand
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultPadding   = 2   // Default padding inside boxes
)

// Shared styles
var (
	// HeaderTitleStyle is for the main title (e.g., "GPIO STATUS")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the command path (e.g., "gpiostatus show")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Server:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for parameter values
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// SectionTitleStyle is for the heading above each page section
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				MarginTop(1)

	// FactKeyStyle is for service and hardware labels
	FactKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(20)

	// FactValueStyle is for service and hardware values
	FactValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// BannerStyle is for loading and failure messages in place of a table
	BannerStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			PaddingLeft(2)

	// UpdatedStyle is for the last-updated line
	UpdatedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// TroubleshootingTitleStyle is for "Troubleshooting:" headers
	TroubleshootingTitleStyle = lipgloss.NewStyle().
					Foreground(MutedColor).
					Bold(true)

	// TroubleshootingItemStyle is for troubleshooting bullet points
	TroubleshootingItemStyle = lipgloss.NewStyle().
					Foreground(MutedColor)

	// TableBorderStyle colors the pin table grid
	TableBorderStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// TableCellStyle pads every pin table cell
	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// cellStyles maps a table cell class to its terminal rendering.
var cellStyles = map[layout.Style]lipgloss.Style{
	layout.StylePhysical: lipgloss.NewStyle().Bold(true),
	layout.StyleGND:      lipgloss.NewStyle().Foreground(MutedColor).Bold(true),
	layout.Style5V:       lipgloss.NewStyle().Foreground(ErrorColor).Bold(true),
	layout.Style3V3:      lipgloss.NewStyle().Foreground(WarningColor).Bold(true),
	layout.StylePullUp:   lipgloss.NewStyle().Foreground(SuccessColor),
	layout.StylePullDown: lipgloss.NewStyle().Foreground(MutedColor),
	layout.StyleHigh:     lipgloss.NewStyle().Foreground(SuccessColor).Bold(true),
	layout.StyleLow:      lipgloss.NewStyle().Foreground(MutedColor),
	layout.StyleIn:       lipgloss.NewStyle().Foreground(InputColor),
	layout.StyleOut:      lipgloss.NewStyle().Foreground(WarningColor),
	layout.StyleSPI:      lipgloss.NewStyle().Foreground(SPIColor),
	layout.StyleI2C:      lipgloss.NewStyle().Foreground(I2CColor),
	layout.StyleNote:     lipgloss.NewStyle().Foreground(TextColor).Italic(true),
}

// Pin icons drawn in the image column
var pinGlyphs = map[layout.Image]string{
	layout.ImageGPIO:           lipgloss.NewStyle().Foreground(PrimaryColor).Render("●"),
	layout.ImageGPIORestricted: lipgloss.NewStyle().Foreground(MutedColor).Render("○"),
	layout.ImageGND:            lipgloss.NewStyle().Foreground(MutedColor).Render("■"),
	layout.Image5V:             lipgloss.NewStyle().Foreground(ErrorColor).Render("▲"),
	layout.Image3V3:            lipgloss.NewStyle().Foreground(WarningColor).Render("△"),
}

// Result markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// GetTerminalSize returns the current terminal width and height
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24 // Default fallback
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}
	return width, height
}

// ClampWidth keeps a requested width inside the supported range.
func ClampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// NoticeBoxStyle returns the border style for the missing commands notice
func NoticeBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(WarningColor).
		Foreground(WarningColor).
		Width(width-2).
		Padding(0, 1)
}

// TroubleshootingBoxStyle returns the border style for troubleshooting sections
func TroubleshootingBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(width).
		Padding(0, 1).
		MarginLeft(3)
}
