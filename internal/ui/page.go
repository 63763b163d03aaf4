package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/gpiostatus/internal/discovery"
	"github.com/muurk/gpiostatus/internal/layout"
	"github.com/muurk/gpiostatus/internal/pinout"
)

// Regions is the read side of a rendered status page. *refresh.Board
// implements it.
type Regions interface {
	Table(region layout.Region) (layout.Table, bool)
	Text(region layout.Region) string
	Notice() (pinout.Commands, bool)
}

// Page lays out every region of a status page for a terminal.
type Page struct {
	Source        Regions
	Width         int
	ShowFunctions bool
	ShowHardware  bool
}

// NewPage creates a page sized to the terminal with all sections shown.
func NewPage(src Regions) *Page {
	return &Page{Source: src, Width: GetTerminalWidth(), ShowFunctions: true, ShowHardware: true}
}

// Render returns the whole page.
func (p *Page) Render() string {
	width := ClampWidth(p.Width)
	var sections []string

	if notice := p.notice(width); notice != "" {
		sections = append(sections, notice)
	}

	sections = append(sections, p.section("GPIO", p.region(layout.RegionGPIOTable)))
	sections = append(sections, p.section("Services", p.facts(layout.ServiceRegions())))
	if p.ShowHardware {
		sections = append(sections, p.section("Hardware", p.facts(layout.HardwareRegions())))
	}
	if p.ShowFunctions {
		sections = append(sections, p.section("Alternate functions", p.region(layout.RegionFuncsTable)))
	}

	if updated := p.Source.Text(layout.RegionUpdated); updated != "" {
		sections = append(sections, "", UpdatedStyle.Render("Last updated: "+updated))
	}
	return strings.Join(sections, "\n")
}

// String implements fmt.Stringer
func (p *Page) String() string {
	return p.Render()
}

func (p *Page) notice(width int) string {
	if c, ok := p.Source.Notice(); ok {
		if msg := layout.MissingCommandsMessage(c); msg != "" {
			return NoticeBoxStyle(width).Render(WarningMarker + "  " + msg)
		}
	}
	return ""
}

func (p *Page) section(title, body string) string {
	if body == "" {
		body = BannerStyle.Render("-")
	}
	return lipgloss.JoinVertical(lipgloss.Left, SectionTitleStyle.Render(title), body)
}

// region draws a table region, or its text when it holds a message.
func (p *Page) region(r layout.Region) string {
	if t, ok := p.Source.Table(r); ok {
		return RenderTable(t)
	}
	if text := p.Source.Text(r); text != "" {
		return BannerStyle.Render(text)
	}
	return ""
}

func (p *Page) facts(regions []layout.Region) string {
	lines := make([]string, 0, len(regions))
	for _, r := range regions {
		value := p.Source.Text(r)
		if value == "" {
			continue
		}
		lines = append(lines, FactKeyStyle.Render("  "+layout.Title(r))+FactValueStyle.Render(value))
	}
	return strings.Join(lines, "\n")
}

// RenderHosts lists discovered status servers.
func RenderHosts(hosts []*discovery.Host) string {
	if len(hosts) == 0 {
		return BannerStyle.Render("No gpiostatus servers found")
	}
	lines := make([]string, 0, len(hosts))
	for _, h := range hosts {
		version := h.Version()
		if version == "" {
			version = "unknown"
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			lipgloss.NewStyle().Foreground(SuccessColor).Render("●"),
			HeaderParamValueStyle.Render(h.BaseURL()),
			HeaderCommandStyle.Render(fmt.Sprintf("%s, version %s", h.Instance, version)),
		))
	}
	return strings.Join(lines, "\n")
}
