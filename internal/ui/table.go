package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/gpiostatus/internal/layout"
)

// RenderTable draws a layout table as a bordered terminal grid. A banner
// table comes out as a single styled line and an empty table as "".
func RenderTable(t layout.Table) string {
	if t.IsBanner() {
		return BannerStyle.Render(t.Rows[0][0].Text)
	}
	width := t.Width()
	if width == 0 {
		return ""
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		cells := make([]string, width)
		for i, c := range r {
			cells[i] = RenderCell(c)
		}
		rows = append(rows, cells)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style { return TableCellStyle }).
		Rows(rows...).
		Render()
}

// RenderCell draws one cell without its padding.
func RenderCell(c layout.Cell) string {
	switch c.Kind {
	case layout.KindImage:
		if g, ok := pinGlyphs[c.Image]; ok {
			return g
		}
		return " "
	case layout.KindBanner:
		return BannerStyle.Render(c.Text)
	}
	if c.Text == "" {
		return ""
	}
	if style, ok := cellStyles[c.Style]; ok {
		return style.Render(c.Text)
	}
	return c.Text
}
