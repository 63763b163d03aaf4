package layout

import (
	"strconv"
	"strings"

	"github.com/muurk/gpiostatus/internal/pinout"
)

// DefaultImageBase is where the plugin serves its pin icons.
const DefaultImageBase = "/plugin/gpiostatus/static/img/"

// NoteElementPrefix prefixes the DOM id of every note span.
const NoteElementPrefix = "gpiostatus-note-"

// HTMLRenderer renders tables as <tr>/<td> fragments. Cell content is not
// escaped: everything except note text is produced by this package, and
// notes come from the user's own settings.
type HTMLRenderer struct {
	ImageBase string
}

// NewHTMLRenderer returns a renderer using DefaultImageBase.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{ImageBase: DefaultImageBase}
}

// Render returns the table markup.
func (r *HTMLRenderer) Render(t Table) string {
	var b strings.Builder
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, c := range row {
			if c.Kind == KindBanner {
				b.WriteString("<td colspan='100%'>")
			} else {
				b.WriteString("<td>")
			}
			b.WriteString(r.Cell(c))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	return b.String()
}

// Cell returns the inner markup of a single cell.
func (r *HTMLRenderer) Cell(c Cell) string {
	switch c.Kind {
	case KindImage:
		return "<img src='" + r.ImageBase + string(c.Image) + ".png' class='td_img' alt='-'>"
	case KindNote:
		return "<span id='" + NoteElementPrefix + strconv.Itoa(c.NotePin) +
			"' class='" + string(StyleNote) + "' contenteditable='true'>" + c.Text + "</span>"
	}
	if c.Style == StyleNone {
		return c.Text
	}
	return WrapSpan(c.Text, c.Style)
}

// WrapSpan wraps text in a span with the given class.
func WrapSpan(text string, style Style) string {
	return "<span class='" + string(style) + "'>" + text + "</span>"
}

// MissingCommandsNotice is the HTML notification naming only the absent
// commands, or "" when nothing is missing.
func MissingCommandsNotice(c pinout.Commands) string {
	missing := c.Missing()
	switch len(missing) {
	case 0:
		return ""
	case 1:
		return "<h4>Command <i>" + missing[0] + "</i> not found. Please install this on the Raspberry</h4>"
	}
	return "<h4>Commands <i>" + missing[0] + "</i> and <i>" + missing[1] + "</i> not found. " +
		"Please install these two to the Raspberry</h4>"
}
