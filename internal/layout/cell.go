// Package layout turns a pin header snapshot into display tables.
//
// Tables are built from structured cells rather than markup, so the same
// table can reach a browser (HTMLRenderer) or a terminal (internal/ui).
package layout

// Kind says how a cell is drawn.
type Kind int

const (
	KindText   Kind = iota // plain or styled text
	KindImage              // pin icon
	KindNote               // editable user note
	KindBanner             // single cell spanning the whole row
)

// Style is the CSS class attached to a text cell. The empty style is
// rendered without a wrapping span.
type Style string

const (
	StyleNone     Style = ""
	StylePhysical Style = "td_physical"
	StyleGND      Style = "td_gnd"
	Style5V       Style = "td_5v"
	Style3V3      Style = "td_3v3"
	StylePullUp   Style = "td_pull_up"
	StylePullDown Style = "td_pull_down"
	StyleHigh     Style = "td_high"
	StyleLow      Style = "td_low"
	StyleIn       Style = "td_in"
	StyleOut      Style = "td_out"
	StyleSPI      Style = "td_spi"
	StyleI2C      Style = "td_i2c"
	StyleNote     Style = "td_note"
)

// Image is the icon shown in front of a pin.
type Image string

const (
	ImageGPIO           Image = "GPIO"
	ImageGPIORestricted Image = "GPIO_NO" // GPIO0/1, reserved for the ID EEPROM
	ImageGND            Image = "GND"
	Image5V             Image = "5V"
	Image3V3            Image = "3V3"
)

// Cell is one table cell.
type Cell struct {
	Kind    Kind
	Text    string
	Style   Style
	Image   Image
	NotePin int // physical position the note belongs to
}

// Text returns an unstyled text cell.
func Text(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// Styled returns a text cell with a CSS class.
func Styled(s string, style Style) Cell {
	return Cell{Kind: KindText, Text: s, Style: style}
}

// Row is an ordered sequence of cells.
type Row []Cell

// Table is a list of rows ready to render.
type Table struct {
	Rows []Row
}

// Banner returns a one-cell table carrying a message, used while loading and
// after a failure.
func Banner(text string) Table {
	return Table{Rows: []Row{{{Kind: KindBanner, Text: text}}}}
}

// IsBanner reports whether t is a message table.
func (t Table) IsBanner() bool {
	return len(t.Rows) == 1 && len(t.Rows[0]) == 1 && t.Rows[0][0].Kind == KindBanner
}

// Width is the cell count of the widest row.
func (t Table) Width() int {
	w := 0
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}
