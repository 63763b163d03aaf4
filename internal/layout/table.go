package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/view"
)

// ErrOddRowCount is returned when compact assembly gets an unpaired row.
var ErrOddRowCount = errors.New("compact view needs an even number of rows")

// Assemble joins rows into a table. In compact mode rows are merged in pairs:
// the first row reversed, followed by the second row as is.
func Assemble(rows []Row, compact bool) (Table, error) {
	if !compact {
		return Table{Rows: rows}, nil
	}
	if len(rows)%2 != 0 {
		return Table{}, fmt.Errorf("%w: got %d", ErrOddRowCount, len(rows))
	}

	merged := make([]Row, 0, len(rows)/2)
	for i := 0; i < len(rows); i += 2 {
		left, right := rows[i], rows[i+1]
		wide := make(Row, 0, len(left)+len(right))
		for j := len(left) - 1; j >= 0; j-- {
			wide = append(wide, left[j])
		}
		merged = append(merged, append(wide, right...))
	}
	return Table{Rows: merged}, nil
}

// BuildGPIOTable formats the pin header under opts. Options violating the
// compact rule are normalized first; notes maps physical positions to note
// text and is ignored unless notes are shown.
func BuildGPIOTable(status *pinout.Status, opts view.Options, notes map[int]string) (Table, error) {
	if err := status.Validate(); err != nil {
		return Table{}, err
	}
	opts, _ = opts.Normalize()

	pins := status.Pins
	if opts.OrderByName {
		pins = pinout.Order(pins)
	}

	rows := make([]Row, 0, len(pins))
	for _, pin := range pins {
		if !pin.IsBCM && opts.HideSpecialPins {
			continue
		}
		note := ""
		if opts.ShowNotes {
			note = notes[pin.PhysicalName]
		}
		rows = append(rows, FormatRow(pin, opts, note))
	}

	return Assemble(rows, opts.CompactView)
}

// BuildFunctionsTable lists the alternate functions of every BCM pin, one row
// per pin in GPIO number order.
func BuildFunctionsTable(pins []pinout.Pin) Table {
	type entry struct {
		n   int
		row Row
	}
	var entries []entry
	for _, pin := range pins {
		if !pin.IsBCM {
			continue
		}
		n, ok := pin.BCMNumber()
		if !ok {
			n = -1
		}
		row := make(Row, 0, len(pin.Funcs)+1)
		row = append(row, Text(pin.Name))
		for _, alt := range pin.Funcs {
			row = append(row, altCell(alt))
		}
		entries = append(entries, entry{n: n, row: row})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].n < entries[j].n })

	t := Table{Rows: make([]Row, len(entries))}
	for i, e := range entries {
		t.Rows[i] = e.row
	}
	return t
}

func altCell(alt string) Cell {
	switch {
	case strings.HasPrefix(alt, "SPI"):
		return Styled(alt, StyleSPI)
	case strings.HasPrefix(alt, "SDA1"), strings.HasPrefix(alt, "SCL1"):
		return Styled(alt, StyleI2C)
	}
	return Text(alt)
}
