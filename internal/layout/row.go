package layout

import (
	"strconv"

	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/view"
)

// FormatRow turns one pin into cells: image, physical position, note, then
// the name and status cells. Every pin formatted with the same options yields
// the same cell count.
func FormatRow(pin pinout.Pin, opts view.Options, note string) Row {
	row := make(Row, 0, 7)

	if !opts.HideImages {
		row = append(row, Cell{Kind: KindImage, Image: pinImage(pin)})
	}
	if !opts.HidePhysical {
		row = append(row, Styled(strconv.Itoa(pin.PhysicalName), StylePhysical))
	}
	if opts.ShowNotes {
		row = append(row, Cell{Kind: KindNote, Text: note, Style: StyleNote, NotePin: pin.PhysicalName})
	}

	if pin.IsBCM {
		return append(row,
			Text(pin.Name),
			funcCell(pin),
			pullCell(pin.Pull),
			levelCell(pin.CurrentValue),
		)
	}
	return append(row, specialNameCell(pin.Name), Text(""), Text(""), Text(""))
}

func pinImage(pin pinout.Pin) Image {
	if pin.IsBCM {
		if n, ok := pin.BCMNumber(); ok && n > 1 {
			return ImageGPIO
		}
		return ImageGPIORestricted
	}
	switch pin.Name {
	case pinout.NameGND:
		return ImageGND
	case pinout.Name5V:
		return Image5V
	default:
		return Image3V3
	}
}

func funcCell(pin pinout.Pin) Cell {
	switch pin.CurrentFunc {
	case pinout.FuncOutput:
		return Styled("OUT", StyleOut)
	case pinout.FuncInput:
		return Styled("IN", StyleIn)
	}
	if alt, ok := pin.AltFunction(); ok {
		return Text(alt)
	}
	// Function table not available, show the raw alt index.
	return Text(pin.CurrentFunc)
}

// pullCell treats anything that is not UP as DOWN.
func pullCell(pull string) Cell {
	if pull == pinout.PullUp {
		return Styled(pull, StylePullUp)
	}
	return Styled(pull, StylePullDown)
}

func levelCell(value int) Cell {
	if value == 1 {
		return Styled("HIGH", StyleHigh)
	}
	return Styled("LOW", StyleLow)
}

func specialNameCell(name string) Cell {
	switch name {
	case pinout.NameGND:
		return Styled(name, StyleGND)
	case pinout.Name5V:
		return Styled(name, Style5V)
	case pinout.Name3V3:
		return Styled(name, Style3V3)
	}
	return Text(name)
}
