package board

import (
	"errors"
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/pin/pinreg"

	"github.com/muurk/gpiostatus/internal/pinout"
)

// ErrNoHeader is returned when no GPIO header is registered on this host.
var ErrNoHeader = errors.New("no GPIO header found")

// headerNames are the registry names of the main GPIO header, newest first.
var headerNames = []string{"J8", "P1"}

// DetectHeader reads the GPIO header geometry from the periph pin registry.
// host.Init must have been called.
func DetectHeader() (*pinout.Status, error) {
	all := pinreg.All()
	for _, name := range headerNames {
		if rows, ok := all[name]; ok {
			return convertHeader(rows)
		}
	}
	return nil, ErrNoHeader
}

// convertHeader lays out registry rows as a header status, numbering pins
// left to right, top to bottom.
func convertHeader(rows [][]pin.Pin) (*pinout.Status, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	cols := len(rows[0])
	status := &pinout.Status{Rows: len(rows), Columns: cols}
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d pins, row 0 has %d", pinout.ErrUnsupportedLayout, r+1, len(row), cols)
		}
		for c, p := range row {
			status.Pins = append(status.Pins, pinout.Pin{
				PhysicalName: r*cols + c + 1,
				Name:         pinName(p),
			})
		}
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}
	return status, nil
}

// pinName maps registry pins to header labels: "GPIO4", "GND", "5V", "3V3".
func pinName(p pin.Pin) string {
	switch p {
	case pin.GROUND:
		return pinout.NameGND
	case pin.V5, pin.DC_IN:
		return pinout.Name5V
	case pin.V3_3:
		return pinout.Name3V3
	}
	return p.Name()
}

// header40 is the J8 layout shared by every 40-pin board. The first 26 pins
// match the P1 header of the later 26-pin boards.
var header40 = []string{
	"3V3", "5V", "GPIO2", "5V", "GPIO3", "GND", "GPIO4", "GPIO14",
	"GND", "GPIO15", "GPIO17", "GPIO18", "GPIO27", "GND", "GPIO22", "GPIO23",
	"3V3", "GPIO24", "GPIO10", "GND", "GPIO9", "GPIO25", "GPIO11", "GPIO8",
	"GND", "GPIO7", "GPIO0", "GPIO1", "GPIO5", "GND", "GPIO6", "GPIO12",
	"GPIO13", "GND", "GPIO19", "GPIO16", "GPIO26", "GPIO20", "GND", "GPIO21",
}

// StandardHeader returns the 26 or 40 pin layout without consulting the
// registry. Used when the host is not a Raspberry Pi the registry knows.
func StandardHeader(pins int) (*pinout.Status, error) {
	if pins != 26 && pins != 40 {
		return nil, fmt.Errorf("%w: %d pin header", pinout.ErrUnsupportedLayout, pins)
	}
	status := &pinout.Status{Rows: pins / 2, Columns: 2}
	for i, name := range header40[:pins] {
		status.Pins = append(status.Pins, pinout.Pin{PhysicalName: i + 1, Name: name})
	}
	return status, nil
}

// ParseHeaderSize parses a --header flag value: "auto", "26" or "40".
func ParseHeaderSize(s string) (int, error) {
	if s == "" || s == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || (n != 26 && n != 40) {
		return 0, fmt.Errorf("header must be auto, 26 or 40, got %q", s)
	}
	return n, nil
}
