package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/gpiostatus/internal/pinout"
)

// ErrUnknownRevision is returned for revision codes that cannot be decoded:
// old-style codes, or new-style codes naming an unknown board type.
var ErrUnknownRevision = errors.New("unknown board revision")

// newStyleFlag marks the bit-field revision encoding used since the Pi 2.
const newStyleFlag = 1 << 23

var manufacturers = map[int]string{
	0: "Sony UK",
	1: "Egoman",
	2: "Embest",
	3: "Sony Japan",
	4: "Embest",
	5: "Stadium",
}

var processors = map[int]string{
	0: "BCM2835",
	1: "BCM2836",
	2: "BCM2837",
	3: "BCM2711",
	4: "BCM2712",
}

// modelFacts are the fixed features of one board type.
type modelFacts struct {
	model     string
	released  string
	storage   string
	usb       int
	usb3      int
	ethernet  int
	ethSpeed  int
	wifi      bool
	bluetooth bool
	csi       int
	dsi       int
}

var models = map[int]modelFacts{
	0x00: {"A", "2013Q1", "SD", 1, 0, 0, 0, false, false, 1, 1},
	0x01: {"B", "2012Q1", "SD", 2, 0, 1, 100, false, false, 1, 1},
	0x02: {"A+", "2014Q4", "MicroSD", 1, 0, 0, 0, false, false, 1, 1},
	0x03: {"B+", "2014Q3", "MicroSD", 4, 0, 1, 100, false, false, 1, 1},
	0x04: {"2B", "2015Q1", "MicroSD", 4, 0, 1, 100, false, false, 1, 1},
	0x06: {"CM", "2014Q2", "eMMC", 1, 0, 0, 0, false, false, 2, 2},
	0x08: {"3B", "2016Q1", "MicroSD", 4, 0, 1, 100, true, true, 1, 1},
	0x09: {"Zero", "2015Q4", "MicroSD", 1, 0, 0, 0, false, false, 1, 0},
	0x0a: {"CM3", "2017Q1", "eMMC", 1, 0, 0, 0, false, false, 2, 2},
	0x0c: {"Zero W", "2017Q1", "MicroSD", 1, 0, 0, 0, true, true, 1, 0},
	0x0d: {"3B+", "2018Q1", "MicroSD", 4, 0, 1, 300, true, true, 1, 1},
	0x0e: {"3A+", "2018Q4", "MicroSD", 1, 0, 0, 0, true, true, 1, 1},
	0x10: {"CM3+", "2019Q1", "MicroSD / eMMC", 1, 0, 0, 0, false, false, 2, 2},
	0x11: {"4B", "2019Q2", "MicroSD", 4, 2, 1, 1000, true, true, 1, 1},
	0x12: {"Zero 2 W", "2021Q4", "MicroSD", 1, 0, 0, 0, true, true, 1, 0},
	0x13: {"400", "2020Q4", "MicroSD", 3, 2, 1, 1000, true, true, 0, 0},
	0x14: {"CM4", "2020Q4", "MicroSD / eMMC", 2, 0, 1, 1000, true, true, 2, 2},
	0x17: {"5B", "2023Q4", "MicroSD", 4, 2, 1, 1000, true, true, 2, 2},
}

// DecodeRevision expands a new-style revision code ("a020d3", "0xc03111")
// into the board facts.
//
// Bit layout: NOQu uuWu FMMM CCCC PPPP TTTT TTTT RRRR, where F flags the
// new style, MMM is the memory size, CCCC the maker, PPPP the SoC, T the
// board type and R the PCB revision.
func DecodeRevision(code string) (*pinout.Hardware, error) {
	clean := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(code)), "0x")
	v, err := strconv.ParseUint(clean, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRevision, code)
	}
	rev := int(v)
	if rev&newStyleFlag == 0 {
		return nil, fmt.Errorf("%w: old-style code %q", ErrUnknownRevision, code)
	}

	facts, ok := models[(rev>>4)&0xff]
	if !ok {
		return nil, fmt.Errorf("%w: board type 0x%x in %q", ErrUnknownRevision, (rev>>4)&0xff, code)
	}

	manufacturer, ok := manufacturers[(rev>>16)&0xf]
	if !ok {
		manufacturer = "Unknown"
	}
	soc, ok := processors[(rev>>12)&0xf]
	if !ok {
		soc = "Unknown"
	}

	return &pinout.Hardware{
		Revision:     clean,
		Model:        facts.model,
		PCBRevision:  "1." + strconv.Itoa(rev&0xf),
		Released:     facts.released,
		SoC:          soc,
		Manufacturer: manufacturer,
		Memory:       256 << ((rev >> 20) & 7),
		Storage:      facts.storage,
		USB:          facts.usb,
		USB3:         facts.usb3,
		Ethernet:     facts.ethernet,
		EthSpeed:     facts.ethSpeed,
		WiFi:         facts.wifi,
		Bluetooth:    facts.bluetooth,
		CSI:          facts.csi,
		DSI:          facts.dsi,
	}, nil
}
