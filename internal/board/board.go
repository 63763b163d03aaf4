// Package board identifies the Raspberry Pi the server runs on: its GPIO
// header layout and its static hardware facts.
package board

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/distro"

	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/pinout"
)

// Info is what the server needs to know about the board.
type Info struct {
	Header   *pinout.Status
	Hardware *pinout.Hardware
}

// Detect initializes periph and reads the header and hardware facts.
// headerSize forces a standard 26 or 40 pin layout; 0 asks the registry and
// falls back to 40 pins when the registry has no header.
func Detect(headerSize int) (*Info, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	info := &Info{}
	var err error
	if headerSize != 0 {
		info.Header, err = StandardHeader(headerSize)
	} else {
		info.Header, err = DetectHeader()
		if err == ErrNoHeader {
			logging.Warn("No GPIO header registered, assuming the 40-pin layout")
			info.Header, err = StandardHeader(40)
		}
	}
	if err != nil {
		return nil, err
	}

	info.Hardware = detectHardware()
	return info, nil
}

// detectHardware decodes /proc/cpuinfo's revision code. Unknown boards get
// the device tree model and nothing else.
func detectHardware() *pinout.Hardware {
	code := distro.CPUInfo()["Revision"]
	hw, err := DecodeRevision(code)
	if err == nil {
		return hw
	}

	logging.Warn("Cannot decode board revision", zap.String("revision", code), zap.Error(err))
	model := strings.TrimSpace(distro.DTModel())
	if model == "" {
		model = "Unknown"
	}
	return &pinout.Hardware{Revision: code, Model: model}
}
