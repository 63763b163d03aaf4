package pinout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reserved values of Pin.CurrentFunc. Any other value is the decimal index of
// an alternate function in Pin.Funcs.
const (
	FuncInput  = "INPUT"
	FuncOutput = "OUTPUT"
)

// Pull directions reported by raspi-gpio.
const (
	PullUp   = "UP"
	PullDown = "DOWN"
)

// Special (non-BCM) pin names.
const (
	NameGND = "GND"
	Name5V  = "5V"
	Name3V3 = "3V3"
)

// CommandGPIOStatus is the only API command the status endpoint understands.
const CommandGPIOStatus = "gpio_status"

// bcmPrefix is the name prefix of every Broadcom-numbered pin.
const bcmPrefix = "GPIO"

// ErrUnsupportedLayout is returned for a header that is not a two-column grid.
var ErrUnsupportedLayout = errors.New("unsupported pin header layout")

// Pin is one physical header pin. It is immutable for the lifetime of a refresh.
type Pin struct {
	PhysicalName int      `json:"physical_name"`          // 1-based connector position
	Name         string   `json:"name"`                   // "GPIO4", "GND", "5V", "3V3"
	IsBCM        bool     `json:"is_bcm"`                 // true for GPIO pins
	CurrentFunc  string   `json:"current_func,omitempty"` // INPUT, OUTPUT or alt index
	Funcs        []string `json:"funcs,omitempty"`        // alt index -> function name
	Pull         string   `json:"pull,omitempty"`         // UP or DOWN
	CurrentValue int      `json:"current_value"`          // logic level, 0 or 1
}

// BCMNumber returns the numeric suffix of a BCM pin name ("GPIO12" -> 12).
// ok is false when the pin is not BCM or the suffix is not a number.
func (p Pin) BCMNumber() (int, bool) {
	if !p.IsBCM {
		return 0, false
	}
	return bcmNumber(p.Name)
}

func bcmNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, bcmPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(name[len(bcmPrefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// BCMName returns the pin label for a Broadcom GPIO number.
func BCMName(n int) string {
	return bcmPrefix + strconv.Itoa(n)
}

// AltFunction resolves CurrentFunc against Funcs. ok is false for INPUT and
// OUTPUT, or when the index is not present in Funcs.
func (p Pin) AltFunction() (string, bool) {
	idx, err := strconv.Atoi(p.CurrentFunc)
	if err != nil || idx < 0 || idx >= len(p.Funcs) {
		return "", false
	}
	return p.Funcs[idx], true
}

// Status is the pin header snapshot.
type Status struct {
	Rows    int   `json:"rows"`
	Columns int   `json:"columns"`
	Pins    []Pin `json:"pins"`
}

// Validate checks the header geometry invariant.
func (s *Status) Validate() error {
	if s.Columns != 2 {
		return fmt.Errorf("%w: col=%d row=%d", ErrUnsupportedLayout, s.Columns, s.Rows)
	}
	if len(s.Pins) != s.Rows*s.Columns {
		return fmt.Errorf("%w: %d pins for a %dx%d header", ErrUnsupportedLayout, len(s.Pins), s.Rows, s.Columns)
	}
	return nil
}

// Clone returns a deep copy, so a backup snapshot never aliases a live payload.
func (s *Status) Clone() *Status {
	if s == nil {
		return nil
	}
	out := &Status{Rows: s.Rows, Columns: s.Columns, Pins: make([]Pin, len(s.Pins))}
	for i, p := range s.Pins {
		if p.Funcs != nil {
			p.Funcs = append([]string(nil), p.Funcs...)
		}
		out.Pins[i] = p
	}
	return out
}

// Services reports which raspi-config interfaces are enabled.
type Services struct {
	Camera     bool `json:"camera"`
	SSH        bool `json:"ssh"`
	SPI        bool `json:"spi"`
	I2C        bool `json:"i2c"`
	Serial     bool `json:"serial"`
	SerialHW   bool `json:"serial_hw"`
	OneWire    bool `json:"one_wire"`
	RemoteGPIO bool `json:"remote_gpio"`
}

// Hardware holds the static board facts. They never change while the host runs.
type Hardware struct {
	Revision     string `json:"revision"`
	Model        string `json:"model"`
	PCBRevision  string `json:"pcb_revision"`
	Released     string `json:"released"`
	SoC          string `json:"soc"`
	Manufacturer string `json:"manufacturer"`
	Memory       int    `json:"memory"` // MB
	Storage      string `json:"storage"`
	USB          int    `json:"usb"`
	USB3         int    `json:"usb3"`
	Ethernet     int    `json:"ethernet"`
	EthSpeed     int    `json:"eth_speed"` // Mbps
	WiFi         bool   `json:"wifi"`
	Bluetooth    bool   `json:"bluetooth"`
	CSI          int    `json:"csi"`
	DSI          int    `json:"dsi"`
}

// Commands reports which host tools were found on the PATH.
type Commands struct {
	RaspiConfig bool `json:"raspi_config"`
	RaspiGPIO   bool `json:"raspi_gpio"`
}

// Available is true when every required command is installed.
func (c Commands) Available() bool {
	return c.RaspiConfig && c.RaspiGPIO
}

// Missing lists the executable names of the absent commands.
func (c Commands) Missing() []string {
	var missing []string
	if !c.RaspiConfig {
		missing = append(missing, "raspi-config")
	}
	if !c.RaspiGPIO {
		missing = append(missing, "raspi-gpio")
	}
	return missing
}

// Request is the body of a status fetch. HW and WantsFuncs let a viewer skip
// the static data it already has.
type Request struct {
	Command    string `json:"command"`
	HW         bool   `json:"hw"`
	WantsFuncs bool   `json:"wants_funcs"`
}

// NewRequest builds a gpio_status request.
func NewRequest(wantStatic bool) Request {
	return Request{Command: CommandGPIOStatus, HW: wantStatic, WantsFuncs: wantStatic}
}

// UnmarshalJSON defaults missing flags to true, so a bare {"command": ...}
// asks for everything.
func (r *Request) UnmarshalJSON(data []byte) error {
	type rawRequest Request
	raw := rawRequest{HW: true, WantsFuncs: true}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Request(raw)
	return nil
}

// Response is the status endpoint reply. When a command is missing only
// Commands is populated.
type Response struct {
	Commands Commands  `json:"commands"`
	Status   *Status   `json:"status,omitempty"`
	Services *Services `json:"services,omitempty"`
	Hardware *Hardware `json:"hardware,omitempty"`
}
