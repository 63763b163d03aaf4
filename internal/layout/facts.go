package layout

import (
	"strconv"
	"strings"

	"github.com/muurk/gpiostatus/internal/pinout"
)

// Region names one output field of the status page.
type Region string

const (
	RegionGPIOTable    Region = "gpio_table"
	RegionFuncsTable   Region = "funcs_table"
	RegionNotification Region = "notification"
	RegionUpdated      Region = "updated"
)

// Fact is a labelled value shown in its own region.
type Fact struct {
	Region Region
	Title  string
	Value  string
}

type serviceField struct {
	key   string
	title string
	get   func(*pinout.Services) bool
}

var serviceFields = []serviceField{
	{"camera", "Camera", func(s *pinout.Services) bool { return s.Camera }},
	{"ssh", "SSH", func(s *pinout.Services) bool { return s.SSH }},
	{"spi", "SPI", func(s *pinout.Services) bool { return s.SPI }},
	{"i2c", "I2C", func(s *pinout.Services) bool { return s.I2C }},
	{"serial", "Serial", func(s *pinout.Services) bool { return s.Serial }},
	{"serial_hw", "Serial hardware", func(s *pinout.Services) bool { return s.SerialHW }},
	{"one_wire", "1-Wire", func(s *pinout.Services) bool { return s.OneWire }},
	{"remote_gpio", "Remote GPIO", func(s *pinout.Services) bool { return s.RemoteGPIO }},
}

type hardwareField struct {
	key   string
	title string
	get   func(*pinout.Hardware) string
}

var hardwareFields = []hardwareField{
	{"model", "Model", func(h *pinout.Hardware) string { return h.Model }},
	{"revision", "Revision", func(h *pinout.Hardware) string { return h.Revision }},
	{"pcb_revision", "PCB revision", func(h *pinout.Hardware) string { return h.PCBRevision }},
	{"released", "Released", func(h *pinout.Hardware) string { return h.Released }},
	{"manufacturer", "Manufacturer", func(h *pinout.Hardware) string { return h.Manufacturer }},
	{"soc", "SoC", func(h *pinout.Hardware) string { return h.SoC }},
	{"storage", "Storage", func(h *pinout.Hardware) string { return h.Storage }},
	{"usb", "USB", func(h *pinout.Hardware) string { return Ports(h.USB) }},
	{"usb3", "USB 3", func(h *pinout.Hardware) string { return Ports(h.USB3) }},
	{"memory", "Memory", func(h *pinout.Hardware) string { return strconv.Itoa(h.Memory) + "MB" }},
	{"eth_speed", "Ethernet speed", func(h *pinout.Hardware) string { return strconv.Itoa(h.EthSpeed) + "Mbps" }},
	{"ethernet", "Ethernet", func(h *pinout.Hardware) string { return Ports(h.Ethernet) }},
	{"wifi", "WiFi", func(h *pinout.Hardware) string { return Availability(h.WiFi) }},
	{"bluetooth", "Bluetooth", func(h *pinout.Hardware) string { return Availability(h.Bluetooth) }},
	{"csi", "Camera connector", func(h *pinout.Hardware) string { return Availability(h.CSI > 0) }},
	{"dsi", "Display connector", func(h *pinout.Hardware) string { return Availability(h.DSI > 0) }},
}

// ServiceRegions lists the service label regions in display order.
func ServiceRegions() []Region {
	out := make([]Region, len(serviceFields))
	for i, f := range serviceFields {
		out[i] = Region("service_" + f.key)
	}
	return out
}

// HardwareRegions lists the hardware label regions in display order.
func HardwareRegions() []Region {
	out := make([]Region, len(hardwareFields))
	for i, f := range hardwareFields {
		out[i] = Region("hw_" + f.key)
	}
	return out
}

// Title returns the label shown next to a service or hardware region, or ""
// for any other region.
func Title(r Region) string {
	name := string(r)
	for _, f := range serviceFields {
		if name == "service_"+f.key {
			return f.title
		}
	}
	for _, f := range hardwareFields {
		if name == "hw_"+f.key {
			return f.title
		}
	}
	return ""
}

// ServiceFacts formats every service as enabled or disabled.
func ServiceFacts(s *pinout.Services) []Fact {
	out := make([]Fact, len(serviceFields))
	for i, f := range serviceFields {
		out[i] = Fact{Region: Region("service_" + f.key), Title: f.title, Value: ServiceLabel(f.get(s))}
	}
	return out
}

// HardwareFacts formats the static board facts.
func HardwareFacts(h *pinout.Hardware) []Fact {
	out := make([]Fact, len(hardwareFields))
	for i, f := range hardwareFields {
		out[i] = Fact{Region: Region("hw_" + f.key), Title: f.title, Value: f.get(h)}
	}
	return out
}

// ServiceLabel renders a service state.
func ServiceLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// Ports renders a port count ("1 port", "4 ports").
func Ports(n int) string {
	if n == 1 {
		return "1 port"
	}
	return strconv.Itoa(n) + " ports"
}

// Availability renders a feature flag.
func Availability(ok bool) string {
	if ok {
		return "Available"
	}
	return "Unavailable"
}

// MissingCommandsMessage is the plain text guidance for absent host tools.
// It is empty when every command is present.
func MissingCommandsMessage(c pinout.Commands) string {
	missing := c.Missing()
	switch len(missing) {
	case 0:
		return ""
	case 1:
		return "Command " + missing[0] + " not found. Please install it on the Raspberry Pi"
	}
	return "Commands " + strings.Join(missing, " and ") + " not found. Please install these two on the Raspberry Pi"
}
