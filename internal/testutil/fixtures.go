// Package testutil provides fixtures and mocks shared by gpiostatus tests.
package testutil

import (
	"sort"
	"strconv"

	"github.com/muurk/gpiostatus/internal/pinout"
)

// HeaderNames40 is the J8 header of every 40-pin Raspberry Pi, in physical order.
var HeaderNames40 = []string{
	"3V3", "5V",
	"GPIO2", "5V",
	"GPIO3", "GND",
	"GPIO4", "GPIO14",
	"GND", "GPIO15",
	"GPIO17", "GPIO18",
	"GPIO27", "GND",
	"GPIO22", "GPIO23",
	"3V3", "GPIO24",
	"GPIO10", "GND",
	"GPIO9", "GPIO25",
	"GPIO11", "GPIO8",
	"GND", "GPIO7",
	"GPIO0", "GPIO1",
	"GPIO5", "GND",
	"GPIO6", "GPIO12",
	"GPIO13", "GND",
	"GPIO19", "GPIO16",
	"GPIO26", "GPIO20",
	"GND", "GPIO21",
}

// AltFuncs maps BCM numbers 0-27 to their ALT0..ALT5 functions (BCM2711).
var AltFuncs = map[int][]string{
	0:  {"SDA0", "SA5", "PCLK", "SPI3_CE0_N", "TXD2", "SDA6"},
	1:  {"SCL0", "SA4", "DE", "SPI3_MISO", "RXD2", "SCL6"},
	2:  {"SDA1", "SA3", "LCD_VSYNC", "SPI3_MOSI", "CTS2", "SDA3"},
	3:  {"SCL1", "SA2", "LCD_HSYNC", "SPI3_SCLK", "RTS2", "SCL3"},
	4:  {"GPCLK0", "SA1", "DPI_D0", "SPI4_CE0_N", "TXD3", "SDA3"},
	5:  {"GPCLK1", "SA0", "DPI_D1", "SPI4_MISO", "RXD3", "SCL3"},
	6:  {"GPCLK2", "SOE_N", "DPI_D2", "SPI4_MOSI", "CTS3", "SDA4"},
	7:  {"SPI0_CE1_N", "SWE_N", "DPI_D3", "SPI4_SCLK", "RTS3", "SCL4"},
	8:  {"SPI0_CE0_N", "SD0", "DPI_D4", "BSCSL_CE_N", "TXD4", "SDA4"},
	9:  {"SPI0_MISO", "SD1", "DPI_D5", "BSCSL_MISO", "RXD4", "SCL4"},
	10: {"SPI0_MOSI", "SD2", "DPI_D6", "BSCSL_SDA", "CTS4", "SDA5"},
	11: {"SPI0_SCLK", "SD3", "DPI_D7", "BSCSL_SCL", "RTS4", "SCL5"},
	12: {"PWM0_0", "SD4", "DPI_D8", "SPI5_CE0_N", "TXD5", "SDA5"},
	13: {"PWM0_1", "SD5", "DPI_D9", "SPI5_MISO", "RXD5", "SCL5"},
	14: {"TXD0", "SD6", "DPI_D10", "SPI5_MOSI", "CTS5", "TXD1"},
	15: {"RXD0", "SD7", "DPI_D11", "SPI5_SCLK", "RTS5", "RXD1"},
	16: {"FL0", "SD8", "DPI_D12", "CTS0", "SPI1_CE2_N", "CTS1"},
	17: {"FL1", "SD9", "DPI_D13", "RTS0", "SPI1_CE1_N", "RTS1"},
	18: {"PCM_CLK", "SD10", "DPI_D14", "SPI6_CE0_N", "SPI1_CE0_N", "PWM0_0"},
	19: {"PCM_FS", "SD11", "DPI_D15", "SPI6_MISO", "SPI1_MISO", "PWM0_1"},
	20: {"PCM_DIN", "SD12", "DPI_D16", "SPI6_MOSI", "SPI1_MOSI", "GPCLK0"},
	21: {"PCM_DOUT", "SD13", "DPI_D17", "SPI6_SCLK", "SPI1_SCLK", "GPCLK1"},
	22: {"SD0_CLK", "SD14", "DPI_D18", "SD1_CLK", "ARM_TRST", "SDA6"},
	23: {"SD0_CMD", "SD15", "DPI_D19", "SD1_CMD", "ARM_RTCK", "SCL6"},
	24: {"SD0_DAT0", "SD16", "DPI_D20", "SD1_DAT0", "ARM_TDO", "SPI3_CE1_N"},
	25: {"SD0_DAT1", "SD17", "DPI_D21", "SD1_DAT1", "ARM_TCK", "SPI4_CE1_N"},
	26: {"SD0_DAT2", "TE0", "DPI_D22", "SD1_DAT2", "ARM_TDI", "SPI5_CE1_N"},
	27: {"SD0_DAT3", "TE1", "DPI_D23", "SD1_DAT3", "ARM_TMS", "SPI6_CE1_N"},
}

// Pins builds a header from the first n names of HeaderNames40.
//
// GPIO0-8 are pulled up and read high, the rest are pulled down and read
// low. GPIO14/15 run ALT0 (UART) and GPIO17 is an output. Everything else is
// an input.
func Pins(n int) []pinout.Pin {
	pins := make([]pinout.Pin, 0, n)
	for i, name := range HeaderNames40[:n] {
		pin := pinout.Pin{PhysicalName: i + 1, Name: name}
		if len(name) > 4 && name[:4] == "GPIO" {
			bcm, _ := strconv.Atoi(name[4:])
			pin.IsBCM = true
			pin.Funcs = append([]string(nil), AltFuncs[bcm]...)
			pin.CurrentFunc = pinout.FuncInput
			pin.Pull = pinout.PullDown
			if bcm <= 8 {
				pin.Pull = pinout.PullUp
				pin.CurrentValue = 1
			}
			switch bcm {
			case 14, 15:
				pin.CurrentFunc = "0"
			case 17:
				pin.CurrentFunc = pinout.FuncOutput
			}
		}
		pins = append(pins, pin)
	}
	return pins
}

// Status40 returns a valid 40-pin header status.
func Status40() *pinout.Status {
	return &pinout.Status{Rows: 20, Columns: 2, Pins: Pins(40)}
}

// Status26 returns a valid 26-pin header status (original Model B layout).
func Status26() *pinout.Status {
	return &pinout.Status{Rows: 13, Columns: 2, Pins: Pins(26)}
}

// Services returns a services block with SSH and I2C enabled.
func Services() *pinout.Services {
	return &pinout.Services{SSH: true, I2C: true}
}

// Hardware returns the facts of a Raspberry Pi 4 Model B.
func Hardware() *pinout.Hardware {
	return &pinout.Hardware{
		Revision:     "c03111",
		Model:        "4B",
		PCBRevision:  "1.1",
		Released:     "2019Q2",
		SoC:          "BCM2711",
		Manufacturer: "Sony",
		Memory:       4096,
		Storage:      "MicroSD",
		USB:          4,
		USB3:         2,
		Ethernet:     1,
		EthSpeed:     1000,
		WiFi:         true,
		Bluetooth:    true,
		CSI:          1,
		DSI:          1,
	}
}

// FullResponse returns a successful response carrying every block.
func FullResponse() *pinout.Response {
	return &pinout.Response{
		Commands: pinout.Commands{RaspiConfig: true, RaspiGPIO: true},
		Status:   Status40(),
		Services: Services(),
		Hardware: Hardware(),
	}
}

// RaspiGPIOGet renders `raspi-gpio get` output for pins, in BCM order.
func RaspiGPIOGet(pins []pinout.Pin) string {
	var b []byte
	for _, bcm := range bcmOrder(pins) {
		p := pins[bcm.index]
		line := "GPIO " + strconv.Itoa(bcm.n) + ": level=" + strconv.Itoa(p.CurrentValue)
		switch p.CurrentFunc {
		case pinout.FuncInput:
			line += " fsel=0 func=INPUT"
		case pinout.FuncOutput:
			line += " fsel=1 func=OUTPUT"
		default:
			alt, _ := strconv.Atoi(p.CurrentFunc)
			line += " fsel=" + strconv.Itoa(altFsel[alt]) + " alt=" + p.CurrentFunc + " func=" + p.Funcs[alt]
		}
		line += " pull=" + p.Pull + "\n"
		b = append(b, line...)
	}
	return string(b)
}

// RaspiGPIOFuncs renders `raspi-gpio funcs` output for pins, in BCM order.
func RaspiGPIOFuncs(pins []pinout.Pin) string {
	b := []byte("GPIO, DEFAULT PULL, ALT0, ALT1, ALT2, ALT3, ALT4, ALT5\n")
	for _, bcm := range bcmOrder(pins) {
		p := pins[bcm.index]
		line := strconv.Itoa(bcm.n) + ", " + p.Pull
		for _, f := range p.Funcs {
			line += ", " + f
		}
		b = append(b, line+"\n"...)
	}
	return string(b)
}

// altFsel maps ALTn to the BCM2835 function select code.
var altFsel = [...]int{4, 5, 6, 7, 3, 2}

type bcmPin struct {
	n     int
	index int
}

func bcmOrder(pins []pinout.Pin) []bcmPin {
	var out []bcmPin
	for i, p := range pins {
		if n, ok := p.BCMNumber(); ok {
			out = append(out, bcmPin{n: n, index: i})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].n < out[j].n })
	return out
}
