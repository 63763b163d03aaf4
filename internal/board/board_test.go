package board

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/pin"

	"github.com/muurk/gpiostatus/internal/pinout"
)

func TestDecodeRevision(t *testing.T) {
	hw, err := DecodeRevision("a020d3")
	if err != nil {
		t.Fatalf("DecodeRevision() error = %v", err)
	}

	want := pinout.Hardware{
		Revision:     "a020d3",
		Model:        "3B+",
		PCBRevision:  "1.3",
		Released:     "2018Q1",
		SoC:          "BCM2837",
		Manufacturer: "Sony UK",
		Memory:       1024,
		Storage:      "MicroSD",
		USB:          4,
		Ethernet:     1,
		EthSpeed:     300,
		WiFi:         true,
		Bluetooth:    true,
		CSI:          1,
		DSI:          1,
	}
	if *hw != want {
		t.Errorf("DecodeRevision(a020d3) =\n%+v\nwant\n%+v", *hw, want)
	}
}

func TestDecodeRevisionModels(t *testing.T) {
	tests := []struct {
		code   string
		model  string
		memory int
		soc    string
		maker  string
	}{
		{"c03111", "4B", 4096, "BCM2711", "Sony UK"},
		{"0xd03114", "4B", 8192, "BCM2711", "Sony UK"},
		{"9000c1", "Zero W", 512, "BCM2835", "Sony UK"},
		{"902120", "Zero 2 W", 512, "BCM2837", "Sony UK"},
		{"a22042", "2B", 1024, "BCM2837", "Embest"},
		{"c04170", "5B", 4096, "BCM2712", "Sony UK"},
		{"c03130", "400", 4096, "BCM2711", "Sony UK"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			hw, err := DecodeRevision(tt.code)
			if err != nil {
				t.Fatalf("DecodeRevision() error = %v", err)
			}
			if hw.Model != tt.model || hw.Memory != tt.memory || hw.SoC != tt.soc || hw.Manufacturer != tt.maker {
				t.Errorf("DecodeRevision(%s) = %s %dMB %s %s", tt.code, hw.Model, hw.Memory, hw.SoC, hw.Manufacturer)
			}
		})
	}
}

func TestDecodeRevisionErrors(t *testing.T) {
	for _, code := range []string{"", "zz", "000e", "0010", "a0ff03"} {
		if _, err := DecodeRevision(code); !errors.Is(err, ErrUnknownRevision) {
			t.Errorf("DecodeRevision(%q) error = %v, want ErrUnknownRevision", code, err)
		}
	}
}

func TestConvertHeader(t *testing.T) {
	rows := [][]pin.Pin{
		{pin.V3_3, pin.V5},
		{&pin.BasicPin{N: "GPIO2"}, pin.V5},
		{&pin.BasicPin{N: "GPIO3"}, pin.GROUND},
	}

	status, err := convertHeader(rows)
	if err != nil {
		t.Fatalf("convertHeader() error = %v", err)
	}
	if status.Rows != 3 || status.Columns != 2 {
		t.Errorf("geometry = %dx%d", status.Rows, status.Columns)
	}
	want := []string{"3V3", "5V", "GPIO2", "5V", "GPIO3", "GND"}
	for i, p := range status.Pins {
		if p.PhysicalName != i+1 || p.Name != want[i] {
			t.Errorf("pin %d = %+v, want %s", i+1, p, want[i])
		}
	}
}

func TestConvertHeaderRejectsRaggedRows(t *testing.T) {
	rows := [][]pin.Pin{{pin.V3_3, pin.V5}, {pin.GROUND}}
	if _, err := convertHeader(rows); !errors.Is(err, pinout.ErrUnsupportedLayout) {
		t.Errorf("convertHeader() error = %v", err)
	}
	if _, err := convertHeader(nil); !errors.Is(err, ErrNoHeader) {
		t.Errorf("convertHeader(nil) error = %v", err)
	}
	single := [][]pin.Pin{{pin.V3_3}, {pin.V5}}
	if _, err := convertHeader(single); !errors.Is(err, pinout.ErrUnsupportedLayout) {
		t.Errorf("convertHeader(1 column) error = %v", err)
	}
}

func TestStandardHeader(t *testing.T) {
	for _, n := range []int{26, 40} {
		status, err := StandardHeader(n)
		if err != nil {
			t.Fatalf("StandardHeader(%d) error = %v", n, err)
		}
		if err := status.Validate(); err != nil {
			t.Errorf("StandardHeader(%d) invalid: %v", n, err)
		}
		if status.Pins[2].Name != "GPIO2" || status.Pins[n-1].PhysicalName != n {
			t.Errorf("StandardHeader(%d) pins = %+v", n, status.Pins)
		}
	}
	if _, err := StandardHeader(20); err == nil {
		t.Error("StandardHeader(20) should fail")
	}
}

func TestParseHeaderSize(t *testing.T) {
	for in, want := range map[string]int{"": 0, "auto": 0, "26": 26, "40": 40} {
		got, err := ParseHeaderSize(in)
		if err != nil || got != want {
			t.Errorf("ParseHeaderSize(%q) = (%d, %v)", in, got, err)
		}
	}
	if _, err := ParseHeaderSize("12"); err == nil {
		t.Error("ParseHeaderSize(12) should fail")
	}
}
