package pinout

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPinBCMNumber(t *testing.T) {
	tests := []struct {
		pin    Pin
		want   int
		wantOK bool
	}{
		{Pin{Name: "GPIO12", IsBCM: true}, 12, true},
		{Pin{Name: "GPIO0", IsBCM: true}, 0, true},
		{Pin{Name: "GPIOX", IsBCM: true}, 0, false},
		{Pin{Name: "GND"}, 0, false},
		{Pin{Name: "GPIO4"}, 0, false}, // not flagged BCM
	}

	for _, tt := range tests {
		t.Run(tt.pin.Name, func(t *testing.T) {
			got, ok := tt.pin.BCMNumber()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("BCMNumber() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPinAltFunction(t *testing.T) {
	pin := Pin{Name: "GPIO14", IsBCM: true, Funcs: []string{"TXD0", "SD6"}}

	pin.CurrentFunc = "0"
	if got, ok := pin.AltFunction(); !ok || got != "TXD0" {
		t.Errorf("AltFunction() = (%q, %v), want (TXD0, true)", got, ok)
	}

	for _, cur := range []string{FuncInput, FuncOutput, "7", "-1"} {
		pin.CurrentFunc = cur
		if _, ok := pin.AltFunction(); ok {
			t.Errorf("AltFunction() with current_func %q should not resolve", cur)
		}
	}
}

func TestStatusValidate(t *testing.T) {
	pins := make([]Pin, 26)

	if err := (&Status{Rows: 13, Columns: 2, Pins: pins}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	bad := []*Status{
		{Rows: 13, Columns: 3, Pins: pins},
		{Rows: 13, Columns: 1, Pins: pins},
		{Rows: 20, Columns: 2, Pins: pins},
	}
	for _, s := range bad {
		err := s.Validate()
		if !errors.Is(err, ErrUnsupportedLayout) {
			t.Errorf("Validate(%dx%d, %d pins) = %v, want ErrUnsupportedLayout", s.Rows, s.Columns, len(s.Pins), err)
		}
	}
}

func TestStatusCloneIsDeep(t *testing.T) {
	orig := &Status{Rows: 1, Columns: 2, Pins: []Pin{
		{PhysicalName: 1, Name: "GPIO2", IsBCM: true, Funcs: []string{"SDA1"}},
		{PhysicalName: 2, Name: "5V"},
	}}

	clone := orig.Clone()
	clone.Pins[0].Name = "GPIO3"
	clone.Pins[0].Funcs[0] = "SCL1"

	if orig.Pins[0].Name != "GPIO2" || orig.Pins[0].Funcs[0] != "SDA1" {
		t.Errorf("Clone() shares memory with the original: %+v", orig.Pins[0])
	}

	if (*Status)(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestCommandsMissing(t *testing.T) {
	tests := []struct {
		name string
		cmds Commands
		want []string
	}{
		{"both present", Commands{RaspiConfig: true, RaspiGPIO: true}, nil},
		{"config missing", Commands{RaspiGPIO: true}, []string{"raspi-config"}},
		{"gpio missing", Commands{RaspiConfig: true}, []string{"raspi-gpio"}},
		{"both missing", Commands{}, []string{"raspi-config", "raspi-gpio"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cmds.Missing()
			if len(got) != len(tt.want) {
				t.Fatalf("Missing() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Missing()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if tt.cmds.Available() != (len(tt.want) == 0) {
				t.Errorf("Available() = %v with missing %v", tt.cmds.Available(), got)
			}
		})
	}
}

func TestRequestUnmarshalDefaults(t *testing.T) {
	var req Request
	if err := json.Unmarshal([]byte(`{"command":"gpio_status"}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.Command != CommandGPIOStatus || !req.HW || !req.WantsFuncs {
		t.Errorf("bare request = %+v, want both flags true", req)
	}

	if err := json.Unmarshal([]byte(`{"command":"gpio_status","hw":false,"wants_funcs":false}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.HW || req.WantsFuncs {
		t.Errorf("explicit false flags lost: %+v", req)
	}
}

func TestResponseOmitsAbsentBlocks(t *testing.T) {
	data, err := json.Marshal(Response{Commands: Commands{RaspiGPIO: true}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"commands":{"raspi_config":false,"raspi_gpio":true}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
