package layout

import (
	"testing"

	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/testutil"
	"github.com/muurk/gpiostatus/internal/view"
)

func allOptions() []view.Options {
	var out []view.Options
	for mask := 0; mask < 1<<6; mask++ {
		out = append(out, view.Options{
			CompactView:     mask&1 != 0,
			HideSpecialPins: mask&2 != 0,
			OrderByName:     mask&4 != 0,
			HidePhysical:    mask&8 != 0,
			ShowNotes:       mask&16 != 0,
			HideImages:      mask&32 != 0,
		})
	}
	return out
}

func TestFormatRowConstantCellCount(t *testing.T) {
	pins := testutil.Pins(40)
	for _, opts := range allOptions() {
		want := len(FormatRow(pins[0], opts, ""))
		for _, pin := range pins {
			note := ""
			if pin.PhysicalName%3 == 0 {
				note = "relay"
			}
			if got := len(FormatRow(pin, opts, note)); got != want {
				t.Fatalf("opts %+v: pin %d has %d cells, want %d", opts, pin.PhysicalName, got, want)
			}
		}
	}
}

func TestFormatRowCellOrder(t *testing.T) {
	pin := pinout.Pin{PhysicalName: 11, Name: "GPIO17", IsBCM: true, CurrentFunc: pinout.FuncOutput, Pull: pinout.PullDown, CurrentValue: 1}
	row := FormatRow(pin, view.Options{ShowNotes: true}, "fan")

	want := []Cell{
		{Kind: KindImage, Image: ImageGPIO},
		Styled("11", StylePhysical),
		{Kind: KindNote, Text: "fan", Style: StyleNote, NotePin: 11},
		Text("GPIO17"),
		Styled("OUT", StyleOut),
		Styled("DOWN", StylePullDown),
		Styled("HIGH", StyleHigh),
	}
	if len(row) != len(want) {
		t.Fatalf("FormatRow() = %d cells, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %+v, want %+v", i, row[i], want[i])
		}
	}
}

func TestFormatRowHiddenCells(t *testing.T) {
	pin := pinout.Pin{PhysicalName: 6, Name: "GND"}
	row := FormatRow(pin, view.Options{HideImages: true, HidePhysical: true}, "")

	want := Row{Styled("GND", StyleGND), Text(""), Text(""), Text("")}
	if len(row) != len(want) {
		t.Fatalf("FormatRow() = %+v", row)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %+v, want %+v", i, row[i], want[i])
		}
	}
}

func TestPinImage(t *testing.T) {
	tests := []struct {
		pin  pinout.Pin
		want Image
	}{
		{pinout.Pin{Name: "GPIO2", IsBCM: true}, ImageGPIO},
		{pinout.Pin{Name: "GPIO27", IsBCM: true}, ImageGPIO},
		{pinout.Pin{Name: "GPIO1", IsBCM: true}, ImageGPIORestricted},
		{pinout.Pin{Name: "GPIO0", IsBCM: true}, ImageGPIORestricted},
		{pinout.Pin{Name: "GPIOX", IsBCM: true}, ImageGPIORestricted},
		{pinout.Pin{Name: "GND"}, ImageGND},
		{pinout.Pin{Name: "5V"}, Image5V},
		{pinout.Pin{Name: "3V3"}, Image3V3},
		{pinout.Pin{Name: "RUN"}, Image3V3},
	}
	for _, tt := range tests {
		if got := pinImage(tt.pin); got != tt.want {
			t.Errorf("pinImage(%s) = %s, want %s", tt.pin.Name, got, tt.want)
		}
	}
}

func TestFuncCell(t *testing.T) {
	funcs := testutil.AltFuncs[14]
	tests := []struct {
		current string
		want    Cell
	}{
		{pinout.FuncInput, Styled("IN", StyleIn)},
		{pinout.FuncOutput, Styled("OUT", StyleOut)},
		{"0", Text("TXD0")},
		{"5", Text("TXD1")},
		{"9", Text("9")},
	}
	for _, tt := range tests {
		pin := pinout.Pin{Name: "GPIO14", IsBCM: true, CurrentFunc: tt.current, Funcs: funcs}
		if got := funcCell(pin); got != tt.want {
			t.Errorf("funcCell(%q) = %+v, want %+v", tt.current, got, tt.want)
		}
	}
}

func TestPullAndLevelCatchAll(t *testing.T) {
	if got := pullCell("UP"); got.Style != StylePullUp {
		t.Errorf("pullCell(UP) = %+v", got)
	}
	for _, pull := range []string{"DOWN", "NONE", ""} {
		if got := pullCell(pull); got.Style != StylePullDown || got.Text != pull {
			t.Errorf("pullCell(%q) = %+v", pull, got)
		}
	}
	if got := levelCell(1); got.Text != "HIGH" {
		t.Errorf("levelCell(1) = %+v", got)
	}
	for _, v := range []int{0, 2, -1} {
		if got := levelCell(v); got.Text != "LOW" {
			t.Errorf("levelCell(%d) = %+v", v, got)
		}
	}
}

func TestSpecialNameCell(t *testing.T) {
	if got := specialNameCell("5V"); got.Style != Style5V {
		t.Errorf("specialNameCell(5V) = %+v", got)
	}
	if got := specialNameCell("3V3"); got.Style != Style3V3 {
		t.Errorf("specialNameCell(3V3) = %+v", got)
	}
	if got := specialNameCell("ID_SD"); got != Text("ID_SD") {
		t.Errorf("specialNameCell(ID_SD) = %+v", got)
	}
}
