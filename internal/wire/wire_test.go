package wire

import (
	"testing"
)

func TestEncode_FlatOrderedList(t *testing.T) {
	a := Attitude{YawRad: 1.5, PitchRad: -0.25, RollRad: 0.5, TemperatureC: 36.5}

	b, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if got, want := string(b), "[1.5,-0.25,0.5,36.5]"; got != want {
		t.Fatalf("payload=%s want %s", got, want)
	}
}

func TestDecode_RecoversFields(t *testing.T) {
	a, err := Decode([]byte("[0.1,0.2,0.3,21.75]"))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := Attitude{YawRad: 0.1, PitchRad: 0.2, RollRad: 0.3, TemperatureC: 21.75}
	if a != want {
		t.Fatalf("got=%+v want=%+v", a, want)
	}
}

func TestDecode_RejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"{}",
		`"text"`,
		"[1,2,3",
	}
	for _, c := range cases {
		if _, err := Decode([]byte(c)); err == nil {
			t.Fatalf("input %q: expected error", c)
		}
	}
}

func TestDecode_ShortListIsZeroFilled(t *testing.T) {
	// encoding/json fills missing trailing array entries with zeros; the
	// feed always sends four, so this is lenient rather than strict.
	a, err := Decode([]byte("[1,2]"))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if a.RollRad != 0 || a.TemperatureC != 0 {
		t.Fatalf("got=%+v want zero tail", a)
	}
}
