package orientation

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAdjust_LandscapeLeftExample(t *testing.T) {
	roll, pitch := Adjust(LandscapeLeft, 0.2, 0.5)
	if roll != 0.5 || pitch != -0.2 {
		t.Fatalf("got=(%v,%v) want=(0.5,-0.2)", roll, pitch)
	}
}

func TestAdjust_Table(t *testing.T) {
	cases := []struct {
		d    Device
		want func(r, p float64) (float64, float64)
	}{
		{Unknown, func(r, p float64) (float64, float64) { return r, -p }},
		{FaceUp, func(r, p float64) (float64, float64) { return r, -p }},
		{FaceDown, func(r, p float64) (float64, float64) { return r, -p }},
		{LandscapeLeft, func(r, p float64) (float64, float64) { return p, -r }},
		{Portrait, func(r, p float64) (float64, float64) { return r, p }},
		{PortraitUpsideDown, func(r, p float64) (float64, float64) { return -r, -p }},
		{LandscapeRight, func(r, p float64) (float64, float64) { return -p, r }},
	}

	const steps = 12
	for _, tc := range cases {
		for i := 0; i <= steps; i++ {
			for j := 0; j <= steps; j++ {
				r := -math.Pi + 2*math.Pi*float64(i)/steps
				p := -math.Pi + 2*math.Pi*float64(j)/steps
				gotR, gotP := Adjust(tc.d, r, p)
				wantR, wantP := tc.want(r, p)
				if gotR != wantR || gotP != wantP {
					t.Fatalf("%s (%v,%v): got=(%v,%v) want=(%v,%v)", tc.d, r, p, gotR, gotP, wantR, wantP)
				}
				if math.Abs(gotR) > math.Pi || math.Abs(gotP) > math.Pi {
					t.Fatalf("%s (%v,%v): result out of range (%v,%v)", tc.d, r, p, gotR, gotP)
				}
			}
		}
	}
}

func TestAdjust_OutOfRangeDeviceIsIdentity(t *testing.T) {
	roll, pitch := Adjust(Device(42), 0.1, 0.3)
	if roll != 0.1 || pitch != 0.3 {
		t.Fatalf("got=(%v,%v) want=(0.1,0.3)", roll, pitch)
	}
}

func TestDevice_ParseRoundTrip(t *testing.T) {
	for d := Unknown; d <= FaceDown; d++ {
		got, err := ParseDevice(d.String())
		if err != nil {
			t.Fatalf("ParseDevice(%q): %v", d.String(), err)
		}
		if got != d {
			t.Fatalf("got=%v want=%v", got, d)
		}
	}
	if _, err := ParseDevice("sideways"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestDevice_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		O Device `json:"o"`
	}{LandscapeRight})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"o":"landscape-right"}` {
		t.Fatalf("got=%s", b)
	}

	var v struct {
		O Device `json:"o"`
	}
	if err := json.Unmarshal([]byte(`{"o":"portrait-upside-down"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.O != PortraitUpsideDown {
		t.Fatalf("got=%v want=%v", v.O, PortraitUpsideDown)
	}
}

func TestDevice_Usable(t *testing.T) {
	for _, d := range []Device{Unknown, FaceUp, FaceDown} {
		if d.Usable() {
			t.Fatalf("%s should not be usable", d)
		}
	}
	for _, d := range []Device{Portrait, PortraitUpsideDown, LandscapeLeft, LandscapeRight} {
		if !d.Usable() {
			t.Fatalf("%s should be usable", d)
		}
	}
}

func TestComputeAttitudeFromAccel(t *testing.T) {
	a := ComputeAttitudeFromAccel(0, 0, 1)
	if a.Roll != 0 || a.Pitch != 0 {
		t.Fatalf("flat: got=(%v,%v) want=(0,0)", a.Roll, a.Pitch)
	}

	a = ComputeAttitudeFromAccel(0, 1, 0)
	if math.Abs(a.Roll-math.Pi/2) > 1e-12 {
		t.Fatalf("roll=%v want=pi/2", a.Roll)
	}

	a = ComputeAttitudeFromAccel(-1, 0, 0)
	if math.Abs(a.Pitch-math.Pi/2) > 1e-12 {
		t.Fatalf("pitch=%v want=pi/2", a.Pitch)
	}
}
