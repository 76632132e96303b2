package level

import (
	"math"
	"testing"
)

func TestBubblePosition(t *testing.T) {
	x, y := BubblePosition(0, 0, 300)
	if x != 150 || y != 150 {
		t.Fatalf("flat: got=(%v,%v) want=(150,150)", x, y)
	}

	x, y = BubblePosition(-math.Pi/2, math.Pi/2, 300)
	if math.Abs(x) > 1e-9 || math.Abs(y-300) > 1e-9 {
		t.Fatalf("full tilt: got=(%v,%v) want=(0,300)", x, y)
	}
}

func TestBubblePosition_Monotonic(t *testing.T) {
	prev, _ := BubblePosition(-math.Pi, 0, 300)
	for i := 1; i <= 100; i++ {
		roll := -math.Pi + 2*math.Pi*float64(i)/100
		x, _ := BubblePosition(roll, 0, 300)
		if x <= prev {
			t.Fatalf("not increasing at roll=%v: %v <= %v", roll, x, prev)
		}
		prev = x
	}
}
