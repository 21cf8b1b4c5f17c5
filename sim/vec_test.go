package sim

import (
	"math"
	"testing"
)

func TestNormalizeZeroSafe(t *testing.T) {
	v := Vec{}.Normalize()
	if v.X != 0 || v.Y != 0 {
		t.Errorf("expected zero vector, got %+v", v)
	}
}

func TestNormalizeUnit(t *testing.T) {
	v := Vec{3, 4}.Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("expected unit length, got %f", v.Length())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Y-0.8) > 1e-12 {
		t.Errorf("wrong direction: %+v", v)
	}
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name string
		v    Vec
		max  float64
		want float64 // expected length
	}{
		{"over", Vec{3, 4}, 2, 2},
		{"under", Vec{1, 0}, 2, 1},
		{"zero", Vec{}, 2, 0},
	}
	for _, tt := range tests {
		got := tt.v.Limit(tt.max).Length()
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: expected length %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestLimitPreservesDirection(t *testing.T) {
	v := Vec{3, 4}.Limit(2)
	want := Vec{3, 4}.Normalize().Scale(2)
	if math.Abs(v.X-want.X) > 1e-12 || math.Abs(v.Y-want.Y) > 1e-12 {
		t.Errorf("direction changed: got %+v want %+v", v, want)
	}
}

func TestHeadingFromAngleRoundTrip(t *testing.T) {
	for _, angle := range []float64{0, math.Pi / 4, math.Pi / 2, -math.Pi / 3} {
		got := FromAngle(angle).Heading()
		if math.Abs(got-angle) > 1e-12 {
			t.Errorf("angle %f: got %f", angle, got)
		}
	}
}

func TestDist(t *testing.T) {
	d := Vec{0, 0}.Dist(Vec{3, 4})
	if d != 5 {
		t.Errorf("expected 5, got %f", d)
	}
	if sq := (Vec{0, 0}).DistSq(Vec{3, 4}); sq != 25 {
		t.Errorf("expected 25, got %f", sq)
	}
}
