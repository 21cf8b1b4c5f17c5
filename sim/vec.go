package sim

import "math"

// Vec is a 2D vector in world units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }

func (v Vec) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector, zero-safe: a zero vector stays zero.
func (v Vec) Normalize() Vec {
	l := v.Length()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Limit clamps the magnitude to max while preserving direction.
func (v Vec) Limit(max float64) Vec {
	l := v.Length()
	if l <= max || l == 0 {
		return v
	}
	f := max / l
	return Vec{v.X * f, v.Y * f}
}

// Heading returns the vector angle in radians.
func (v Vec) Heading() float64 { return math.Atan2(v.Y, v.X) }

func (v Vec) Dist(o Vec) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (v Vec) DistSq(o Vec) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}

// FromAngle returns the unit vector pointing along angle radians.
func FromAngle(angle float64) Vec {
	return Vec{math.Cos(angle), math.Sin(angle)}
}
