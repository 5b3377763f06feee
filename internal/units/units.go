// Package units provides the typed scalar and vector quantities of the
// simulation. Physical values are never passed around as bare floats:
// locations, distances, wind, elevations and fractions each get their own
// type so that nonsensical arithmetic does not compile.
package units

import "math"

// TicksPerSecond is the fixed simulation rate. A tick is the only notion of
// time inside the core; the driver is responsible for calling the update at
// this rate.
const TicksPerSecond = 60

// Tick is a monotonically increasing point in simulation time. A Tick only
// has meaning within the game it was produced by.
type Tick uint64

// Next returns the following tick. There is no decrement; time never runs
// backwards.
func (t Tick) Next() Tick {
	return t + 1
}

// Vec2 is a plain 2D float vector, used for velocities and forces where
// affine semantics do not apply.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

// Magnitude returns the euclidean length of v.
func (v Vec2) Magnitude() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// MagnitudeSq returns the squared length of v.
func (v Vec2) MagnitudeSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Polar builds a vector from an angle (radians, zero is world X) and a
// magnitude.
func Polar(angle, magnitude float32) Vec2 {
	return Vec2{
		X: float32(math.Cos(float64(angle))) * magnitude,
		Y: float32(math.Sin(float64(angle))) * magnitude,
	}
}

// Distance is a displacement on the map in meters.
type Distance struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Vec returns the displacement as a plain vector.
func (d Distance) Vec() Vec2 {
	return Vec2(d)
}

// Add returns d + o.
func (d Distance) Add(o Distance) Distance {
	return Distance{d.X + o.X, d.Y + o.Y}
}

// Scale returns d scaled by s.
func (d Distance) Scale(s float32) Distance {
	return Distance{d.X * s, d.Y * s}
}

// Neg returns the opposite displacement.
func (d Distance) Neg() Distance {
	return Distance{-d.X, -d.Y}
}

// Magnitude returns the length of the displacement in meters.
func (d Distance) Magnitude() float32 {
	return Vec2(d).Magnitude()
}

// MagnitudeSq returns the squared length of the displacement.
func (d Distance) MagnitudeSq() float32 {
	return Vec2(d).MagnitudeSq()
}

// Location is an absolute position on the map in meters.
//
// Location and Distance form an affine pair: subtracting two locations
// yields a Distance, and adding a Distance to a Location yields a Location.
// Any other arithmetic between two Locations is deliberately not provided.
type Location struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Add returns the location displaced by d.
func (l Location) Add(d Distance) Location {
	return Location{l.X + d.X, l.Y + d.Y}
}

// Sub returns the displacement from o to l.
func (l Location) Sub(o Location) Distance {
	return Distance{l.X - o.X, l.Y - o.Y}
}

// Wind is the prevailing wind as a 2D vector in m/s.
type Wind struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// WindFromPolar builds a wind vector from a direction angle (radians) and a
// speed magnitude (m/s).
func WindFromPolar(angle, magnitude float32) Wind {
	return Wind(Polar(angle, magnitude))
}

// Vec returns the wind as a plain vector.
func (w Wind) Vec() Vec2 {
	return Vec2(w)
}

// Speed returns the wind speed in m/s.
func (w Wind) Speed() float32 {
	return Vec2(w).Magnitude()
}

// Angle returns the wind direction in radians, zero is world X.
func (w Wind) Angle() float32 {
	return float32(math.Atan2(float64(w.Y), float64(w.X)))
}

// Elevation is a signed terrain height unit. Negative values are under
// water; a tile is passable for ships exactly when its elevation is
// negative.
type Elevation int16

// Classification thresholds. The bands are contiguous and ordered:
// DeepWater < ShallowWater < Beach < Grass.
const (
	deepBelow  Elevation = -10 // below this it is deep water
	grassAbove Elevation = 3   // from this on it is grass land
)

// ElevationClass is the coarse tile classification derived from elevation.
type ElevationClass uint8

const (
	DeepWater ElevationClass = iota
	ShallowWater
	Beach
	Grass
)

// Class returns the classification band of the elevation.
func (e Elevation) Class() ElevationClass {
	switch {
	case e < deepBelow:
		return DeepWater
	case e < 0:
		return ShallowWater
	case e < grassAbove:
		return Beach
	default:
		return Grass
	}
}

// IsPassable reports whether a ship can traverse a tile of this elevation.
func (e Elevation) IsPassable() bool {
	return e < 0
}

// Fraction is a value in [0, 1], quantized to a byte.
type Fraction uint8

// FractionFromF32 quantizes v, reporting false if v is outside [0, 1]
// (including NaN).
func FractionFromF32(v float32) (Fraction, bool) {
	if !(v >= 0.0 && v <= 1.0) {
		return 0, false
	}
	return Fraction(v * 255.0), true
}

// ToF32 converts the fraction back to a float in [0, 1].
func (f Fraction) ToF32() float32 {
	return float32(f) / 255.0
}

// BiPolarFraction is a value in [-1, 1], quantized to a signed byte.
// It is used for steering input: -1 is full deflection left, 0 is neutral,
// +1 is full deflection right.
type BiPolarFraction int8

// BiPolarFromF32 quantizes v, reporting false if v is outside [-1, 1]
// (including NaN).
func BiPolarFromF32(v float32) (BiPolarFraction, bool) {
	if !(v >= -1.0 && v <= 1.0) {
		return 0, false
	}
	return BiPolarFraction(v * 127.0), true
}

// ToF32 converts the fraction back to a float in [-1, 1].
func (f BiPolarFraction) ToF32() float32 {
	return float32(f) / 127.0
}
