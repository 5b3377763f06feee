package sim

import (
	"math"

	"github.com/talgya/windward/internal/units"
)

// Physical constants of the vehicle model.
const (
	// VehicleSize is the collision diameter of the ship, in meters.
	VehicleSize = 1.3

	// vehicleWheelBase is the effective lever between bow and stern used by
	// the turning-circle model, in meters.
	vehicleWheelBase = 0.9 * VehicleSize

	// maxSteeringAngle is the rudder deflection at full input, in radians.
	maxSteeringAngle = math.Pi / 3

	// rudderDeadzone is the input magnitude below which steering is inert.
	rudderDeadzone = 0.05

	// minSteerStep floors the per-tick travel used to derive the turn
	// angle, so steering does not stall at near-zero speed. In meters.
	minSteerStep = 0.005

	// frictionGroundSpeedFactor scales friction along the heading.
	frictionGroundSpeedFactor = 0.02

	// frictionCrossSpeedFactor scales friction across the heading.
	frictionCrossSpeedFactor = 0.05

	// maxTraction caps the lateral speed the hull grips away, in m/s.
	maxTraction = 1.0

	// hullWindage is the residual force area of the bare hull, in m².
	// Even a fully furled ship drifts a little.
	hullWindage = 0.2

	// listPerCrossSpeed converts lateral speed into the visual heel angle.
	listPerCrossSpeed = 0.4
)

// SailKind is the rig type. Kinds form a fixed upgrade chain.
type SailKind uint8

const (
	SailCog SailKind = iota
	SailBermuda
	SailSchooner
)

// MaxReefing returns the highest reefing level of the rig, i.e. how many
// discrete sail deployment steps it has beyond fully furled.
func (k SailKind) MaxReefing() uint8 {
	switch k {
	case SailCog:
		return 3
	case SailBermuda:
		return 4
	default:
		return 7
	}
}

// MaxArea returns the full sail area of the rig in m².
func (k SailKind) MaxArea() float32 {
	switch k {
	case SailCog:
		return 30
	case SailBermuda:
		return 40
	default:
		return 60
	}
}

// Square reports whether the rig carries a square (rectangular) sail. The
// cog does; the Bermuda and schooner rigs are triangular.
func (k SailKind) Square() bool {
	return k == SailCog
}

// Next returns the succeeding rig in the upgrade chain, reporting false at
// the top.
func (k SailKind) Next() (SailKind, bool) {
	switch k {
	case SailCog:
		return SailBermuda, true
	case SailBermuda:
		return SailSchooner, true
	default:
		return k, false
	}
}

// Price returns the cost of upgrading to this rig. Prices are fixed per
// step, not scaled.
func (k SailKind) Price() uint64 {
	switch k {
	case SailBermuda:
		return 800
	case SailSchooner:
		return 2500
	default:
		return 0
	}
}

// ShipHull is the hull type. Hulls form a fixed upgrade chain.
type ShipHull uint8

const (
	HullSmall ShipHull = iota
	HullBigger
)

// Deadweight returns the mass of the empty hull in kg.
func (h ShipHull) Deadweight() float32 {
	switch h {
	case HullSmall:
		return 100
	default:
		return 250
	}
}

// Next returns the succeeding hull in the upgrade chain, reporting false at
// the top.
func (h ShipHull) Next() (ShipHull, bool) {
	if h == HullSmall {
		return HullBigger, true
	}
	return h, false
}

// Price returns the cost of upgrading to this hull.
func (h ShipHull) Price() uint64 {
	if h == HullBigger {
		return 1500
	}
	return 0
}

// Sail is the rig state of the vehicle.
type Sail struct {
	Kind SailKind `json:"kind"`
	// Reefing is the current deployment, 0 = fully furled, clamped to the
	// kind's maximum.
	Reefing uint8 `json:"reefing"`
	// OrientationRectangle and OrientationTriangle are the derived sail
	// angles of the square and the triangular interpretation of the rig,
	// recomputed each tick. Zero is world X.
	OrientationRectangle float32 `json:"orientation_rectangle"`
	OrientationTriangle  float32 `json:"orientation_triangle"`
}

// Area returns the currently deployed sail area in m². Area grows with the
// square of the reefing fraction.
func (s *Sail) Area() float32 {
	max := s.Kind.MaxReefing()
	if max == 0 {
		return 0
	}
	f := float32(s.Reefing) / float32(max)
	return s.Kind.MaxArea() * f * f
}

// Orientation returns the sail angle the rig actually sails by.
func (s *Sail) Orientation() float32 {
	if s.Kind.Square() {
		return s.OrientationRectangle
	}
	return s.OrientationTriangle
}

// Vehicle is the player's ship.
type Vehicle struct {
	Hull ShipHull `json:"hull"`
	// Pos is the absolute position in meters, always within the map.
	Pos units.Location `json:"pos"`
	// Velocity is the current movement in m/s. Its direction may differ
	// from Heading when sliding.
	Velocity units.Vec2 `json:"velocity"`
	// Heading is the bow direction in radians, zero is world X.
	Heading float32 `json:"heading"`
	// AngleOfList is the visual heel derived from lateral speed each tick.
	AngleOfList float32 `json:"angle_of_list"`
	// Ruder is the current steering deflection.
	Ruder units.BiPolarFraction `json:"ruder"`
	Sail  Sail                  `json:"sail"`
	// ResourceWeight and ResourceValue are the carried cargo totals.
	ResourceWeight uint32 `json:"resource_weight"`
	ResourceValue  uint64 `json:"resource_value"`
}

// GroundSpeed is the magnitude of the velocity in m/s.
func (v *Vehicle) GroundSpeed() float32 {
	return v.Velocity.Magnitude()
}

// HeadingVec returns the heading as a unit vector.
func (v *Vehicle) HeadingVec() units.Vec2 {
	return units.Polar(v.Heading, 1)
}

// TangentVec returns the unit vector orthogonal to the heading.
func (v *Vehicle) TangentVec() units.Vec2 {
	return units.Polar(v.Heading+math.Pi/2, 1)
}

// HeadSpeed is the signed speed along the heading.
func (v *Vehicle) HeadSpeed() float32 {
	return v.Velocity.Dot(v.HeadingVec())
}

// CrossSpeed is the signed speed orthogonal to the heading.
func (v *Vehicle) CrossSpeed() float32 {
	return v.Velocity.Dot(v.TangentVec())
}

// Mass returns the total mass in kg: hull deadweight plus carried cargo.
func (v *Vehicle) Mass() float32 {
	return v.Hull.Deadweight() + float32(v.ResourceWeight)
}

// frictionDeceleration returns the acceleration caused by water friction,
// as a vector that can be added to the velocity directly. Friction along
// the heading grows with forward speed; friction across it grows with
// lateral speed.
func (v *Vehicle) frictionDeceleration() units.Vec2 {
	rolling := v.HeadingVec().Scale(-v.HeadSpeed() * frictionGroundSpeedFactor)
	sliding := v.TangentVec().Scale(-v.CrossSpeed() * frictionCrossSpeedFactor)
	return rolling.Add(sliding)
}

// applyInput takes over the player's input for this tick. Reefing is
// clamped to the rig's maximum even if the caller already did.
func (v *Vehicle) applyInput(input *Input) {
	reefing := input.Reefing
	if max := v.Sail.Kind.MaxReefing(); reefing > max {
		reefing = max
	}
	v.Sail.Reefing = reefing
	v.Ruder = input.Rudder
}
