package sim

import (
	"math"

	"github.com/talgya/windward/internal/units"
)

// delta is the duration of one tick in seconds.
const delta = 1.0 / float32(units.TicksPerSecond)

// debugEngineForce is the constant thrust of the ShipEngine cheat, in N.
const debugEngineForce = 400.0

// dockingMaxSpeed is the speed below which a fully furled ship inside a
// harbor's effect radius is held in place, in m/s.
const dockingMaxSpeed = 1.0

// Update advances the world by exactly one tick: applies the input,
// re-animates the resources, recomputes the wind and steps the vehicle
// through propulsion, friction, movement, collisions, steering and
// collection. It returns the semantic events of the tick in order; all
// state changes are observable via the WorldState itself.
func (ws *WorldState) Update(init *WorldInit, input *Input) []Event {
	ws.Timestamp = ws.Timestamp.Next()

	ws.Player.Vehicle.applyInput(input)

	for i := range ws.Resources {
		ws.Resources[i].Update(ws.Timestamp)
	}

	ws.Wind = WindAt(init, ws.Timestamp)

	var events []Event
	ws.stepVehicle(init, &events)
	ws.collectResources(init, &events)
	return events
}

// stepVehicle performs the per-tick force integration, movement and
// collision handling of the player's ship.
func (ws *WorldState) stepVehicle(init *WorldInit, events *[]Event) {
	v := &ws.Player.Vehicle

	// Apparent wind is what the sail feels: true wind minus own movement.
	apparent := ws.Wind.Vec().Sub(v.Velocity)

	// Derive both sail interpretations; the rig picks the one it sails by.
	v.Sail.OrientationRectangle = sailOrientation(v.Heading, apparent)
	v.Sail.OrientationTriangle = sailOrientation(v.Heading+math.Pi, apparent)

	force := propulsionForce(apparent, v.Sail.Orientation(), v.Sail.Area())
	if init.Dbg.ShipEngine {
		force += debugEngineForce
	}

	accelMag := accelerationFromForce(force, v.GroundSpeed(), v.Mass())
	accel := v.HeadingVec().Scale(accelMag)

	acc := accel.Add(v.frictionDeceleration())

	vel0 := v.Velocity
	v.Velocity = v.Velocity.Add(acc.Scale(delta))
	dist := vel0.Add(acc.Scale(delta)).Scale(delta)

	oldPos := v.Pos
	oldTile := init.Terrain.TileAt(oldPos)
	v.Pos = init.Terrain.MapLocOnTorus(oldPos.Add(units.Distance(dist)))

	// Terrain collision: ships bounce off land.
	newTile := init.Terrain.TileAt(v.Pos)
	if init.Terrain.Get(oldTile).IsPassable() && !init.Terrain.Get(newTile).IsPassable() {
		impact := v.GroundSpeed()

		v.Pos = oldPos
		v.Velocity = v.Velocity.Scale(-0.5)
		// Axis components that did not change tile keep their sign, which
		// makes the bounce follow the wall that was actually hit.
		if oldTile.X == newTile.X {
			v.Velocity.X *= -1
		}
		if oldTile.Y == newTile.Y {
			v.Velocity.Y *= -1
		}

		*events = append(*events, Event{Kind: EventTileCollision, Speed: impact})
	}

	ws.handleHarbors(init, oldPos, events)

	// Steering: rudder deflection defines a turning circle; the distance
	// traveled along the heading defines how far around it we went.
	rudder := v.Ruder.ToF32()
	if abs32(rudder) > rudderDeadzone {
		steeringAngle := abs32(rudder) * maxSteeringAngle
		radius := vehicleWheelBase / sin32(steeringAngle)

		distNorm := dist.Dot(v.HeadingVec())
		if distNorm < minSteerStep {
			distNorm = minSteerStep
		}

		v.Heading = wrapAngle(v.Heading + distNorm/radius*sign32(rudder))
	}

	// Traction: the hull grips away lateral speed up to a limit. Velocity
	// is rebuilt so the per-axis kinetic energy magnitude is preserved.
	head := v.HeadSpeed()
	cross := v.CrossSpeed()
	crossTraction := clamp32(cross, -maxTraction, maxTraction)

	headVelo := v.HeadingVec().Scale(
		sign32(head) * sqrt32(head*head+crossTraction*crossTraction))
	crossVelo := v.TangentVec().Scale(
		sign32(cross) * sqrt32(max32(cross*cross-crossTraction*crossTraction, 0)))
	v.Velocity = headVelo.Add(crossVelo)

	v.AngleOfList = clamp32(v.CrossSpeed()*listPerCrossSpeed, -math.Pi, math.Pi)
}

// sailOrientation picks the sail angle closest to the apparent wind that
// the rig can physically hold: within a quarter turn of the given reference
// axis (the bow for square rigs, astern for triangular ones).
func sailOrientation(reference float32, apparent units.Vec2) float32 {
	if apparent.MagnitudeSq() == 0 {
		return reference
	}
	windAngle := float32(math.Atan2(float64(apparent.Y), float64(apparent.X)))
	off := wrapAngle(windAngle - reference)
	return reference + clamp32(off, -math.Pi/2, math.Pi/2)
}

// propulsionForce computes the force the rig extracts from the apparent
// wind: the wind component not aligned with the sail's orientation, scaled
// by the deployed area, plus the bare hull's windage.
func propulsionForce(apparent units.Vec2, orientation, area float32) float32 {
	sailDir := units.Polar(orientation, 1)
	aligned := sailDir.Scale(apparent.Dot(sailDir))
	normal := apparent.Sub(aligned)
	return normal.Magnitude()*area + hullWindage*apparent.Magnitude()
}

// accelerationFromForce converts propulsive force into longitudinal
// acceleration via energy balance over one tick:
//
//	accel = (-v + sqrt(v² + 2·work/mass)) / dt, work = |force|·dt
//
// The discriminant is clamped at zero so that no synthetic input can push a
// NaN into position integration.
func accelerationFromForce(force, speed, mass float32) float32 {
	work := force * delta
	disc := speed*speed + 2*work/mass
	if disc < 0 {
		disc = 0
	}
	return (-speed + sqrt32(disc)) / delta
}

// handleHarbors bounces the ship off harbors it would ram and holds a slow,
// fully furled ship in place near one (docking).
func (ws *WorldState) handleHarbors(init *WorldInit, oldPos units.Location, events *[]Event) {
	v := &ws.Player.Vehicle
	const collisionRadius = (HarborSize + VehicleSize) / 2

	for i := range ws.Harbors {
		h := &ws.Harbors[i]

		before := init.Terrain.TorusDistance(h.Loc, oldPos).Magnitude()
		now := init.Terrain.TorusDistance(h.Loc, v.Pos).Magnitude()

		if before >= collisionRadius && now < collisionRadius {
			impact := v.GroundSpeed()
			v.Pos = oldPos

			// Elastic-ish bounce along the harbor-to-vehicle axis: remove
			// one and a half times the head-on velocity component.
			away := init.Terrain.TorusDistance(h.Loc, v.Pos).Vec()
			if m := away.Magnitude(); m > 0 {
				n := away.Scale(1 / m)
				if vn := v.Velocity.Dot(n); vn < 0 {
					v.Velocity = v.Velocity.Sub(n.Scale(1.5 * vn))
				}
			}

			*events = append(*events, Event{Kind: EventHarborCollision, Speed: impact})
			now = init.Terrain.TorusDistance(h.Loc, v.Pos).Magnitude()
		}

		// Docking: a furled, slow ship within the effect radius is held.
		if now < HarborEffectRadius && v.Sail.Reefing == 0 && v.GroundSpeed() < dockingMaxSpeed {
			v.Velocity = units.Vec2{}
		}
	}
}

// collectResources picks up every pack within reach of the hull and turns
// it into cargo plus a category event.
func (ws *WorldState) collectResources(init *WorldInit, events *[]Event) {
	v := &ws.Player.Vehicle

	kept := ws.Resources[:0]
	for _, r := range ws.Resources {
		reach := (VehicleSize + r.Content.Size()) / 2
		if init.Terrain.TorusDistance(v.Pos, r.Loc).Magnitude() < reach {
			stats := r.Content.Stats()
			v.ResourceWeight += stats.Weight
			v.ResourceValue += stats.Value
			*events = append(*events, Event{Kind: collectionEvent(r.Content.Category())})
			continue
		}
		kept = append(kept, r)
	}
	ws.Resources = kept
}

// wrapAngle normalizes an angle into (-π, π].
func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func sin32(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
