package sim

import (
	"math"
	"testing"

	"github.com/talgya/windward/internal/resource"
	"github.com/talgya/windward/internal/terrain"
	"github.com/talgya/windward/internal/units"
)

// openWater builds a world on an all-deep-water map with the vehicle in the
// middle, wind zeroed, sails furled.
func openWater(edge uint16) (*WorldInit, *WorldState) {
	terr := terrain.New(edge)
	for i := range terr.Elevations {
		terr.Elevations[i] = -15
	}
	init := &WorldInit{Terrain: terr, Seed: 1}
	center := units.Location{X: terr.MapSize() / 2, Y: terr.MapSize() / 2}
	state := &WorldState{
		Player: Player{Vehicle: Vehicle{
			Hull: HullSmall,
			Pos:  center,
			Sail: Sail{Kind: SailCog},
		}},
	}
	return init, state
}

func TestStationaryVehicleZeroWind(t *testing.T) {
	init, ws := openWater(16)
	ws.Wind = units.Wind{}

	before := ws.Player.Vehicle.Pos
	var events []Event
	ws.stepVehicle(init, &events)

	v := &ws.Player.Vehicle
	if v.Velocity != (units.Vec2{}) {
		t.Fatalf("velocity = %v, want zero", v.Velocity)
	}
	if v.Pos != before {
		t.Fatalf("position moved: %v -> %v", before, v.Pos)
	}
	if len(events) != 0 {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestReefingClampedInUpdate(t *testing.T) {
	init, ws := openWater(16)

	ws.Update(init, &Input{Reefing: 99})

	v := &ws.Player.Vehicle
	if max := v.Sail.Kind.MaxReefing(); v.Sail.Reefing != max {
		t.Fatalf("reefing = %d, want clamped to %d", v.Sail.Reefing, max)
	}
}

func TestUpdateAdvancesTimestamp(t *testing.T) {
	init, ws := openWater(16)
	for i := 1; i <= 5; i++ {
		ws.Update(init, &Input{})
		if ws.Timestamp != units.Tick(i) {
			t.Fatalf("timestamp = %d, want %d", ws.Timestamp, i)
		}
	}
}

func TestWindDrivesFurledShipOnlyViaWindage(t *testing.T) {
	init, ws := openWater(16)
	ws.Wind = units.WindFromPolar(0, 10)

	var events []Event
	ws.stepVehicle(init, &events)

	// Fully furled: only the hull windage term applies, which is small.
	speed := ws.Player.Vehicle.GroundSpeed()
	if speed <= 0 {
		t.Fatal("windage produced no movement at all")
	}
	if speed > 0.1 {
		t.Fatalf("furled ship accelerated to %v m/s in one tick", speed)
	}
}

func TestSailForceAcceleratesShip(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle
	v.Sail.Reefing = v.Sail.Kind.MaxReefing()
	// Well past the sail's quarter-turn clamp, so the rig cannot feather the
	// wind away and a real normal component remains.
	ws.Wind = units.WindFromPolar(2.5, 10)

	var events []Event
	ws.stepVehicle(init, &events)

	// Bare windage alone reaches a few cm/s per tick at most; the sail term
	// must dominate it.
	if v.GroundSpeed() <= 0.1 {
		t.Fatalf("full sail in 10 m/s wind only reached %v m/s", v.GroundSpeed())
	}
	// Propulsion is longitudinal; heading is 0, so velocity stays on X.
	if abs32(v.Velocity.Y) > 0.001 {
		t.Fatalf("velocity %v not along heading", v.Velocity)
	}
}

func TestAccelerationDiscriminantClamped(t *testing.T) {
	// Even a pathological negative force must not produce NaN.
	got := accelerationFromForce(-1e12, 0.001, 1)
	if math.IsNaN(float64(got)) {
		t.Fatal("acceleration is NaN")
	}
}

func TestTileCollisionBounces(t *testing.T) {
	init, ws := openWater(16)
	terr := init.Terrain

	// Land column directly east of the vehicle.
	v := &ws.Player.Vehicle
	tile := terr.TileAt(v.Pos)
	land := terr.EastOf(tile)
	terr.Set(land, 10)

	// Head-on approach: place the bow just shy of the boundary.
	boundary := float32(uint32(land.X) * terrain.TileSize)
	v.Pos = units.Location{X: boundary - 0.01, Y: v.Pos.Y}
	v.Velocity = units.Vec2{X: 3, Y: 0}
	v.Heading = 0
	before := v.Pos

	var events []Event
	ws.stepVehicle(init, &events)

	if len(events) != 1 || events[0].Kind != EventTileCollision {
		t.Fatalf("events = %v, want one TileCollision", events)
	}
	if diff := math.Abs(float64(events[0].Speed - 3)); diff > 0.1 {
		t.Fatalf("impact speed = %v, want ~3", events[0].Speed)
	}
	if v.Pos != before {
		t.Fatalf("position not reverted: %v -> %v", before, v.Pos)
	}
	if v.Velocity.X >= 0 {
		t.Fatalf("velocity.X = %v, want bounced backwards", v.Velocity.X)
	}
}

func TestHarborCollisionBounces(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle

	const collisionRadius = (HarborSize + VehicleSize) / 2
	harborLoc := units.Location{X: v.Pos.X + collisionRadius + 0.02, Y: v.Pos.Y}
	ws.Harbors = []Harbor{{Loc: harborLoc}}

	v.Velocity = units.Vec2{X: 3, Y: 0}
	v.Heading = 0
	v.Sail.Reefing = 1 // not furled, so docking cannot zero the bounce
	before := v.Pos

	var events []Event
	ws.stepVehicle(init, &events)

	if len(events) != 1 || events[0].Kind != EventHarborCollision {
		t.Fatalf("events = %v, want one HarborCollision", events)
	}
	if v.Pos != before {
		t.Fatalf("position not reverted: %v -> %v", before, v.Pos)
	}
	if v.Velocity.X >= 0 {
		t.Fatalf("velocity.X = %v, want pushed away from the harbor", v.Velocity.X)
	}
}

func TestDockingHoldsFurledShip(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle

	ws.Harbors = []Harbor{{Loc: units.Location{X: v.Pos.X + 3, Y: v.Pos.Y}}}
	v.Velocity = units.Vec2{X: 0.2, Y: 0}
	v.Sail.Reefing = 0

	var events []Event
	ws.stepVehicle(init, &events)

	if v.Velocity != (units.Vec2{}) {
		t.Fatalf("velocity = %v, want held at zero while docked", v.Velocity)
	}
}

func TestSteeringTurnsShip(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle
	v.Velocity = units.Vec2{X: 2, Y: 0}
	v.Heading = 0

	rudder, ok := units.BiPolarFromF32(1.0)
	if !ok {
		t.Fatal("rudder conversion failed")
	}
	v.Ruder = rudder

	var events []Event
	ws.stepVehicle(init, &events)

	if v.Heading <= 0 {
		t.Fatalf("heading = %v, want turned right (positive)", v.Heading)
	}
}

func TestRudderDeadzone(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle
	v.Velocity = units.Vec2{X: 2, Y: 0}

	rudder, _ := units.BiPolarFromF32(0.01)
	v.Ruder = rudder

	var events []Event
	ws.stepVehicle(init, &events)

	if v.Heading != 0 {
		t.Fatalf("heading = %v, want unchanged inside the deadzone", v.Heading)
	}
}

func TestTractionCapsLateralSlide(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle
	v.Heading = 0
	// Pure lateral slide well above the traction limit.
	v.Velocity = units.Vec2{X: 0, Y: 5}
	ws.Wind = units.Wind{}

	var events []Event
	ws.stepVehicle(init, &events)

	// The traction limit converts up to maxTraction of lateral speed into
	// forward speed; the remaining slide keeps going sideways.
	if cross := v.CrossSpeed(); abs32(cross) >= 5 {
		t.Fatalf("cross speed = %v, traction removed nothing", cross)
	}
	if head := v.HeadSpeed(); head <= 0 {
		t.Fatalf("head speed = %v, want energy moved onto the heading", head)
	}
}

func TestAngleOfListFollowsLateralSpeed(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle
	v.Heading = 0
	v.Velocity = units.Vec2{X: 0, Y: 3}

	var events []Event
	ws.stepVehicle(init, &events)

	if v.AngleOfList == 0 {
		t.Fatal("angle of list = 0 while sliding")
	}
	if abs32(v.AngleOfList) > math.Pi {
		t.Fatalf("angle of list %v escaped ±π", v.AngleOfList)
	}
}

func TestResourceCollection(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle

	near := resource.Pack{Content: resource.Fish0, Loc: v.Pos, Origin: v.Pos}
	farLoc := units.Location{X: v.Pos.X + 10, Y: v.Pos.Y}
	far := resource.Pack{Content: resource.Grass0, Loc: farLoc, Origin: farLoc}
	ws.Resources = []resource.Pack{near, far}

	var events []Event
	ws.collectResources(init, &events)

	if len(ws.Resources) != 1 || ws.Resources[0].Content != resource.Grass0 {
		t.Fatalf("resources after collection: %+v", ws.Resources)
	}
	if len(events) != 1 || events[0].Kind != EventFishy {
		t.Fatalf("events = %v, want one Fishy", events)
	}
	stats := resource.Fish0.Stats()
	if v.ResourceWeight != stats.Weight || v.ResourceValue != stats.Value {
		t.Fatalf("cargo = %d kg / %d, want %d kg / %d",
			v.ResourceWeight, v.ResourceValue, stats.Weight, stats.Value)
	}
}

func TestCollectionIsTorusAware(t *testing.T) {
	init, ws := openWater(16)
	v := &ws.Player.Vehicle
	size := init.Terrain.MapSize()

	// The vehicle sits at the very west edge; the pack at the very east
	// edge. Across the seam they are close.
	v.Pos = units.Location{X: 0.1, Y: size / 2}
	packLoc := units.Location{X: size - 0.1, Y: size / 2}
	ws.Resources = []resource.Pack{{Content: resource.Fish1, Loc: packLoc, Origin: packLoc}}

	var events []Event
	ws.collectResources(init, &events)

	if len(ws.Resources) != 0 {
		t.Fatal("pack across the torus seam was not collected")
	}
}
