// Package sim holds the world state and the deterministic per-tick physics
// update: wind, sail forces, friction, torus movement, collisions, steering
// and resource collection, plus the harbor trading state machine.
//
// The package is pure computation over owned state. It never logs, never
// blocks and never touches a clock; the driver owns time.
package sim

import (
	"github.com/talgya/windward/internal/resource"
	"github.com/talgya/windward/internal/terrain"
	"github.com/talgya/windward/internal/units"
)

// Setting is the generation input surface exposed to the outside.
type Setting struct {
	// EdgeLength is the number of tiles along each world axis.
	EdgeLength uint16 `json:"edge_length" yaml:"edge_length"`
	// ResourceDensity scales every content type's spawn density.
	ResourceDensity float32 `json:"resource_density" yaml:"resource_density"`
}

// DebuggingConf holds development cheats. All fields default to off.
type DebuggingConf struct {
	// ShipEngine adds a constant propulsion force, wind or no wind.
	ShipEngine bool `json:"ship_engine" yaml:"ship_engine"`
	// WindTurning replaces the wind model by a direction ramping linearly
	// over a fixed period.
	WindTurning bool `json:"wind_turning" yaml:"wind_turning"`
	// FixedWindDirection pins the wind to the given angle when set.
	FixedWindDirection *float32 `json:"fixed_wind_direction" yaml:"fixed_wind_direction"`
}

// WorldInit is the immutable per-game configuration produced once by the
// generator. Nothing in here changes during play.
type WorldInit struct {
	Terrain *terrain.Terrain `json:"terrain"`
	Seed    uint64           `json:"seed"`
	Setting Setting          `json:"setting"`
	Dbg     DebuggingConf    `json:"dbg"`
}

// Harbor is a trading post. Harbors are fixed after generation and their
// order is stable; trading addresses them by index.
type Harbor struct {
	Loc         units.Location `json:"loc"`
	Orientation float32        `json:"orientation"`
}

// Player is the human-controlled participant: a vehicle plus money.
type Player struct {
	Vehicle Vehicle `json:"vehicle"`
	Money   uint64  `json:"money"`
}

// WorldState is the mutable per-tick state. It is destroyed and replaced
// only by starting a new game.
type WorldState struct {
	// Timestamp is the current simulation tick, monotonically increasing.
	Timestamp units.Tick      `json:"timestamp"`
	Player    Player          `json:"player"`
	Resources []resource.Pack `json:"resources"`
	Harbors   []Harbor        `json:"harbors"`
	Wind      units.Wind      `json:"wind"`
}

// World bundles the immutable and the mutable half of a game.
type World struct {
	Init  WorldInit  `json:"init"`
	State WorldState `json:"state"`
}

// Input is the player input applied at the start of each tick.
type Input struct {
	// Reefing is the desired sail deployment, 0 = fully furled. Values
	// above the sail kind's maximum are clamped by the update.
	Reefing uint8 `json:"reefing"`
	// Rudder is the steering deflection, -1 (left) to +1 (right).
	Rudder units.BiPolarFraction `json:"rudder"`
}

// EventKind discriminates the semantic events of a tick.
type EventKind uint8

const (
	// EventFishy through EventGrass report a collected resource by category.
	EventFishy EventKind = iota
	EventStarfish
	EventShoe
	EventGrass
	// EventTileCollision and EventHarborCollision report bumps; their
	// payload is the impact speed.
	EventTileCollision
	EventHarborCollision
)

// Event is a semantic occurrence of one tick, consumed by the presentation
// layer for side effects only (audio, UI). State changes are observable via
// WorldState, never via events.
type Event struct {
	Kind EventKind `json:"kind"`
	// Speed is the impact speed in m/s for collision events, zero otherwise.
	Speed float32 `json:"speed,omitempty"`
}

// collectionEvent maps a resource category to its event kind.
func collectionEvent(cat resource.Category) EventKind {
	switch cat {
	case resource.CategoryFishy:
		return EventFishy
	case resource.CategoryStarfish:
		return EventStarfish
	case resource.CategoryShoe:
		return EventShoe
	default:
		return EventGrass
	}
}
