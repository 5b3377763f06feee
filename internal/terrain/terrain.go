// Package terrain provides the square torus-topology elevation grid of the
// game world and the geometry that goes with it: tile neighbor lookups that
// wrap at the map edges, torus-aware distances and remapping, and rejection
// sampling of spawn locations.
package terrain

import (
	"fmt"
	"math/rand/v2"

	"github.com/talgya/windward/internal/units"
)

// TileSize is the edge length of a single terrain tile, in meters.
const TileSize = 4

// maxSampleAttempts bounds the rejection-sampling loops. The draw only
// fails to terminate on maps with (almost) no passable tiles, which is an
// input-validation problem, not something worth spinning on.
const maxSampleAttempts = 10000

// TileCoord addresses a tile of the map by its axial indices.
//
// Tiles are TileSize meters across, so tile coordinates are not locations.
type TileCoord struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// Center returns the center point of the tile in meters.
func (tc TileCoord) Center() units.Location {
	return units.Location{
		X: float32(uint32(tc.X)*TileSize) + 0.5*TileSize,
		Y: float32(uint32(tc.Y)*TileSize) + 0.5*TileSize,
	}
}

// Terrain is the world terrain: a square of EdgeLength×EdgeLength tiles with
// one elevation per tile, stored row-major. It is immutable after
// generation.
type Terrain struct {
	// EdgeLength is the number of tiles along each world axis. Never zero.
	EdgeLength uint16 `json:"edge_length"`

	// Elevations has exactly EdgeLength² entries. Prefer Get/TryGet over
	// indexing this directly.
	Elevations []units.Elevation `json:"elevations"`
}

// New creates a flat terrain (all zero elevation) with the given edge
// length in tiles. Panics if edgeLength is zero; a zero-size world is a
// programming error, not a runtime condition.
func New(edgeLength uint16) *Terrain {
	if edgeLength == 0 {
		panic("terrain: edge length must not be zero")
	}
	size := int(edgeLength) * int(edgeLength)
	return &Terrain{
		EdgeLength: edgeLength,
		Elevations: make([]units.Elevation, size),
	}
}

func (t *Terrain) index(tc TileCoord) int {
	return int(tc.Y)*int(t.EdgeLength) + int(tc.X)
}

// Get returns the elevation at tc. It panics when tc is out of range; the
// torus-wrapping accessors never produce such coordinates, so an
// out-of-range Get is an invariant violation.
func (t *Terrain) Get(tc TileCoord) units.Elevation {
	if tc.X >= t.EdgeLength || tc.Y >= t.EdgeLength {
		panic(fmt.Sprintf("terrain: tile %v out of range for edge length %d", tc, t.EdgeLength))
	}
	return t.Elevations[t.index(tc)]
}

// TryGet returns the elevation at tc, reporting false when tc lies outside
// the map. Out-of-range probes are expected when scanning neighbors without
// wrapping; callers must handle the miss.
func (t *Terrain) TryGet(tc TileCoord) (units.Elevation, bool) {
	if tc.X >= t.EdgeLength || tc.Y >= t.EdgeLength {
		return 0, false
	}
	return t.Elevations[t.index(tc)], true
}

// Set writes the elevation at tc. Only the generator uses this; the terrain
// is immutable once play starts.
func (t *Terrain) Set(tc TileCoord, e units.Elevation) {
	if tc.X >= t.EdgeLength || tc.Y >= t.EdgeLength {
		panic(fmt.Sprintf("terrain: tile %v out of range for edge length %d", tc, t.EdgeLength))
	}
	t.Elevations[t.index(tc)] = e
}

func wrapInc(a, edge uint16) uint16 {
	if a >= edge-1 {
		return 0
	}
	return a + 1
}

func wrapDec(a, edge uint16) uint16 {
	if a == 0 {
		return edge - 1
	}
	return a - 1
}

// EastOf returns the tile east of tc, wrapping at the map edge.
func (t *Terrain) EastOf(tc TileCoord) TileCoord {
	return TileCoord{X: wrapInc(tc.X, t.EdgeLength), Y: tc.Y}
}

// WestOf returns the tile west of tc, wrapping at the map edge.
func (t *Terrain) WestOf(tc TileCoord) TileCoord {
	return TileCoord{X: wrapDec(tc.X, t.EdgeLength), Y: tc.Y}
}

// SouthOf returns the tile south of tc, wrapping at the map edge.
func (t *Terrain) SouthOf(tc TileCoord) TileCoord {
	return TileCoord{X: tc.X, Y: wrapInc(tc.Y, t.EdgeLength)}
}

// NorthOf returns the tile north of tc, wrapping at the map edge.
func (t *Terrain) NorthOf(tc TileCoord) TileCoord {
	return TileCoord{X: tc.X, Y: wrapDec(tc.Y, t.EdgeLength)}
}

// MapSize returns the edge length of the map in meters.
func (t *Terrain) MapSize() float32 {
	return float32(uint32(t.EdgeLength) * TileSize)
}

// Contains reports whether loc lies within the map boundary.
func (t *Terrain) Contains(loc units.Location) bool {
	size := t.MapSize()
	return 0 <= loc.X && loc.X < size && 0 <= loc.Y && loc.Y < size
}

// TileAt returns the coordinate of the tile below loc. The location must be
// within the map; the simulation keeps the vehicle in-bounds via
// MapLocOnTorus, so a violation here is an unrecoverable bug.
func (t *Terrain) TileAt(loc units.Location) TileCoord {
	if !(loc.X >= 0) || !(loc.Y >= 0) {
		panic(fmt.Sprintf("terrain: location %v is negative (or NaN)", loc))
	}
	tc := TileCoord{
		X: uint16(uint32(loc.X) / TileSize),
		Y: uint16(uint32(loc.Y) / TileSize),
	}
	if tc.X >= t.EdgeLength || tc.Y >= t.EdgeLength {
		panic(fmt.Sprintf("terrain: location %v outside the map", loc))
	}
	return tc
}

func remEuclid(v, m float32) float32 {
	r := v - m*float32(int32(v/m))
	if r < 0 {
		r += m
	}
	return r
}

// MapLocOnTorus normalizes any location, including negative coordinates,
// into [0, MapSize()) on both axes.
func (t *Terrain) MapLocOnTorus(loc units.Location) units.Location {
	size := t.MapSize()
	loc.X = remEuclid(loc.X, size)
	loc.Y = remEuclid(loc.Y, size)
	// A floating-point remainder of a value just below the modulus can
	// round up to the modulus itself. Keep the result strictly below it.
	if loc.X >= size {
		loc.X = 0
	}
	if loc.Y >= size {
		loc.Y = 0
	}
	return loc
}

// TorusDistance returns the shortest displacement from one location to
// another, per axis independently choosing the direct or the wrap-around
// path, preferring the direct one on ties.
func (t *Terrain) TorusDistance(from, to units.Location) units.Distance {
	from = t.MapLocOnTorus(from)
	to = t.MapLocOnTorus(to)

	d := to.Sub(from)

	size := t.MapSize()
	half := size / 2
	if abs32(d.X) > half {
		d.X = -(size - abs32(d.X)) * sign32(d.X)
	}
	if abs32(d.Y) > half {
		d.Y = -(size - abs32(d.Y)) * sign32(d.Y)
	}
	return d
}

// TorusRemap re-expresses x relative to origin, wrapping onto the torus
// that starts at origin. The result is within one map size of origin.
func (t *Terrain) TorusRemap(origin, x units.Location) units.Location {
	rel := units.Location{X: x.X - origin.X, Y: x.Y - origin.Y}
	mapped := t.MapLocOnTorus(rel)
	return units.Location{X: mapped.X + origin.X, Y: mapped.Y + origin.Y}
}

// RandomTile returns the coordinates of a uniformly drawn tile.
func (t *Terrain) RandomTile(rng *rand.Rand) TileCoord {
	return TileCoord{
		X: uint16(rng.IntN(int(t.EdgeLength))),
		Y: uint16(rng.IntN(int(t.EdgeLength))),
	}
}

// RandomLocation returns a uniformly drawn location within the map.
func (t *Terrain) RandomLocation(rng *rand.Rand) units.Location {
	size := t.MapSize()
	return units.Location{
		X: rng.Float32() * size,
		Y: rng.Float32() * size,
	}
}

// RandomPassableLocation draws locations by rejection sampling until one
// lands on a passable tile. The loop is bounded; exhausting the attempts
// means the map has (almost) no water and is reported as an error.
func (t *Terrain) RandomPassableLocation(rng *rand.Rand) (units.Location, error) {
	for i := 0; i < maxSampleAttempts; i++ {
		candidate := t.RandomLocation(rng)
		if t.Get(t.TileAt(candidate)).IsPassable() {
			return candidate, nil
		}
	}
	return units.Location{}, fmt.Errorf("terrain: no passable location found after %d attempts", maxSampleAttempts)
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
