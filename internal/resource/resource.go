// Package resource models the collectable resource packs that drift through
// the water: what kinds exist, how they spawn, and how each instance swims.
//
// A pack's motion is a pure function of its spawn parameters and the current
// tick. Nothing accumulates between ticks, so the animation can be restarted
// at any point in time and always lands on the same position.
package resource

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/windward/internal/units"
)

// Content is the kind of thing inside a resource pack.
type Content uint8

const (
	Fish0 Content = iota
	Fish1
	Fish2
	Fish3
	Fish4
	Fish5
	Fish6
	Fish7
	Starfish0
	Starfish1
	Starfish2
	Starfish3
	Starfish4
	Shoe0
	Shoe1
	Grass0
	Grass1

	contentCount
)

// ContentCount is the number of content kinds.
const ContentCount = int(contentCount)

// Contents lists every content kind in declaration order. Generation
// iterates this slice so spawn order is stable.
func Contents() []Content {
	all := make([]Content, ContentCount)
	for i := range all {
		all[i] = Content(i)
	}
	return all
}

// Category is the coarse grouping of contents, used for collection events.
type Category uint8

const (
	CategoryFishy Category = iota
	CategoryStarfish
	CategoryShoe
	CategoryGrass
)

// Category returns the coarse grouping of the content.
func (c Content) Category() Category {
	switch {
	case c <= Fish7:
		return CategoryFishy
	case c <= Starfish4:
		return CategoryStarfish
	case c <= Shoe1:
		return CategoryShoe
	default:
		return CategoryGrass
	}
}

// Size returns the collision diameter of a pack of this content, in meters.
func (c Content) Size() float32 {
	switch c.Category() {
	case CategoryFishy:
		return 0.8
	case CategoryStarfish:
		return 0.5
	case CategoryShoe:
		return 0.4
	default:
		return 0.6
	}
}

// elevRange is a half-open elevation interval [Min, Max).
type elevRange struct {
	Min, Max units.Elevation
}

// Contains reports whether e lies within the interval.
func (r elevRange) Contains(e units.Elevation) bool {
	return r.Min <= e && e < r.Max
}

// Stats are the static per-content spawn and animation statistics.
type Stats struct {
	// Weight of one pack in kg.
	Weight uint32
	// Value of one pack in money.
	Value uint64
	// SchoolingMin/Max bound the school size, half-open.
	SchoolingMin, SchoolingMax int
	// SpawnDensity is the spawn target in packs per tile.
	SpawnDensity float32
	// SpawnElevation is the depth band the pack itself swims in.
	SpawnElevation elevRange
	// SpawnLocation is the terrain elevation band the pack may spawn over.
	SpawnLocation elevRange
	// ParamsMin/Max bound the two animation shape parameters, half-open.
	ParamsMin, ParamsMax [2]int8
	// SpeedFactorMin/Max bound the animation speed factor, half-open.
	SpeedFactorMin, SpeedFactorMax uint32
}

// noSchooling is the schooling range of contents that spawn alone.
const (
	noSchoolingMin = 1
	noSchoolingMax = 2
)

// statsTable is keyed by the dense content discriminant. The variant set is
// closed, so a plain array beats any form of dispatch.
var statsTable = [ContentCount]Stats{
	Fish0: {
		Weight: 10, Value: 12,
		SchoolingMin: 4, SchoolingMax: 10,
		SpawnDensity:   0.35,
		SpawnElevation: elevRange{-18, -12},
		SpawnLocation:  elevRange{-18, -12},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Fish1: {
		Weight: 20, Value: 25,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.05,
		SpawnElevation: elevRange{-5, 0},
		SpawnLocation:  elevRange{-12, 0},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Fish2: {
		Weight: 15, Value: 17,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.3,
		SpawnElevation: elevRange{-12, -5},
		SpawnLocation:  elevRange{-18, -5},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Fish3: {
		Weight: 8, Value: 8,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.1,
		SpawnElevation: elevRange{-12, -5},
		SpawnLocation:  elevRange{-12, 0},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Fish4: {
		Weight: 5, Value: 10,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.06,
		SpawnElevation: elevRange{-5, 0},
		SpawnLocation:  elevRange{-5, 0},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Fish5: {
		Weight: 6, Value: 5,
		SchoolingMin: 10, SchoolingMax: 15,
		SpawnDensity:   0.5,
		SpawnElevation: elevRange{-18, 0},
		SpawnLocation:  elevRange{-18, 0},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Fish6: {
		Weight: 7, Value: 6,
		SchoolingMin: 5, SchoolingMax: 7,
		SpawnDensity:   0.5,
		SpawnElevation: elevRange{-18, 0},
		SpawnLocation:  elevRange{-18, -5},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Fish7: {
		Weight: 18, Value: 19,
		SchoolingMin: 1, SchoolingMax: 3,
		SpawnDensity:   0.1,
		SpawnElevation: elevRange{-12, -5},
		SpawnLocation:  elevRange{-12, -5},
		ParamsMin:      [2]int8{-9, 2}, ParamsMax: [2]int8{0, 11},
		SpeedFactorMin: 90, SpeedFactorMax: 110,
	},
	Starfish0: {
		Weight: 3, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.05,
		SpawnElevation: elevRange{-3, 0},
		SpawnLocation:  elevRange{-4, 0},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 20, SpeedFactorMax: 30,
	},
	Starfish1: {
		Weight: 5, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.04,
		SpawnElevation: elevRange{-1, 0},
		SpawnLocation:  elevRange{-12, 0},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 20, SpeedFactorMax: 30,
	},
	Starfish2: {
		Weight: 4, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.04,
		SpawnElevation: elevRange{-5, 0},
		SpawnLocation:  elevRange{-12, -5},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 20, SpeedFactorMax: 30,
	},
	Starfish3: {
		Weight: 3, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.02,
		SpawnElevation: elevRange{-18, -12},
		SpawnLocation:  elevRange{-18, -12},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 20, SpeedFactorMax: 30,
	},
	Starfish4: {
		Weight: 3, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.02,
		SpawnElevation: elevRange{-12, -5},
		SpawnLocation:  elevRange{-12, 0},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 20, SpeedFactorMax: 30,
	},
	Shoe0: {
		Weight: 5, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.03,
		SpawnElevation: elevRange{-1, 0},
		SpawnLocation:  elevRange{-12, 0},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 1, SpeedFactorMax: 15,
	},
	Shoe1: {
		Weight: 5, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   0.03,
		SpawnElevation: elevRange{-1, 0},
		SpawnLocation:  elevRange{-18, -5},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 1, SpeedFactorMax: 20,
	},
	Grass0: {
		Weight: 9, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   1.0,
		SpawnElevation: elevRange{-1, 0},
		SpawnLocation:  elevRange{-4, 0},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 1, SpeedFactorMax: 10,
	},
	Grass1: {
		Weight: 10, Value: 1,
		SchoolingMin: noSchoolingMin, SchoolingMax: noSchoolingMax,
		SpawnDensity:   1.0,
		SpawnElevation: elevRange{-1, 0},
		SpawnLocation:  elevRange{-6, -3},
		ParamsMin:      [2]int8{0, 0}, ParamsMax: [2]int8{1, 1},
		SpeedFactorMin: 5, SpeedFactorMax: 15,
	},
}

// Stats returns the static statistics of the content.
func (c Content) Stats() *Stats {
	return &statsTable[c]
}

// SpawnableAt reports whether the content may spawn over terrain of the
// given elevation.
func (c Content) SpawnableAt(terrainElev units.Elevation) bool {
	return c.Stats().SpawnLocation.Contains(terrainElev)
}

// animBaseDuration is the base animation cycle length in seconds; the per
// pack duration is derived from it, the shape parameters and the speed
// factor.
const animBaseDuration = 2

// Pack is one collectable resource instance. All fields besides Loc and Ori
// are fixed at spawn; Loc and Ori are recomputed from the tick counter.
type Pack struct {
	// Content is the kind of resource inside.
	Content Content `json:"content"`
	// Loc is the current animated position in meters.
	Loc units.Location `json:"loc"`
	// Ori is the current animated orientation, zero is world X.
	Ori float32 `json:"ori"`
	// Elevation is the fixed depth the pack swims at.
	Elevation units.Elevation `json:"elevation"`

	// Origin is the anchor location the animation orbits around.
	Origin units.Location `json:"origin"`
	// Params are the two harmonic shape parameters of the swim curve.
	Params [2]int8 `json:"params"`
	// Phase is the animation phase offset in [0, 2π).
	Phase float32 `json:"phase"`
	// SpeedFactor scales the cycle duration.
	SpeedFactor uint32 `json:"speed_factor"`
	// Backwards plays the curve in reverse.
	Backwards bool `json:"backwards"`
}

// New draws a fresh pack of the given content anchored at loc. All
// randomness is drawn from rng up front; afterwards the pack is fully
// deterministic.
func New(loc units.Location, content Content, rng *rand.Rand) Pack {
	stats := content.Stats()
	return Pack{
		Content:   content,
		Elevation: drawElevation(stats.SpawnElevation, rng),
		Origin:    loc,
		Params: [2]int8{
			drawInt8(stats.ParamsMin[0], stats.ParamsMax[0], rng),
			drawInt8(stats.ParamsMin[1], stats.ParamsMax[1], rng),
		},
		Phase:       rng.Float32() * 2 * math.Pi,
		SpeedFactor: stats.SpeedFactorMin + uint32(rng.IntN(int(stats.SpeedFactorMax-stats.SpeedFactorMin))),
		Backwards:   rng.IntN(2) == 1,
	}
}

func drawElevation(r elevRange, rng *rand.Rand) units.Elevation {
	return r.Min + units.Elevation(rng.IntN(int(r.Max-r.Min)))
}

func drawInt8(min, max int8, rng *rand.Rand) int8 {
	if min == max {
		return min
	}
	return min + int8(rng.IntN(int(max-min)))
}

// Duration returns the full animation cycle length in ticks.
func (p *Pack) Duration() uint64 {
	d := uint32(1+abs8(p.Params[0])+abs8(p.Params[1])) * 100 / p.SpeedFactor
	d *= animBaseDuration * units.TicksPerSecond
	if d == 0 {
		d = 1
	}
	return uint64(d)
}

// Update recomputes the animated position and orientation for the given
// tick. The position is a sum of three rotating unit vectors at harmonic
// multiples of the progress angle; the orientation is the arctangent of the
// curve's analytic derivative.
func (p *Pack) Update(tick units.Tick) {
	forwardness := float32(1)
	if p.Backwards {
		forwardness = -1
	}

	duration := p.Duration()
	progress := float64(forwardness) *
		float64(p.Phase+2*math.Pi*float32(uint64(tick)%duration)/float32(duration))

	k1 := float64(p.Params[0])
	k2 := float64(p.Params[1])

	x := math.Sin(progress)
	y := math.Cos(progress)
	dx := math.Cos(progress)
	dy := -math.Sin(progress)

	if p.Params[0] != 0 {
		x += math.Sin(progress * k1)
		y += math.Cos(progress * k1)
		dx += math.Cos(progress*k1) * k1
		dy += -math.Sin(progress*k1) * k1
	}
	if p.Params[1] != 0 {
		x += math.Sin(progress * k2)
		y += math.Cos(progress * k2)
		dx += math.Cos(progress*k2) * k2
		dy += -math.Sin(progress*k2) * k2
	}

	p.Loc = p.Origin.Add(units.Distance{X: float32(x), Y: float32(y)})
	p.Ori = float32(math.Atan2(float64(forwardness)*dy, float64(forwardness)*dx))
}

func abs8(v int8) uint8 {
	if v < 0 {
		return uint8(-int16(v))
	}
	return uint8(v)
}
