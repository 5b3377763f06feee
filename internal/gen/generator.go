// Package gen constructs complete worlds from a Setting and a seed:
// noise-derived terrain, rejection-sampled harbors and per-content resource
// schools. Generation is a pure function of the seed: the same seed and
// setting always produce the bit-identical world.
package gen

import (
	"fmt"
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/windward/internal/mathx"
	"github.com/talgya/windward/internal/resource"
	"github.com/talgya/windward/internal/sim"
	"github.com/talgya/windward/internal/terrain"
	"github.com/talgya/windward/internal/units"
)

// noiseFrequency scales tile coordinates into noise space. Roughly one
// terrain feature per 2π tiles.
const noiseFrequency = 1.0 / (2.0 * math.Pi)

// elevationScale maps the noise range [-1, 1] into elevation units.
const elevationScale = 18.0

// tilesPerHarbor sets the harbor target: one harbor per this many tiles of
// map area, with a minimum of one.
const tilesPerHarbor = 256

// Sampling attempt budgets. Rejection sampling terminates only
// probabilistically; these caps turn degenerate maps (all land, no shallow
// water) into errors instead of hangs.
const (
	harborAttemptsPerTarget   = 1000
	resourceAttemptsPerTarget = 100
)

// phaseJitter is the per-school-member animation phase spread, radians.
const phaseJitter = 0.8

// Generate builds a new world from the setting, seeded by seed.
func Generate(setting sim.Setting, seed uint64) (*sim.World, error) {
	if setting.EdgeLength == 0 {
		return nil, fmt.Errorf("gen: edge length must be positive")
	}
	if setting.ResourceDensity < 0 {
		return nil, fmt.Errorf("gen: resource density must not be negative")
	}

	rng := rand.New(rand.NewPCG(mathx.Hash64(seed), mathx.Hash2(seed, 1)))

	terr := generateTerrain(setting.EdgeLength, seed)

	init := sim.WorldInit{
		Terrain: terr,
		Seed:    seed,
		Setting: setting,
	}

	spawn, err := terr.RandomPassableLocation(rng)
	if err != nil {
		return nil, fmt.Errorf("gen: placing player: %w", err)
	}

	harbors, err := placeHarbors(terr, rng)
	if err != nil {
		return nil, fmt.Errorf("gen: placing harbors: %w", err)
	}

	resources := spawnResources(terr, setting.ResourceDensity, rng)

	state := sim.WorldState{
		Player: sim.Player{
			Vehicle: sim.Vehicle{
				Hull:    sim.HullSmall,
				Pos:     spawn,
				Heading: rng.Float32() * 2 * math.Pi,
				Sail:    sim.Sail{Kind: sim.SailCog},
			},
		},
		Resources: resources,
		Harbors:   harbors,
	}
	state.Wind = sim.WindAt(&init, state.Timestamp)

	return &sim.World{Init: init, State: state}, nil
}

// generateTerrain samples a 2D gradient-noise field at a fixed frequency
// and maps it into the elevation range.
func generateTerrain(edgeLength uint16, seed uint64) *terrain.Terrain {
	terr := terrain.New(edgeLength)
	noise := opensimplex.New(int64(seed))

	for y := uint16(0); y < edgeLength; y++ {
		for x := uint16(0); x < edgeLength; x++ {
			v := noise.Eval2(float64(x)*noiseFrequency, float64(y)*noiseFrequency)
			elev := units.Elevation(math.Round(v * elevationScale))
			terr.Set(terrain.TileCoord{X: x, Y: y}, elev)
		}
	}
	return terr
}

// placeHarbors rejection-samples harbor locations: passable draws are
// accepted only when the tile sits in the shallow water band.
func placeHarbors(terr *terrain.Terrain, rng *rand.Rand) ([]sim.Harbor, error) {
	area := int(terr.EdgeLength) * int(terr.EdgeLength)
	target := area / tilesPerHarbor
	if target < 1 {
		target = 1
	}

	harbors := make([]sim.Harbor, 0, target)
	budget := harborAttemptsPerTarget * target
	for len(harbors) < target && budget > 0 {
		budget--

		loc, err := terr.RandomPassableLocation(rng)
		if err != nil {
			return nil, err
		}
		if terr.Get(terr.TileAt(loc)).Class() != units.ShallowWater {
			continue
		}

		harbors = append(harbors, sim.Harbor{
			Loc:         loc,
			Orientation: rng.Float32() * 2 * math.Pi,
		})
	}

	if len(harbors) < target {
		return nil, fmt.Errorf("gen: found only %d of %d harbor sites, map lacks shallow water", len(harbors), target)
	}
	return harbors, nil
}

// spawnResources spawns schools per content type until each type's density
// target is met or its attempt budget runs out. A school shares one
// animation curve; members get independently jittered phases and a small
// positional offset.
func spawnResources(terr *terrain.Terrain, density float32, rng *rand.Rand) []resource.Pack {
	area := float32(terr.EdgeLength) * float32(terr.EdgeLength)

	var packs []resource.Pack
	for _, content := range resource.Contents() {
		stats := content.Stats()
		target := int(area * stats.SpawnDensity * density)

		spawned := 0
		budget := resourceAttemptsPerTarget * (target + 1)
		for spawned < target && budget > 0 {
			budget--

			loc := terr.RandomLocation(rng)
			if !content.SpawnableAt(terr.Get(terr.TileAt(loc))) {
				continue
			}

			size := stats.SchoolingMin + rng.IntN(stats.SchoolingMax-stats.SchoolingMin)
			school := spawnSchool(terr, loc, content, size, rng)
			packs = append(packs, school...)
			spawned += len(school)
		}
	}
	return packs
}

// spawnSchool emits up to size packs around the anchor. Members landing
// over unsuitable terrain are dropped rather than re-rolled, so a school at
// the edge of its content's band may come up short.
func spawnSchool(terr *terrain.Terrain, anchor units.Location, content resource.Content, size int, rng *rand.Rand) []resource.Pack {
	base := resource.New(anchor, content, rng)

	school := make([]resource.Pack, 0, size)
	for i := 0; i < size; i++ {
		offset := units.Distance{
			X: (rng.Float32() - 0.5) * terrain.TileSize,
			Y: (rng.Float32() - 0.5) * terrain.TileSize,
		}
		origin := terr.MapLocOnTorus(anchor.Add(offset))

		seabed := terr.Get(terr.TileAt(origin))
		if !content.SpawnableAt(seabed) {
			continue
		}

		member := base
		member.Origin = origin
		member.Phase += (rng.Float32() - 0.5) * phaseJitter
		// Never below the seabed.
		if member.Elevation < seabed {
			member.Elevation = seabed
		}
		member.Update(0)

		school = append(school, member)
	}
	return school
}
