package sim

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/windward/internal/mathx"
	"github.com/talgya/windward/internal/units"
)

const (
	// MaxWindSpeed is the upper bound of the wind magnitude, in m/s.
	MaxWindSpeed = 15.0

	// windChangeIntervalSecs is how long one wind interval lasts. Anchors
	// are drawn at interval boundaries and interpolated in between.
	windChangeIntervalSecs = 32

	// debugWindSpeed is the magnitude used by the wind cheats.
	debugWindSpeed = MaxWindSpeed / 2

	// debugWindTurningSecs is the ramp period of the WindTurning cheat.
	debugWindTurningSecs = 60
)

// windAnchor derives the wind at an interval boundary as a pure function of
// (seed, interval). No RNG state is carried between ticks; replays from any
// tick reconstruct the exact same anchors without replaying history.
func windAnchor(seed, interval uint64) units.Wind {
	rng := rand.New(rand.NewPCG(
		mathx.Hash2(seed, interval),
		mathx.Hash2(interval, seed),
	))
	angle := rng.Float32() * 2 * math.Pi
	magnitude := betaSample52(rng) * MaxWindSpeed
	return units.WindFromPolar(angle, magnitude)
}

// betaSample52 draws from Beta(5, 2) as the 5th order statistic of six
// uniforms. The construction is exact and uses a fixed number of draws, so
// the anchor stream never depends on rejection loop counts.
func betaSample52(rng *rand.Rand) float32 {
	var u [6]float64
	for i := range u {
		u[i] = rng.Float64()
	}
	// Insertion sort; six elements.
	for i := 1; i < len(u); i++ {
		for j := i; j > 0 && u[j] < u[j-1]; j-- {
			u[j], u[j-1] = u[j-1], u[j]
		}
	}
	return float32(u[4])
}

// WindAt computes the prevailing wind for the given tick: a debug override
// if configured, otherwise the anchors of the surrounding interval
// boundaries interpolated linearly by the tick's position within the
// interval. Interpolating the vectors keeps the wind continuous across
// boundaries with zero persistent state.
func WindAt(init *WorldInit, tick units.Tick) units.Wind {
	if dir := init.Dbg.FixedWindDirection; dir != nil {
		return units.WindFromPolar(*dir, debugWindSpeed)
	}
	if init.Dbg.WindTurning {
		period := uint64(debugWindTurningSecs * units.TicksPerSecond)
		angle := 2 * math.Pi * float32(uint64(tick)%period) / float32(period)
		return units.WindFromPolar(angle, debugWindSpeed)
	}

	const intervalTicks = windChangeIntervalSecs * units.TicksPerSecond
	interval := uint64(tick) / intervalTicks
	frac := float32(uint64(tick)%intervalTicks) / float32(intervalTicks)

	a := windAnchor(init.Seed, interval).Vec()
	b := windAnchor(init.Seed, interval+1).Vec()
	blended := a.Scale(1 - frac).Add(b.Scale(frac))
	return units.Wind(blended)
}
