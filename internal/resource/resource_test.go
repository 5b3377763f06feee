package resource

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/talgya/windward/internal/units"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestStatsTableComplete(t *testing.T) {
	for _, c := range Contents() {
		s := c.Stats()
		if s.Weight == 0 {
			t.Errorf("content %d has zero weight", c)
		}
		if s.SpawnDensity <= 0 {
			t.Errorf("content %d has non-positive spawn density", c)
		}
		if s.SchoolingMin < 1 || s.SchoolingMax <= s.SchoolingMin {
			t.Errorf("content %d has invalid schooling range [%d, %d)", c, s.SchoolingMin, s.SchoolingMax)
		}
		if s.SpawnElevation.Min >= s.SpawnElevation.Max {
			t.Errorf("content %d has empty spawn elevation range", c)
		}
		if s.SpawnLocation.Min >= s.SpawnLocation.Max {
			t.Errorf("content %d has empty spawn location range", c)
		}
		if s.SpeedFactorMin < 1 || s.SpeedFactorMax <= s.SpeedFactorMin {
			t.Errorf("content %d has invalid speed factor range", c)
		}
	}
}

func TestCategories(t *testing.T) {
	cases := []struct {
		c    Content
		want Category
	}{
		{Fish0, CategoryFishy},
		{Fish7, CategoryFishy},
		{Starfish0, CategoryStarfish},
		{Starfish4, CategoryStarfish},
		{Shoe0, CategoryShoe},
		{Shoe1, CategoryShoe},
		{Grass0, CategoryGrass},
		{Grass1, CategoryGrass},
	}
	for _, c := range cases {
		if got := c.c.Category(); got != c.want {
			t.Errorf("Category(%d) = %v, want %v", c.c, got, c.want)
		}
	}
}

func TestNewDrawsWithinRanges(t *testing.T) {
	rng := testRNG(11)
	for _, c := range Contents() {
		s := c.Stats()
		for i := 0; i < 50; i++ {
			p := New(units.Location{X: 10, Y: 10}, c, rng)
			if !s.SpawnElevation.Contains(p.Elevation) {
				t.Fatalf("content %d: elevation %d outside spawn range", c, p.Elevation)
			}
			if p.Phase < 0 || p.Phase >= 2*math.Pi+1e-3 {
				t.Fatalf("content %d: phase %v outside [0, 2π)", c, p.Phase)
			}
			if p.SpeedFactor < s.SpeedFactorMin || p.SpeedFactor >= s.SpeedFactorMax {
				t.Fatalf("content %d: speed factor %d outside range", c, p.SpeedFactor)
			}
		}
	}
}

func TestUpdateRestartable(t *testing.T) {
	rng := testRNG(5)
	p := New(units.Location{X: 50, Y: 50}, Fish0, rng)

	// Stepping through ticks one by one must land on the same state as
	// jumping straight to the target tick.
	q := p
	for tick := units.Tick(1); tick <= 500; tick++ {
		q.Update(tick)
	}

	r := p
	r.Update(units.Tick(500))

	if q.Loc != r.Loc || q.Ori != r.Ori {
		t.Fatalf("animation accumulated state: stepped %v/%v, jumped %v/%v",
			q.Loc, q.Ori, r.Loc, r.Ori)
	}
}

func TestUpdatePeriodic(t *testing.T) {
	rng := testRNG(9)
	p := New(units.Location{X: 0, Y: 0}, Fish2, rng)
	d := p.Duration()

	a := p
	a.Update(units.Tick(17))
	b := p
	b.Update(units.Tick(17 + d))

	if math.Abs(float64(a.Loc.X-b.Loc.X)) > 1e-4 || math.Abs(float64(a.Loc.Y-b.Loc.Y)) > 1e-4 {
		t.Fatalf("animation is not periodic: %v vs %v after %d ticks", a.Loc, b.Loc, d)
	}
}

func TestUpdateStaysNearOrigin(t *testing.T) {
	rng := testRNG(3)
	for _, c := range []Content{Fish0, Starfish0, Grass0} {
		p := New(units.Location{X: 100, Y: 100}, c, rng)
		for tick := units.Tick(0); tick < 2000; tick += 13 {
			p.Update(tick)
			d := p.Loc.Sub(p.Origin)
			// Three unit harmonics can never stray further than 3 m.
			if d.Magnitude() > 3.0+1e-3 {
				t.Fatalf("content %d drifted %v m from origin", c, d.Magnitude())
			}
		}
	}
}
