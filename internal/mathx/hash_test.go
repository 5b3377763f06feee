package mathx

import "testing"

func TestHash2Stable(t *testing.T) {
	if Hash2(42, 7) != Hash2(42, 7) {
		t.Fatal("Hash2 is not deterministic")
	}
}

func TestHash2Decorrelates(t *testing.T) {
	seen := make(map[uint64]bool)
	for seed := uint64(0); seed < 16; seed++ {
		for counter := uint64(0); counter < 16; counter++ {
			h := Hash2(seed, counter)
			if seen[h] {
				t.Fatalf("collision for seed=%d counter=%d", seed, counter)
			}
			seen[h] = true
		}
	}
}

func TestHash64Avalanches(t *testing.T) {
	// Flipping a single input bit should flip many output bits.
	base := Hash64(0x12345678)
	for bit := 0; bit < 64; bit++ {
		diff := base ^ Hash64(0x12345678^(1<<bit))
		flipped := 0
		for d := diff; d != 0; d &= d - 1 {
			flipped++
		}
		if flipped < 10 {
			t.Fatalf("bit %d only flipped %d output bits", bit, flipped)
		}
	}
}
