// Package mathx provides fast deterministic hashing for seed derivation.
// The mixers are stable by construction (no RNG state involved), so values
// derived from them are reproducible across runs and platforms.
package mathx

// Hash64 mixes a 64-bit input into a well-distributed 64-bit output using a
// SplitMix64-style finalizer.
func Hash64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Hash2 returns a stable hash for a (seed, counter) pair. Large odd
// constants decorrelate the two inputs before the final mix.
func Hash2(seed, counter uint64) uint64 {
	h := seed
	h ^= counter * 0x9e3779b97f4a7c15
	return Hash64(h)
}
