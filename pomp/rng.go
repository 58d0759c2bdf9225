package pomp

import "golang.org/x/exp/rand"

// NewStream returns an independently seeded random stream. Distinct
// (seed, stream) pairs yield statistically independent streams, so each
// particle and each search replicate can own its own source without
// correlating their Monte Carlo error.
func NewStream(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewSource(DeriveSeed(seed, stream)))
}

// DeriveSeed returns the seed of the given stream index under a master seed.
// Useful when a subcomputation needs a whole family of streams of its own.
func DeriveSeed(seed, stream uint64) uint64 {
	return mix(seed, stream)
}

// mix is the splitmix64 finalizer applied to a golden-ratio stride; it
// decorrelates consecutive stream indices under a shared seed.
func mix(seed, stream uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15*(stream+1)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
