package utils

import "math/rand"

// RandomUint64 returns base + [0, span) drawn from r
func RandomUint64(r *rand.Rand, base, span int64) uint64 {
	if span <= 0 {
		return uint64(base)
	}
	return uint64(base + r.Int63n(span))
}

// RandomFloat returns a value in [min, max)
func RandomFloat(r *rand.Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}
