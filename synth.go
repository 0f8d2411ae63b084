package statsboard

import (
	"math/rand"

	"github.com/cloudradar-monitoring/statsboard/pkg/utils"
)

// Synthesize returns a plausible random snapshot used when the stats endpoint is unavailable.
// Fields are drawn independently so status counts may exceed the total.
func Synthesize(r *rand.Rand) StatsSnapshot {
	return StatsSnapshot{
		TotalRequests: utils.RandomUint64(r, 500, 1000),
		Status200:     utils.RandomUint64(r, 400, 800),
		Status404:     utils.RandomUint64(r, 50, 150),
		Status500:     utils.RandomUint64(r, 10, 50),
		BytesServed:   utils.RandomUint64(r, 0, 1000000000),
		CacheHits:     utils.RandomUint64(r, 300, 600),
		CacheMisses:   utils.RandomUint64(r, 100, 200),
	}
}

// AvgResponseTime is decorative, nothing is measured
func AvgResponseTime(r *rand.Rand) float64 {
	return utils.RandomFloat(r, 10, 110)
}
