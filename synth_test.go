package statsboard

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func assertSynthesizedRanges(t *testing.T, s StatsSnapshot) {
	t.Helper()
	assert.True(t, s.TotalRequests >= 500 && s.TotalRequests < 1500, "total_requests %d", s.TotalRequests)
	assert.True(t, s.Status200 >= 400 && s.Status200 < 1200, "status_200 %d", s.Status200)
	assert.True(t, s.Status404 >= 50 && s.Status404 < 200, "status_404 %d", s.Status404)
	assert.True(t, s.Status500 >= 10 && s.Status500 < 60, "status_500 %d", s.Status500)
	assert.True(t, s.BytesServed < 1000000000, "bytes_served %d", s.BytesServed)
	assert.True(t, s.CacheHits >= 300 && s.CacheHits < 900, "cache_hits %d", s.CacheHits)
	assert.True(t, s.CacheMisses >= 100 && s.CacheMisses < 300, "cache_misses %d", s.CacheMisses)
}

func TestSynthesizeRanges(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		assertSynthesizedRanges(t, Synthesize(r))
	}
}

func TestSynthesizedPercentages(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	start := time.Unix(1600000000, 0)
	state := NewPollerState(start, DefaultHistorySize)

	for i := 0; i < 200; i++ {
		s := Synthesize(r)
		v := Render(Synthesized(s, nil), state, start.Add(time.Minute), r)

		total := float64(s.TotalRequests)
		assert.Equal(t, fmt.Sprintf("%.1f%% of total", float64(s.Status200)/total*100), v.Percent200)
		assert.Equal(t, fmt.Sprintf("%.1f%% of total", float64(s.Status404)/total*100), v.Percent404)
		assert.Equal(t, fmt.Sprintf("%.1f%% of total", float64(s.Status500)/total*100), v.Percent500)
	}
}

func TestAvgResponseTime(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := AvgResponseTime(r)
		assert.True(t, v >= 10 && v < 110, "%f", v)
	}
}
