package statsboard

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	SlotTotalRequests   = "totalRequests"
	SlotRequests200     = "requests200"
	SlotRequests404     = "requests404"
	SlotRequests500     = "requests500"
	SlotPercent200      = "percent200"
	SlotPercent404      = "percent404"
	SlotPercent500      = "percent500"
	SlotBytesServed     = "bytesServed"
	SlotCacheHitRate    = "cacheHitRate"
	SlotCacheHits       = "cacheHits"
	SlotCacheMisses     = "cacheMisses"
	SlotLastUpdate      = "lastUpdate"
	SlotUptime          = "uptime"
	SlotAvgResponseTime = "avgResponseTime"
	SlotReqPerSec       = "reqPerSec"
)

// SlotIDs lists the dashboard slots in the order they are written
var SlotIDs = []string{
	SlotTotalRequests,
	SlotRequests200,
	SlotRequests404,
	SlotRequests500,
	SlotPercent200,
	SlotPercent404,
	SlotPercent500,
	SlotBytesServed,
	SlotCacheHitRate,
	SlotCacheHits,
	SlotCacheMisses,
	SlotLastUpdate,
	SlotUptime,
	SlotAvgResponseTime,
	SlotReqPerSec,
}

const (
	lastUpdateLayout  = "1/2/2006, 3:04:05 PM"
	mebibyte          = 1024 * 1024
	minElapsedSeconds = 0.001
)

var numberPrinter = message.NewPrinter(language.AmericanEnglish)

// PollerState is the poller's own state, created once at startup
type PollerState struct {
	StartedAt time.Time
	History   *History
}

func NewPollerState(startedAt time.Time, historySize int) *PollerState {
	return &PollerState{
		StartedAt: startedAt,
		History:   NewHistory(historySize),
	}
}

// View is the formatted dashboard for one sample
type View struct {
	Source SampleSource

	TotalRequests   string
	Requests200     string
	Requests404     string
	Requests500     string
	Percent200      string
	Percent404      string
	Percent500      string
	BytesServed     string
	CacheHitRate    string
	CacheHits       string
	CacheMisses     string
	LastUpdate      string
	Uptime          string
	AvgResponseTime string
	ReqPerSec       string
}

// Slots maps every slot id to its text
func (v View) Slots() map[string]string {
	return map[string]string{
		SlotTotalRequests:   v.TotalRequests,
		SlotRequests200:     v.Requests200,
		SlotRequests404:     v.Requests404,
		SlotRequests500:     v.Requests500,
		SlotPercent200:      v.Percent200,
		SlotPercent404:      v.Percent404,
		SlotPercent500:      v.Percent500,
		SlotBytesServed:     v.BytesServed,
		SlotCacheHitRate:    v.CacheHitRate,
		SlotCacheHits:       v.CacheHits,
		SlotCacheMisses:     v.CacheMisses,
		SlotLastUpdate:      v.LastUpdate,
		SlotUptime:          v.Uptime,
		SlotAvgResponseTime: v.AvgResponseTime,
		SlotReqPerSec:       v.ReqPerSec,
	}
}

// Render formats the sample and records its total into the state history.
// r is only used for the decorative average response time.
func Render(sample Sample, state *PollerState, now time.Time, r *rand.Rand) View {
	s := sample.Snapshot

	total := s.TotalRequests
	if total == 0 {
		total = 1
	}
	cacheTotal := s.CacheHits + s.CacheMisses
	if cacheTotal == 0 {
		cacheTotal = 1
	}

	state.History.Push(now, s.TotalRequests)

	elapsed := now.Sub(state.StartedAt)
	hours, minutes := Uptime(elapsed)

	elapsedSeconds := elapsed.Seconds()
	if elapsedSeconds < minElapsedSeconds {
		elapsedSeconds = minElapsedSeconds
	}

	return View{
		Source:          sample.Source,
		TotalRequests:   FormatCount(s.TotalRequests),
		Requests200:     FormatCount(s.Status200),
		Requests404:     FormatCount(s.Status404),
		Requests500:     FormatCount(s.Status500),
		Percent200:      toFixed(Percent(s.Status200, total), 1) + "% of total",
		Percent404:      toFixed(Percent(s.Status404, total), 1) + "% of total",
		Percent500:      toFixed(Percent(s.Status500, total), 1) + "% of total",
		BytesServed:     toFixed(float64(s.BytesServed)/mebibyte, 2) + " MB",
		CacheHitRate:    toFixed(Percent(s.CacheHits, cacheTotal), 1) + "%",
		CacheHits:       FormatCount(s.CacheHits),
		CacheMisses:     FormatCount(s.CacheMisses),
		LastUpdate:      now.Local().Format(lastUpdateLayout),
		Uptime:          fmt.Sprintf("%dh %dm", hours, minutes),
		AvgResponseTime: toFixed(AvgResponseTime(r), 0) + "ms",
		ReqPerSec:       toFixed(float64(s.TotalRequests)/elapsedSeconds, 2) + " req/s",
	}
}

// Percent returns part/whole*100, whole must not be 0
func Percent(part, whole uint64) float64 {
	return float64(part) / float64(whole) * 100
}

// FormatCount formats n with en-US digit grouping
func FormatCount(n uint64) string {
	return numberPrinter.Sprintf("%d", n)
}

// Uptime splits elapsed into whole hours and the whole minutes that remain
func Uptime(elapsed time.Duration) (hours, minutes int64) {
	ms := elapsed.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return ms / 3600000, (ms % 3600000) / 60000
}

// toFixed formats x with the given number of decimals, rounding halves away from zero.
// The decision is made on the exact decimal expansion of x, so 0.125 gives "0.13"
// while 1.005 (stored as 1.00499...) gives "1.00".
func toFixed(x float64, digits int) string {
	neg := x < 0
	if neg {
		x = -x
	}

	exact := new(big.Float).SetFloat64(x).Text('f', 64)
	point := strings.IndexByte(exact, '.')
	kept := []byte(exact[:point] + exact[point+1:point+1+digits])
	if exact[point+1+digits] >= '5' {
		kept = incrementDecimal(kept)
	}

	intLen := len(kept) - digits
	res := string(kept[:intLen])
	if digits > 0 {
		res += "." + string(kept[intLen:])
	}
	if neg && strings.Trim(res, "0.") != "" {
		res = "-" + res
	}
	return res
}

func incrementDecimal(d []byte) []byte {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i] < '9' {
			d[i]++
			return d
		}
		d[i] = '0'
	}
	return append([]byte{'1'}, d...)
}
