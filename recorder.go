package statsboard

import (
	"net/http"
	"sync"
)

// StatsRecorder counts the traffic of a web server.
// All methods are safe for concurrent use.
type StatsRecorder struct {
	lock sync.Mutex

	totalRequests     uint64
	bytesTransferred  uint64
	byStatus          map[int]uint64
	activeConnections int64
	cacheHits         uint64
	cacheMisses       uint64
}

// tracked status codes, others only count into the total
var recordedStatuses = []int{
	http.StatusOK,
	http.StatusBadRequest,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusInternalServerError,
}

func NewStatsRecorder() *StatsRecorder {
	rec := &StatsRecorder{byStatus: make(map[int]uint64, len(recordedStatuses))}
	for _, code := range recordedStatuses {
		rec.byStatus[code] = 0
	}
	return rec
}

// Update records one served request
func (rec *StatsRecorder) Update(statusCode int, bytes uint64) {
	rec.lock.Lock()
	defer rec.lock.Unlock()

	rec.totalRequests++
	rec.bytesTransferred += bytes
	if _, tracked := rec.byStatus[statusCode]; tracked {
		rec.byStatus[statusCode]++
	}
}

func (rec *StatsRecorder) ConnectionStart() {
	rec.lock.Lock()
	rec.activeConnections++
	rec.lock.Unlock()
}

func (rec *StatsRecorder) ConnectionEnd() {
	rec.lock.Lock()
	if rec.activeConnections > 0 {
		rec.activeConnections--
	}
	rec.lock.Unlock()
}

func (rec *StatsRecorder) CacheHit() {
	rec.lock.Lock()
	rec.cacheHits++
	rec.lock.Unlock()
}

func (rec *StatsRecorder) CacheMiss() {
	rec.lock.Lock()
	rec.cacheMisses++
	rec.lock.Unlock()
}

func (rec *StatsRecorder) ActiveConnections() int64 {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	return rec.activeConnections
}

// StatusCount returns the count of a tracked status code
func (rec *StatsRecorder) StatusCount(statusCode int) uint64 {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	return rec.byStatus[statusCode]
}

// Snapshot copies the counters served by /api/stats
func (rec *StatsRecorder) Snapshot() StatsSnapshot {
	rec.lock.Lock()
	defer rec.lock.Unlock()

	return StatsSnapshot{
		TotalRequests: rec.totalRequests,
		Status200:     rec.byStatus[http.StatusOK],
		Status404:     rec.byStatus[http.StatusNotFound],
		Status500:     rec.byStatus[http.StatusInternalServerError],
		BytesServed:   rec.bytesTransferred,
		CacheHits:     rec.cacheHits,
		CacheMisses:   rec.cacheMisses,
	}
}
