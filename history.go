package statsboard

import (
	"sync"
	"time"
)

const DefaultHistorySize = 20

// History keeps the last N request totals in arrival order.
// Once full, every Push drops the oldest point.
type History struct {
	lock     sync.Mutex
	capacity int
	points   []HistoryPoint
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		capacity: capacity,
		points:   make([]HistoryPoint, 0, capacity+1),
	}
}

func (h *History) Push(t time.Time, totalRequests uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.points = append(h.points, HistoryPoint{Time: t, TotalRequests: totalRequests})
	if len(h.points) > h.capacity {
		copy(h.points, h.points[1:])
		h.points = h.points[:h.capacity]
	}
}

// Points returns a copy of the stored points, oldest first
func (h *History) Points() []HistoryPoint {
	h.lock.Lock()
	defer h.lock.Unlock()

	res := make([]HistoryPoint, len(h.points))
	copy(res, h.points)
	return res
}

func (h *History) Len() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.points)
}

func (h *History) Cap() int {
	return h.capacity
}
