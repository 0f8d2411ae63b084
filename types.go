package statsboard

import "time"

// StatsSnapshot is one sampled set of traffic counters as served by /api/stats
type StatsSnapshot struct {
	TotalRequests uint64 `json:"total_requests"`
	Status200     uint64 `json:"status_200"`
	Status404     uint64 `json:"status_404"`
	Status500     uint64 `json:"status_500"`
	BytesServed   uint64 `json:"bytes_served"`
	CacheHits     uint64 `json:"cache_hits"`
	CacheMisses   uint64 `json:"cache_misses"`
}

type SampleSource string

const (
	SourceFetched     SampleSource = "fetched"
	SourceSynthesized SampleSource = "synthesized"
)

// Sample is the outcome of one refresh: either a fetched snapshot or a synthesized one.
// Err is set only for synthesized samples and tells why the endpoint was not used.
type Sample struct {
	Source   SampleSource
	Snapshot StatsSnapshot
	Err      error
}

func Fetched(s StatsSnapshot) Sample {
	return Sample{Source: SourceFetched, Snapshot: s}
}

func Synthesized(s StatsSnapshot, err error) Sample {
	return Sample{Source: SourceSynthesized, Snapshot: s, Err: err}
}

func (s Sample) IsSynthesized() bool {
	return s.Source == SourceSynthesized
}

// HistoryPoint is one entry of the recent requests history
type HistoryPoint struct {
	Time          time.Time `json:"time"`
	TotalRequests uint64    `json:"requests"`
}

// ElementUpdate describes a change applied to a display element
type ElementUpdate struct {
	ID       string `json:"id"`
	Text     string `json:"text,omitempty"`
	Property string `json:"property,omitempty"`
	Value    string `json:"value,omitempty"`
}

// Element is the current state of a display element
type Element struct {
	Text   string            `json:"text"`
	Styles map[string]string `json:"styles,omitempty"`
}
