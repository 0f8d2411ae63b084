package stats

// BoardStats holds application stats
type BoardStats struct {
	StartedAt uint64

	PollerTicks        uint64
	SnapshotsFetched   uint64
	SnapshotsGenerated uint64

	FetchErrorsTotal        uint64
	FetchLastErrorMessage   string
	FetchLastErrorTimestamp uint64
	BytesFetchedTotal       uint64

	JitterTicks uint64

	InternalErrorsTotal        uint64
	InternalLastErrorMessage   string
	InternalLastErrorTimestamp uint64

	Uptime uint64
}
