package statsboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktest "k8s.io/utils/clock/testing"
)

func helperConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewConfig()
	cfg.LogFile = ""
	cfg.Listen = ""
	return cfg
}

func helperBoard(t *testing.T, cfg *Config, fetcher Fetcher) (*Board, *clocktest.FakeClock) {
	t.Helper()
	fc := clocktest.NewFakeClock(testStart)
	return NewWithClock(cfg, "1.2.3", fc, fetcher), fc
}

func TestBoardRenderOnce(t *testing.T) {
	b, fc := helperBoard(t, helperConfig(t), fixedFetcher(StatsSnapshot{TotalRequests: 1000, Status200: 800}))
	fc.Step(time.Minute)

	var buf bytes.Buffer
	require.Nil(t, b.RenderOnce(context.Background(), &buf))

	var out struct {
		Source string            `json:"source"`
		Slots  map[string]string `json:"slots"`
	}
	require.Nil(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "fetched", out.Source)
	assert.Len(t, out.Slots, len(SlotIDs))
	assert.Equal(t, "80.0% of total", out.Slots[SlotPercent200])
	assert.Equal(t, "0h 1m", out.Slots[SlotUptime])
}

func TestBoardRunWithMockStats(t *testing.T) {
	srv := NewMockStatsServer("localhost:0")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	srv.Recorder().Update(200, 1024*1024)

	cfg := helperConfig(t)
	cfg.StatsURL = ts.URL + "/api/stats"
	fc := clocktest.NewFakeClock(testStart)
	b := NewWithClock(cfg, "1.2.3", fc, NewStatsClient(cfg, "1.2.3"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		text, _ := b.Registry.Text(SlotBytesServed)
		return text == "1.00 MB"
	}, 2*time.Second, time.Millisecond)

	// both tickers registered
	require.Eventually(t, func() bool {
		s := b.Stats()
		return s.PollerTicks == 1 && fc.Waiters() == 2
	}, time.Second, time.Millisecond)

	fc.Step(2 * time.Second)
	require.Eventually(t, func() bool {
		s := b.Stats()
		return s.PollerTicks == 2 && s.JitterTicks == 1
	}, 2*time.Second, time.Millisecond)

	s := b.Stats()
	assert.Equal(t, uint64(2), s.SnapshotsFetched)
	assert.Equal(t, uint64(0), s.SnapshotsGenerated)
	assert.True(t, s.BytesFetchedTotal > 0)
	assert.Equal(t, uint64(2), s.Uptime)

	_, ok := b.Registry.Style(ElementHeart, AnimationDurationProperty)
	assert.True(t, ok)

	cancel()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("board did not stop")
	}
}

func TestBoardCountsFallbacks(t *testing.T) {
	b, _ := helperBoard(t, helperConfig(t), failingFetcher())

	b.Poller.Tick(context.Background())
	b.Poller.Tick(context.Background())

	s := b.Stats()
	assert.Equal(t, uint64(2), s.PollerTicks)
	assert.Equal(t, uint64(2), s.SnapshotsGenerated)
	assert.Equal(t, uint64(2), s.FetchErrorsTotal)
	assert.Contains(t, s.FetchLastErrorMessage, "connection refused")
	assert.Equal(t, uint64(testStart.Unix()), s.FetchLastErrorTimestamp)
}

func TestBoardSetLogLevel(t *testing.T) {
	b, _ := helperBoard(t, helperConfig(t), failingFetcher())
	b.SetLogLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, b.Config.LogLevel)
	b.SetLogLevel(LogLevelInfo)
}

func countHooks(logger *logrus.Logger) int {
	n := 0
	for _, hooks := range logger.Hooks {
		n += len(hooks)
	}
	return n
}

func TestNewWithClockLeavesStandardLoggerHooks(t *testing.T) {
	captureLogs(t, logrus.InfoLevel)
	before := countHooks(logrus.StandardLogger())

	cfg := helperConfig(t)
	cfg.LogSyslog = "local"
	b, _ := helperBoard(t, cfg, failingFetcher())
	assert.Equal(t, before, countHooks(logrus.StandardLogger()))

	logrus.Error("unrelated error")
	assert.Equal(t, uint64(0), b.Stats().InternalErrorsTotal)
}
