package statsboard

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/cloudradar-monitoring/statsboard/pkg/stats"
)

type Board struct {
	Config *Config

	Registry *Registry
	Poller   *StatsPoller
	Jitter   *AnimationJitter

	clock     clock.WithTicker
	startedAt time.Time

	statsLock sync.Mutex
	stats     *stats.BoardStats

	version string
}

// New wires the board with the real clock and attaches the log hooks
// to the standard logger. It is meant to be called once per process.
func New(cfg *Config, version string) *Board {
	b := NewWithClock(cfg, version, clock.RealClock{}, NewStatsClient(cfg, version))
	b.addLogHooks()
	return b
}

func NewWithClock(cfg *Config, version string, clk clock.WithTicker, fetcher Fetcher) *Board {
	b := &Board{
		Config:    cfg,
		Registry:  NewRegistry(DefaultElements...),
		clock:     clk,
		startedAt: clk.Now(),
		stats:     &stats.BoardStats{},
		version:   version,
	}
	b.stats.StartedAt = uint64(b.startedAt.Unix())

	if sc, ok := fetcher.(*StatsClient); ok {
		sc.onBytesRead = b.countBytesFetched
	}

	seed := clk.Now().UnixNano()
	b.Poller = NewStatsPoller(fetcher, b.Registry, clk, rand.New(rand.NewSource(seed)), cfg)
	b.Poller.OnSample = b.countSample
	b.Jitter = NewAnimationJitter(b.Registry, clk, rand.New(rand.NewSource(seed+1)), cfg)
	b.Jitter.OnTick = b.countJitter

	return b
}

func (b *Board) addLogHooks() {
	addErrorHook(&b.statsLock, b.stats)

	if b.Config.LogFile != "" {
		err := addLogFileHook(b.Config.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			logrus.Error("Can't write logs to file: ", err.Error())
		}
	}

	if b.Config.LogSyslog != "" {
		err := addSyslogHook(b.Config.LogSyslog)
		if err != nil {
			logrus.Error("Can't set up syslog: ", err.Error())
		}
	}
}

func (b *Board) SetVersion(version string) {
	b.version = version
}

// Run starts the poller, the jitter and the board server (when listen is set)
// and blocks until ctx is done or the server fails
func (b *Board) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.Poller.Run(ctx)
	})
	g.Go(func() error {
		return b.Jitter.Run(ctx)
	})

	if b.Config.Listen != "" {
		srv := &http.Server{
			Addr:    b.Config.Listen,
			Handler: b.Handler(),
		}
		g.Go(func() error {
			logrus.Infof("board listening at http://%s", b.Config.Listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "board server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// RenderOnce performs a single refresh and writes the slots as JSON to w
func (b *Board) RenderOnce(ctx context.Context, w io.Writer) error {
	sample := b.Poller.Tick(ctx)

	slots := make(map[string]string, len(SlotIDs))
	for _, id := range SlotIDs {
		slots[id], _ = b.Registry.Text(id)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(struct {
		Source SampleSource      `json:"source"`
		Slots  map[string]string `json:"slots"`
	}{sample.Source, slots})
}

// Stats returns a copy of the process counters
func (b *Board) Stats() stats.BoardStats {
	b.statsLock.Lock()
	defer b.statsLock.Unlock()

	s := *b.stats
	s.Uptime = uint64(b.clock.Since(b.startedAt).Seconds())
	return s
}

func (b *Board) countSample(s Sample) {
	b.statsLock.Lock()
	defer b.statsLock.Unlock()

	b.stats.PollerTicks++
	if !s.IsSynthesized() {
		b.stats.SnapshotsFetched++
		return
	}

	b.stats.SnapshotsGenerated++
	if s.Err != nil {
		b.stats.FetchErrorsTotal++
		b.stats.FetchLastErrorMessage = s.Err.Error()
		b.stats.FetchLastErrorTimestamp = uint64(b.clock.Now().Unix())
	}
}

func (b *Board) countJitter(string) {
	b.statsLock.Lock()
	b.stats.JitterTicks++
	b.statsLock.Unlock()
}

func (b *Board) countBytesFetched(n uint64) {
	b.statsLock.Lock()
	b.stats.BytesFetchedTotal += n
	b.statsLock.Unlock()
}
