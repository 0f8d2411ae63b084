package statsboard

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// StatsPoller refreshes the dashboard slots on a fixed interval
type StatsPoller struct {
	fetcher  Fetcher
	display  Display
	clock    clock.WithTicker
	rand     *rand.Rand
	interval time.Duration
	timeout  time.Duration

	state *PollerState

	// OnSample is called after every refresh, before the slots are written
	OnSample func(Sample)
}

func NewStatsPoller(fetcher Fetcher, display Display, clk clock.WithTicker, r *rand.Rand, cfg *Config) *StatsPoller {
	return &StatsPoller{
		fetcher:  fetcher,
		display:  display,
		clock:    clk,
		rand:     r,
		interval: secToDuration(cfg.RefreshInterval),
		timeout:  secToDuration(cfg.FetchTimeout),
		state:    NewPollerState(clk.Now(), cfg.HistorySize),
	}
}

func (p *StatsPoller) State() *PollerState {
	return p.state
}

// Sample fetches a snapshot, falling back to synthetic data on any error
func (p *StatsPoller) Sample(ctx context.Context) Sample {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	snapshot, err := p.fetcher.Fetch(ctx)
	if err != nil {
		logrus.WithError(err).Infoln("Using mock data")
		return Synthesized(Synthesize(p.rand), err)
	}
	return Fetched(*snapshot)
}

// Tick runs one refresh cycle and returns the sample it rendered
func (p *StatsPoller) Tick(ctx context.Context) Sample {
	sample := p.Sample(ctx)
	if p.OnSample != nil {
		p.OnSample(sample)
	}

	view := Render(sample, p.state, p.clock.Now(), p.rand)
	slots := view.Slots()
	for _, id := range SlotIDs {
		if err := p.display.SetText(id, slots[id]); err != nil {
			logrus.WithError(err).Errorln("poller: failed to update slot")
		}
	}

	logrus.Debugf("poller: dashboard refreshed from %s data, total requests %s", sample.Source, view.TotalRequests)
	return sample
}

// Run refreshes once right away and then on every interval until ctx is done
func (p *StatsPoller) Run(ctx context.Context) error {
	p.Tick(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			if ctx.Err() != nil {
				return nil
			}
			p.Tick(ctx)
		}
	}
}
