package statsboard

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/cloudradar-monitoring/statsboard/pkg/utils"
)

const AnimationDurationProperty = "animation-duration"

// AnimationJitter changes the animation speed of one element on a fixed interval.
// It shares nothing with the poller.
type AnimationJitter struct {
	display  Display
	clock    clock.WithTicker
	rand     *rand.Rand
	interval time.Duration
	element  string
	min, max float64

	// OnTick is called with every duration written
	OnTick func(value string)
}

func NewAnimationJitter(display Display, clk clock.WithTicker, r *rand.Rand, cfg *Config) *AnimationJitter {
	return &AnimationJitter{
		display:  display,
		clock:    clk,
		rand:     r,
		interval: secToDuration(cfg.JitterInterval),
		element:  cfg.JitterElement,
		min:      cfg.JitterMin,
		max:      cfg.JitterMax,
	}
}

// Duration returns a new random animation duration, e.g. "1.07s"
func (j *AnimationJitter) Duration() string {
	return toFixed(utils.RandomFloat(j.rand, j.min, j.max), 2) + "s"
}

func (j *AnimationJitter) Tick() {
	value := j.Duration()
	if err := j.display.SetStyle(j.element, AnimationDurationProperty, value); err != nil {
		logrus.WithError(err).Errorln("jitter: failed to update animation")
		return
	}
	if j.OnTick != nil {
		j.OnTick(value)
	}
}

func (j *AnimationJitter) Run(ctx context.Context) error {
	logrus.Info("Heart animation script loaded!")

	ticker := j.clock.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			if ctx.Err() != nil {
				return nil
			}
			j.Tick()
		}
	}
}
