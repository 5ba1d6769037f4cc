package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// Target is reloaded on every refresh
type Target interface {
	Refresh(ctx context.Context) error
}

// IntervalSource returns the refresh interval in minutes; 0 disables refreshing
type IntervalSource interface {
	RefreshInterval() int
}

// Refresher periodically reloads the weather on screen. The interval is read
// from its source on every poll, so changes apply without a restart.
type Refresher struct {
	target       Target
	interval     IntervalSource
	clock        clock.Clock
	poll         time.Duration
	fetchTimeout time.Duration
}

// NewRefresher creates a refresher that checks the interval once a minute
func NewRefresher(target Target, interval IntervalSource, clk clock.Clock) *Refresher {
	if clk == nil {
		clk = clock.NewClock()
	}
	return &Refresher{
		target:       target,
		interval:     interval,
		clock:        clk,
		poll:         time.Minute,
		fetchTimeout: 30 * time.Second,
	}
}

// SetFetchTimeout changes the timeout for each refresh
func (r *Refresher) SetFetchTimeout(timeout time.Duration) {
	if timeout > 0 {
		r.fetchTimeout = timeout
	}
}

// Start begins refreshing in the background.
// The returned function can be called to stop it
func (r *Refresher) Start(ctx context.Context) func() {
	runCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Run(runCtx)
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// Run polls until ctx is done
func (r *Refresher) Run(ctx context.Context) {
	last := r.clock.Now()
	ticker := r.clock.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			now := r.clock.Now()
			minutes := r.interval.RefreshInterval()
			if minutes <= 0 {
				// count from when refreshing gets switched back on
				last = now
				continue
			}
			if now.Sub(last) < time.Duration(minutes)*time.Minute {
				continue
			}
			last = now
			r.refreshOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	if err := r.target.Refresh(refreshCtx); err != nil {
		log.Printf("Error refreshing weather: %v", err)
		return
	}
	log.Println("Weather refreshed")
}
