package datetime

import (
	"context"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// FormatSource supplies the time format preference. It is consulted on every
// tick so a changed preference shows up on the next tick.
type FormatSource interface {
	TimeFormat() TimeFormat
}

// FixedFormat is a FormatSource that never changes
type FixedFormat TimeFormat

// TimeFormat returns the fixed format
func (f FixedFormat) TimeFormat() TimeFormat {
	return TimeFormat(f)
}

// Target receives rendered clock text
type Target interface {
	SetText(string)
}

// Clock writes the current date and time into its targets once per interval
type Clock struct {
	clock    clock.Clock
	format   FormatSource
	date     Target
	time     Target
	visible  func() bool
	interval time.Duration
}

// Option configures a Clock
type Option func(*Clock)

// WithVisibility gates every tick: nothing is written while visible reports false
func WithVisibility(visible func() bool) Option {
	return func(c *Clock) {
		c.visible = visible
	}
}

// WithInterval overrides the one second tick interval
func WithInterval(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.interval = d
		}
	}
}

// NewClock creates a clock. Either target may be nil; the other is still updated.
func NewClock(clk clock.Clock, format FormatSource, date, timeTarget Target, opts ...Option) *Clock {
	if clk == nil {
		clk = clock.NewClock()
	}
	c := &Clock{
		clock:    clk,
		format:   format,
		date:     date,
		time:     timeTarget,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick renders the current instant into the targets and returns the rendering.
// When the visibility gate reports hidden the targets are left untouched.
func (c *Clock) Tick() Output {
	f := Format12h
	if c.format != nil {
		f = c.format.TimeFormat()
	}
	out := Render(c.clock.Now(), f)

	if c.visible != nil && !c.visible() {
		return out
	}
	if c.date != nil {
		c.date.SetText(out.Date)
	}
	if c.time != nil {
		c.time.SetText(out.Time)
	}
	return out
}

// Run ticks immediately and then on every interval until ctx is done.
// The underlying ticker is stopped on return.
func (c *Clock) Run(ctx context.Context) {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	c.Tick()
	for {
		select {
		case <-ticker.C():
			c.Tick()
		case <-ctx.Done():
			return
		}
	}
}

// Start runs the clock in a goroutine. The returned function stops it and
// waits for the goroutine to exit.
func (c *Clock) Start(ctx context.Context) func() {
	runCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Run(runCtx)
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
