package app

import (
	"sync"
	"time"
)

// Ticker is the tick source behind a Countdown.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) Chan() <-chan time.Time { return t.C }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Countdown is a repeating per-question tick that expires once at zero.
// Starting a new countdown cancels the previous one, so at most one is live.
type Countdown struct {
	interval  time.Duration
	newTicker func(time.Duration) Ticker

	mu        sync.Mutex
	cancel    chan struct{}
	remaining int
}

func NewCountdown(interval time.Duration) *Countdown {
	return NewCountdownWithTicker(interval, newTimeTicker)
}

// NewCountdownWithTicker is used by tests to drive ticks by hand.
func NewCountdownWithTicker(interval time.Duration, newTicker func(time.Duration) Ticker) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval, newTicker: newTicker}
}

// Start runs a countdown of ticks steps. onTick receives the remaining count after
// every step; onExpire runs exactly once after the step that reaches zero.
func (c *Countdown) Start(ticks int, onTick func(remaining int), onExpire func()) {
	if ticks < 1 {
		ticks = 1
	}

	c.mu.Lock()
	c.resetLocked()
	cancel := make(chan struct{})
	c.cancel = cancel
	c.remaining = ticks
	ticker := c.newTicker(c.interval)
	c.mu.Unlock()

	go c.run(ticker, cancel, onTick, onExpire)
}

// Reset cancels any pending tick. It is safe to call when nothing is running.
func (c *Countdown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Stop ends the countdown without firing onExpire.
func (c *Countdown) Stop() {
	c.Reset()
}

// Remaining reports the ticks left on the live countdown, 0 when idle.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether a countdown is live.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

func (c *Countdown) resetLocked() {
	if c.cancel != nil {
		close(c.cancel)
		c.cancel = nil
	}
	c.remaining = 0
}

func (c *Countdown) run(ticker Ticker, cancel chan struct{}, onTick func(int), onExpire func()) {
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.Chan():
		}

		c.mu.Lock()
		if c.cancel != cancel {
			// Reset won the race against this tick.
			c.mu.Unlock()
			return
		}
		c.remaining--
		remaining := c.remaining
		if remaining == 0 {
			c.cancel = nil
		}
		c.mu.Unlock()

		if onTick != nil {
			onTick(remaining)
		}
		if remaining == 0 {
			if onExpire != nil {
				onExpire()
			}
			return
		}
	}
}
