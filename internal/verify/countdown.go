// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import (
	"context"
	"sync"
	"time"
)

// Countdown decrements a counter once per interval on its own goroutine until
// it reaches zero, is stopped, or its context is cancelled. A nil *Countdown
// reads as finished.
type Countdown struct {
	ctx      context.Context
	interval time.Duration
	onTick   func(remaining int)

	mu        sync.Mutex
	remaining int
	stop      chan struct{}
	done      chan struct{}
}

// StartCountdown starts counting down from from. onTick, if set, runs on the
// countdown goroutine after every tick and must not call Stop or Restart.
func StartCountdown(ctx context.Context, from int, interval time.Duration, onTick func(remaining int)) *Countdown {
	c := &Countdown{ctx: ctx, interval: interval, onTick: onTick}
	c.start(from)
	return c
}

func (c *Countdown) start(from int) {
	stop := make(chan struct{})
	done := make(chan struct{})

	c.mu.Lock()
	c.remaining = max(from, 0)
	c.stop = stop
	c.done = done
	c.mu.Unlock()

	if from <= 0 {
		close(done)
		return
	}
	go c.run(stop, done)
}

func (c *Countdown) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if c.Tick() == 0 {
				return
			}
		}
	}
}

// Tick decrements the counter once, clamped at zero, and returns the new
// value.
func (c *Countdown) Tick() int {
	c.mu.Lock()
	if c.remaining > 0 {
		c.remaining--
	}
	remaining := c.remaining
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining)
	}
	return remaining
}

// Remaining returns the current value.
func (c *Countdown) Remaining() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether the countdown goroutine is still active.
func (c *Countdown) Running() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Stop halts the countdown and waits for its goroutine to exit. The counter
// keeps its current value. Stop is idempotent.
func (c *Countdown) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if done != nil {
		<-done
	}
}

// Restart stops the countdown and starts it again from from.
func (c *Countdown) Restart(from int) {
	c.Stop()
	c.start(from)
}
