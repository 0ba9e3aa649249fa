// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"slices"
	"sync"
	"time"
)

type (
	// FakeClock satisfies refresh.Clock with manually controlled time.
	// Time only moves when Advance is called; timers that come due are fired
	// in deadline order on the calling goroutine, after the clock's lock is
	// released, so callbacks may schedule new timers.
	FakeClock struct {
		mu      sync.Mutex
		current time.Time
		nextID  uint64
		timers  []*fakeTimer
	}

	fakeTimer struct {
		id       uint64
		deadline time.Time
		fn       func()
	}
)

// NewFakeClock creates a FakeClock set to initial, or to a fixed reference
// time when initial is zero.
func NewFakeClock(initial time.Time) *FakeClock {
	if initial.IsZero() {
		initial = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &FakeClock{current: initial}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run when the fake time reaches now+d. A
// non-positive d still waits for the next Advance.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := &fakeTimer{id: c.nextID, deadline: c.current.Add(d), fn: f}
	c.timers = append(c.timers, t)

	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, pending := range c.timers {
			if pending.id == t.id {
				c.timers = slices.Delete(c.timers, i, i+1)
				return true
			}
		}
		return false
	}
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the fake time forward by d and fires every timer that came due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	due := c.takeDue()
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// takeDue removes and returns the timers whose deadline has passed, earliest
// first. Must be called with mu held.
func (c *FakeClock) takeDue() []*fakeTimer {
	var due []*fakeTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		if c.current.Before(t.deadline) {
			remaining = append(remaining, t)
			continue
		}
		due = append(due, t)
	}
	clear(c.timers[len(remaining):])
	c.timers = remaining

	slices.SortStableFunc(due, func(a, b *fakeTimer) int {
		return a.deadline.Compare(b.deadline)
	})
	return due
}
