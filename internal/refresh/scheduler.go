// SPDX-License-Identifier: MPL-2.0

package refresh

import (
	"sync"
	"time"
)

type (
	// Clock creates cancellable one-shot timers.
	Clock interface {
		// AfterFunc runs f after d and returns a stop function reporting
		// whether it prevented the call.
		AfterFunc(d time.Duration, f func()) (stop func() bool)
	}

	// SystemClock is the wall-clock Clock.
	SystemClock struct{}

	// Scheduler arms and cancels keyed one-shot callbacks. Arming a key
	// always cancels the callback previously armed under it.
	Scheduler interface {
		Arm(key string, d time.Duration, fn func())
		Cancel(key string)
	}

	// TimerScheduler is a Scheduler backed by a Clock.
	TimerScheduler struct {
		clock Clock

		mu     sync.Mutex
		gen    uint64
		timers map[string]armedTimer
	}

	armedTimer struct {
		gen  uint64
		stop func() bool
	}
)

// AfterFunc wraps time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// NewTimerScheduler creates a TimerScheduler. A nil clock uses SystemClock.
func NewTimerScheduler(clock Clock) *TimerScheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TimerScheduler{clock: clock, timers: make(map[string]armedTimer)}
}

// Arm schedules fn to run once after d under key, replacing any callback
// already armed for key.
func (s *TimerScheduler) Arm(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(key)
	s.gen++
	gen := s.gen
	stop := s.clock.AfterFunc(d, func() {
		// A timer stopped after it already started firing must not run fn.
		s.mu.Lock()
		current, ok := s.timers[key]
		if !ok || current.gen != gen {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()

		fn()
	})
	s.timers[key] = armedTimer{gen: gen, stop: stop}
}

// Cancel stops the callback armed under key, if any.
func (s *TimerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(key)
}

// Armed reports whether a callback is pending under key.
func (s *TimerScheduler) Armed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Stop cancels every pending callback.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.timers {
		s.cancelLocked(key)
	}
}

func (s *TimerScheduler) cancelLocked(key string) {
	if t, ok := s.timers[key]; ok {
		t.stop()
		delete(s.timers, key)
	}
}
