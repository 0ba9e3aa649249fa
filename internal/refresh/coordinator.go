// SPDX-License-Identifier: MPL-2.0

package refresh

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/keylens/keylens/internal/resolve"

	"github.com/charmbracelet/log"
)

const (
	// DefaultDelay is the debounce applied to text edits.
	DefaultDelay = 300 * time.Millisecond
	// ClearGrace is how long a clear waits for a new request before it
	// reaches the sink.
	ClearGrace = 150 * time.Millisecond

	// Cleared is the target used when no supported document is focused.
	Cleared = ""

	clearKey       = "clear"
	debouncePrefix = "debounce:"
)

const (
	// Idle means no pass is running for the target.
	Idle State = iota
	// Running means a pass is in flight and nothing is queued behind it.
	Running
	// RunningWithPending means a pass is in flight and one follow-up is queued.
	RunningWithPending
)

type (
	// State is a target's position in the single-flight cycle.
	State int

	// Request asks for a resolution pass over Text on behalf of Target.
	Request struct {
		Target string
		Text   string
		// Force bypasses context preservation for locale-data targets.
		Force bool
	}

	// PassFunc performs one resolution pass.
	PassFunc func(ctx context.Context, req Request) []resolve.ResolvedCall

	// Sink receives pass results. Publish replaces everything previously
	// published for target.
	Sink interface {
		Publish(target string, calls []resolve.ResolvedCall)
		Clear()
	}

	// Classifier tells locale-data documents apart from source documents.
	Classifier interface {
		IsLocaleData(target string) bool
	}

	// ClassifierFunc adapts a function to Classifier.
	ClassifierFunc func(target string) bool

	// Options configures a Coordinator. Pass and Sink are required.
	Options struct {
		Context    context.Context
		Pass       PassFunc
		Sink       Sink
		Scheduler  Scheduler
		Classifier Classifier
		Delay      time.Duration
		Logger     *log.Logger
	}

	// Coordinator serializes resolution passes per target.
	Coordinator struct {
		ctx      context.Context
		pass     PassFunc
		sink     Sink
		sched    Scheduler
		classify Classifier
		logger   *log.Logger

		mu      sync.Mutex
		delay   time.Duration
		targets map[string]*targetState
		last    *published
		closed  bool
		wg      sync.WaitGroup
	}

	targetState struct {
		running bool
		pending *Request
	}

	published struct {
		target string
		calls  []resolve.ResolvedCall
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case RunningWithPending:
		return "running-with-pending"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsLocaleData calls f.
func (f ClassifierFunc) IsLocaleData(target string) bool {
	return f(target)
}

// New creates a Coordinator. A zero Delay selects DefaultDelay; a negative
// Delay is treated as zero. A nil Scheduler uses a TimerScheduler on the
// system clock.
func New(opts Options) *Coordinator {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler(nil)
	}
	if opts.Classifier == nil {
		opts.Classifier = ClassifierFunc(func(string) bool { return false })
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}

	return &Coordinator{
		ctx:      opts.Context,
		pass:     opts.Pass,
		sink:     opts.Sink,
		sched:    opts.Scheduler,
		classify: opts.Classifier,
		logger:   opts.Logger.With("component", "refresh"),
		delay:    max(opts.Delay, 0),
		targets:  make(map[string]*targetState),
	}
}

// Request asks for a pass over req.
//
// A Cleared request arms the clear-grace timer. Any other request cancels
// that timer. A non-forced request for a locale-data target re-publishes
// the previous result instead of running a pass. Otherwise, if a pass for
// the target is already running, req replaces the pending follow-up;
// if not, a pass starts right away.
func (c *Coordinator) Request(req Request) {
	if req.Target == Cleared {
		c.sched.Arm(clearKey, ClearGrace, c.clear)
		return
	}
	c.sched.Cancel(clearKey)

	if !req.Force && c.classify.IsLocaleData(req.Target) {
		c.preserve(req.Target)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	st := c.stateFor(req.Target)
	if st.running {
		pending := req
		st.pending = &pending
		c.logger.Debug("pass queued", "target", req.Target)
		return
	}
	st.running = true
	c.wg.Add(1)
	go c.run(req)
}

// Debounce (re)arms the target's debounce timer; when it fires the request
// goes through Request.
func (c *Coordinator) Debounce(req Request) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stateFor(req.Target)
	delay := c.delay
	c.mu.Unlock()

	c.sched.Arm(debouncePrefix+req.Target, delay, func() { c.Request(req) })
}

// Immediate cancels the target's debounce timer and requests a pass now.
func (c *Coordinator) Immediate(req Request) {
	c.sched.Cancel(debouncePrefix + req.Target)
	c.Request(req)
}

// Cancel drops the target's debounce timer and queued follow-up. A pass
// already in flight still completes.
func (c *Coordinator) Cancel(target string) {
	c.sched.Cancel(debouncePrefix + target)

	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.targets[target]; ok {
		st.pending = nil
	}
}

// SetDelay changes the debounce applied to timers armed from now on.
func (c *Coordinator) SetDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = max(d, 0)
}

// Delay returns the current debounce.
func (c *Coordinator) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

// State reports where target is in the single-flight cycle.
func (c *Coordinator) State(target string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.targets[target]
	switch {
	case !ok || !st.running:
		return Idle
	case st.pending != nil:
		return RunningWithPending
	default:
		return Running
	}
}

// Wait blocks until no pass is in flight.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close stops accepting requests, cancels every timer and waits for
// in-flight passes to finish.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	targets := make([]string, 0, len(c.targets))
	for target, st := range c.targets {
		st.pending = nil
		targets = append(targets, target)
	}
	c.mu.Unlock()

	c.sched.Cancel(clearKey)
	for _, target := range targets {
		c.sched.Cancel(debouncePrefix + target)
	}
	c.wg.Wait()
}

func (c *Coordinator) stateFor(target string) *targetState {
	st, ok := c.targets[target]
	if !ok {
		st = &targetState{}
		c.targets[target] = st
	}
	return st
}

// run executes req and then every follow-up queued behind it.
func (c *Coordinator) run(req Request) {
	defer c.wg.Done()

	for {
		if calls, ok := c.execute(req); ok {
			c.publish(req.Target, calls)
		}

		c.mu.Lock()
		st := c.targets[req.Target]
		if st.pending == nil {
			st.running = false
			c.mu.Unlock()
			return
		}
		req = *st.pending
		st.pending = nil
		c.mu.Unlock()
	}
}

// execute runs one pass. A panic is logged and reported as a pass without
// a result.
func (c *Coordinator) execute(req Request) (calls []resolve.ResolvedCall, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("resolution pass failed", "target", req.Target, "err", fmt.Sprint(rec))
			calls, ok = nil, false
		}
	}()

	start := time.Now()
	calls = c.pass(c.ctx, req)
	c.logger.Debug("pass complete", "target", req.Target, "calls", len(calls), "took", time.Since(start))
	return calls, true
}

func (c *Coordinator) publish(target string, calls []resolve.ResolvedCall) {
	c.mu.Lock()
	c.last = &published{target: target, calls: calls}
	c.mu.Unlock()

	c.sink.Publish(target, calls)
}

// preserve re-announces the most recent result unchanged.
func (c *Coordinator) preserve(target string) {
	c.mu.Lock()
	last := c.last
	closed := c.closed
	c.mu.Unlock()

	if closed || last == nil {
		return
	}
	c.logger.Debug("preserving previous result", "target", target, "source", last.target)
	c.sink.Publish(last.target, last.calls)
}

func (c *Coordinator) clear() {
	c.mu.Lock()
	c.last = nil
	closed := c.closed
	c.mu.Unlock()

	if !closed {
		c.sink.Clear()
	}
}
