// Package progress implements a navigation progress indicator: a value
// between Minimum and 1 that starts on navigation, trickles upward while
// the navigation runs and completes when it ends.
package progress

import (
	"sync"
	"time"

	"github.com/DukeRupert/kuidash/internal/metrics"
)

// Defaults mirror the usual top-of-page loading bar.
const (
	DefaultMinimum      = 0.08
	DefaultSpeed        = 200 * time.Millisecond
	DefaultTrickleSpeed = 200 * time.Millisecond

	// trickleCeiling keeps an unfinished bar short of complete.
	trickleCeiling = 0.994
)

// Options configures an Indicator.
type Options struct {
	Minimum      float64       // Lowest value once started
	Speed        time.Duration // Delay between reaching 1 and going idle
	Trickle      bool          // Increment automatically while started
	TrickleSpeed time.Duration // Interval between automatic increments

	// OnChange is called with the new value (0 when idle) while the
	// indicator lock is held; it must not call back into the indicator.
	// Defaults to publishing the navigation_progress gauge.
	OnChange func(value float64)
}

// DefaultOptions returns the standard settings with trickling enabled.
func DefaultOptions() Options {
	return Options{
		Minimum:      DefaultMinimum,
		Speed:        DefaultSpeed,
		Trickle:      true,
		TrickleSpeed: DefaultTrickleSpeed,
	}
}

// Indicator is a progress indicator safe for concurrent use.
//
// There is one bar per Indicator, not one per navigation. Overlapping
// navigations sharing an Indicator share its bar: a second Start while it
// runs is ignored and the first Done completes it for all of them. Create
// an Indicator per navigation when each needs its own bar.
type Indicator struct {
	opts Options

	mu      sync.Mutex
	status  float64
	started bool
	gen     uint64 // bumped on every start and clear; stale timers check it
}

// New creates an idle indicator.
func New(opts Options) *Indicator {
	if opts.Minimum <= 0 || opts.Minimum >= 1 {
		opts.Minimum = DefaultMinimum
	}
	if opts.TrickleSpeed <= 0 {
		opts.TrickleSpeed = DefaultTrickleSpeed
	}
	if opts.Speed < 0 {
		opts.Speed = 0
	}
	if opts.OnChange == nil {
		opts.OnChange = metrics.ProgressChanged
	}
	return &Indicator{opts: opts}
}

// Status returns the current value and whether the indicator is started.
func (p *Indicator) Status() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.started
}

// IsStarted reports whether the indicator is showing.
func (p *Indicator) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Start shows the indicator at its minimum. Starting a running indicator
// does nothing; starting one that is completing restarts it.
func (p *Indicator) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started && p.status < 1 {
		return
	}
	p.gen++
	p.set(0)

	if p.opts.Trickle {
		go p.trickle(p.gen)
	}
}

// Set moves the indicator to n, clamped to [Minimum, 1]. Reaching 1
// completes it.
func (p *Indicator) Set(n float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(n)
}

// Inc advances the indicator by a step that shrinks as it fills up. An
// idle indicator is started instead.
func (p *Indicator) Inc() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		p.Start()
		return
	}
	defer p.mu.Unlock()
	p.inc()
}

// Done completes the indicator. Completing an idle indicator does nothing.
func (p *Indicator) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.set(1)
}

func (p *Indicator) inc() {
	if p.status >= 1 {
		return
	}
	n := p.status + step(p.status)
	if n > trickleCeiling {
		n = trickleCeiling
	}
	p.set(n)
}

func step(n float64) float64 {
	switch {
	case n < 0.2:
		return 0.1
	case n < 0.5:
		return 0.04
	case n < 0.8:
		return 0.02
	case n < 0.99:
		return 0.005
	default:
		return 0
	}
}

// set requires p.mu.
func (p *Indicator) set(n float64) {
	if n < p.opts.Minimum {
		n = p.opts.Minimum
	}
	if n > 1 {
		n = 1
	}
	p.status = n
	p.started = true
	p.opts.OnChange(n)

	if n == 1 {
		gen := p.gen
		if p.opts.Speed == 0 {
			p.clear()
			return
		}
		time.AfterFunc(p.opts.Speed, func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.gen == gen && p.status == 1 {
				p.clear()
			}
		})
	}
}

// clear requires p.mu.
func (p *Indicator) clear() {
	p.gen++
	p.status = 0
	p.started = false
	p.opts.OnChange(0)
}

func (p *Indicator) trickle(gen uint64) {
	ticker := time.NewTicker(p.opts.TrickleSpeed)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		if p.gen != gen || !p.started || p.status >= 1 {
			p.mu.Unlock()
			return
		}
		p.inc()
		p.mu.Unlock()
	}
}
