package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects OnChange values.
type recorder struct {
	mu     sync.Mutex
	values []float64
}

func (r *recorder) record(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) snapshot() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.values...)
}

func newStillIndicator(rec *recorder) *Indicator {
	return New(Options{Minimum: 0.08, Speed: 0, OnChange: rec.record})
}

func TestIndicator_StartAndDone(t *testing.T) {
	rec := &recorder{}
	p := newStillIndicator(rec)

	_, started := p.Status()
	assert.False(t, started)

	p.Start()
	v, started := p.Status()
	assert.True(t, started)
	assert.InDelta(t, 0.08, v, 1e-9)

	p.Start()
	assert.Equal(t, []float64{0.08}, rec.snapshot(), "starting a running indicator does nothing")

	p.Done()
	v, started = p.Status()
	assert.False(t, started)
	assert.Zero(t, v)
	assert.Equal(t, []float64{0.08, 1, 0}, rec.snapshot())
}

func TestIndicator_DoneWhenIdleIsNoop(t *testing.T) {
	rec := &recorder{}
	p := newStillIndicator(rec)

	p.Done()
	assert.Empty(t, rec.snapshot())
	assert.False(t, p.IsStarted())
}

func TestIndicator_OverlappingNavigationsShareBar(t *testing.T) {
	rec := &recorder{}
	p := newStillIndicator(rec)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Start()
		}()
	}
	wg.Wait()
	assert.Equal(t, []float64{0.08}, rec.snapshot(), "one bar for all started navigations")

	p.Done()
	assert.False(t, p.IsStarted(), "first Done finishes the shared bar")

	p.Done()
	assert.Equal(t, []float64{0.08, 1, 0}, rec.snapshot())
}

func TestIndicator_IncSteps(t *testing.T) {
	rec := &recorder{}
	p := newStillIndicator(rec)

	p.Inc() // starts at minimum
	p.Inc()
	p.Inc()
	p.Inc()

	v, _ := p.Status()
	// 0.08 -> 0.18 -> 0.28 -> 0.32
	assert.InDelta(t, 0.32, v, 1e-9)

	p.Set(0.6)
	p.Inc()
	v, _ = p.Status()
	assert.InDelta(t, 0.62, v, 1e-9)

	p.Set(0.99)
	p.Inc()
	v, _ = p.Status()
	assert.InDelta(t, 0.99, v, 1e-9)

	p.Set(0.985)
	p.Inc()
	v, _ = p.Status()
	assert.InDelta(t, 0.99, v, 1e-9)
}

func TestIndicator_IncNeverCompletes(t *testing.T) {
	p := newStillIndicator(&recorder{})
	p.Start()
	for i := 0; i < 1000; i++ {
		p.Inc()
	}
	v, started := p.Status()
	assert.True(t, started)
	assert.LessOrEqual(t, v, trickleCeiling)
}

func TestIndicator_SetClamps(t *testing.T) {
	p := newStillIndicator(&recorder{})

	p.Set(-3)
	v, started := p.Status()
	assert.True(t, started)
	assert.InDelta(t, 0.08, v, 1e-9)

	p.Set(7)
	_, started = p.Status()
	assert.False(t, started, "reaching 1 completes the indicator")
}

func TestIndicator_ClearsAfterSpeed(t *testing.T) {
	p := New(Options{Speed: 20 * time.Millisecond, OnChange: func(float64) {}})

	p.Start()
	p.Done()

	v, started := p.Status()
	assert.True(t, started)
	assert.Equal(t, 1.0, v)

	assert.Eventually(t, func() bool { return !p.IsStarted() }, time.Second, 5*time.Millisecond)
}

func TestIndicator_StartDuringCompletionRestarts(t *testing.T) {
	p := New(Options{Speed: 50 * time.Millisecond, OnChange: func(float64) {}})

	p.Start()
	p.Done()
	p.Start()

	v, started := p.Status()
	assert.True(t, started)
	assert.InDelta(t, DefaultMinimum, v, 1e-9)

	time.Sleep(100 * time.Millisecond)
	assert.True(t, p.IsStarted(), "stale completion timer must not clear a restarted indicator")
}

func TestIndicator_Trickles(t *testing.T) {
	p := New(Options{Trickle: true, TrickleSpeed: 5 * time.Millisecond, OnChange: func(float64) {}})

	p.Start()
	assert.Eventually(t, func() bool {
		v, _ := p.Status()
		return v > DefaultMinimum
	}, time.Second, 5*time.Millisecond)

	p.Done()
	assert.False(t, p.IsStarted())
}

func TestHooks_StartFiresOnceBeforeGuard(t *testing.T) {
	r, err := router.New([]domain.Route{
		{Name: "Dashboard", Path: "/"},
		{Name: "About", Path: "/about"},
	}, nil)
	require.NoError(t, err)

	var (
		events []string
		starts int
	)
	p := New(Options{OnChange: func(v float64) {
		switch v {
		case DefaultMinimum:
			starts++
			events = append(events, "start")
		case 1:
			events = append(events, "done")
		}
	}})

	r.BeforeEach(StartHook(p))
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) router.Decision {
		assert.True(t, p.IsStarted(), "indicator is running while guards resolve")
		events = append(events, "guard")
		return router.Next()
	})
	r.AfterEach(DoneHook(p))

	to, err := r.Resolve("/about")
	require.NoError(t, err)
	_, err = r.Run(context.Background(), to, router.StartLocation)
	require.NoError(t, err)

	assert.Equal(t, 1, starts)
	assert.Equal(t, []string{"start", "guard", "done"}, events)
	assert.False(t, p.IsStarted())
}

func TestHooks_DoneFiresOnFailure(t *testing.T) {
	r, err := router.New([]domain.Route{{Name: "About", Path: "/about"}}, nil)
	require.NoError(t, err)

	p := New(Options{OnChange: func(float64) {}})
	r.BeforeEach(StartHook(p))
	r.BeforeEach(func(ctx context.Context, to, from domain.Location) router.Decision {
		return router.Abort()
	})
	r.AfterEach(DoneHook(p))

	to, _ := r.Resolve("/about")
	_, err = r.Run(context.Background(), to, router.StartLocation)

	assert.True(t, router.IsNavigationFailure(err, router.FailureAborted))
	assert.False(t, p.IsStarted())
}
