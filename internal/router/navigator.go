package router

import (
	"context"
	"sync"

	"github.com/DukeRupert/kuidash/internal/domain"
)

// Navigator keeps a current location and runs navigations from it.
//
// Starting a navigation cancels the one in flight, which then finishes
// with a FailureCancelled. The current location changes only when a
// navigation completes.
type Navigator struct {
	router *Router

	mu      sync.Mutex
	current domain.Location
	seq     uint64
	cancel  context.CancelFunc
}

// NewNavigator creates a navigator positioned at StartLocation.
func NewNavigator(r *Router) *Navigator {
	return &Navigator{
		router:  r,
		current: StartLocation,
	}
}

// Current returns the location of the last completed navigation.
func (n *Navigator) Current() domain.Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Push navigates to a path.
func (n *Navigator) Push(ctx context.Context, path string) (domain.Location, error) {
	to, err := n.router.Resolve(path)
	if err != nil {
		return domain.Location{}, err
	}
	return n.navigate(ctx, to)
}

// PushName navigates to a named route.
func (n *Navigator) PushName(ctx context.Context, name string, params map[string]string) (domain.Location, error) {
	to, err := n.router.ResolveName(name, params)
	if err != nil {
		return domain.Location{}, err
	}
	return n.navigate(ctx, to)
}

func (n *Navigator) navigate(ctx context.Context, to domain.Location) (domain.Location, error) {
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	navCtx, cancel := context.WithCancel(ctx)
	n.seq++
	seq := n.seq
	n.cancel = cancel
	from := n.current
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		if n.seq == seq {
			n.cancel = nil
		}
		n.mu.Unlock()
		cancel()
	}()

	return n.router.run(navCtx, to, from, func(final domain.Location) error {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.seq != seq {
			return &NavigationFailure{Type: FailureCancelled, To: final, From: from}
		}
		n.current = final
		return nil
	})
}
