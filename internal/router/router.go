// Package router implements the navigation engine: a named route table,
// ordered before/after navigation hooks, and navigation runs that apply
// guard decisions (proceed, redirect, abort).
//
// Hooks run in registration order. A navigation runs every before guard
// until one returns something other than Next, then runs every after hook
// exactly once with the final target and the failure, if any.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/metrics"
)

// MaxRedirects bounds consecutive guard redirects within one navigation.
const MaxRedirects = 10

// StartLocation is the location every first navigation starts from.
// It matches no route, so it never compares equal to a resolved location.
var StartLocation = domain.Location{Path: "/", FullPath: "/"}

// Guard runs before a navigation is confirmed.
type Guard func(ctx context.Context, to, from domain.Location) Decision

// AfterHook runs once a navigation has finished. failure is nil when the
// navigation reached its target.
type AfterHook func(ctx context.Context, to, from domain.Location, failure error)

type decisionKind int

const (
	decisionNext decisionKind = iota
	decisionRedirect
	decisionAbort
)

// Decision is the outcome of a guard. The zero value proceeds.
type Decision struct {
	kind   decisionKind
	target string
}

// Next lets the navigation continue to the next guard.
func Next() Decision { return Decision{} }

// Redirect restarts the navigation toward the named route.
func Redirect(name string) Decision { return Decision{kind: decisionRedirect, target: name} }

// Abort stops the navigation.
func Abort() Decision { return Decision{kind: decisionAbort} }

// IsNext reports whether the decision proceeds.
func (d Decision) IsNext() bool { return d.kind == decisionNext }

// IsAbort reports whether the decision aborts.
func (d Decision) IsAbort() bool { return d.kind == decisionAbort }

// Target returns the redirect route name, or "" for other decisions.
func (d Decision) Target() string { return d.target }

// Router holds the route table and navigation hooks.
type Router struct {
	matchers []matcher
	byName   map[string]int
	logger   *slog.Logger

	mu     sync.RWMutex
	nextID int
	guards []registered[Guard]
	afters []registered[AfterHook]
}

type registered[T any] struct {
	id int
	fn T
}

// New builds a router from a route tree.
//
// Route names must be unique. Unnamed routes can be navigated to by path
// but cannot be redirect targets.
func New(routes []domain.Route, logger *slog.Logger) (*Router, error) {
	const op = "router.new"

	if logger == nil {
		logger = slog.Default()
	}

	r := &Router{
		matchers: flatten(routes, "/", nil, nil),
		byName:   make(map[string]int),
		logger:   logger,
	}
	if len(r.matchers) == 0 {
		return nil, domain.Invalid(op, "route table is empty")
	}

	for i, m := range r.matchers {
		name := m.leaf().Name
		if name == "" {
			continue
		}
		if _, dup := r.byName[name]; dup {
			return nil, domain.Conflict(op, fmt.Sprintf("duplicate route name %q", name))
		}
		r.byName[name] = i
	}

	return r, nil
}

// Resolve resolves a path, optionally with a query string, to a location.
func (r *Router) Resolve(raw string) (domain.Location, error) {
	const op = "router.resolve"

	u, err := url.Parse(raw)
	if err != nil {
		return domain.Location{}, domain.Invalid(op, fmt.Sprintf("malformed location %q", raw))
	}
	path := domain.CleanPath(u.EscapedPath())
	segments, err := unescapeSegments(splitPath(path))
	if err != nil {
		return domain.Location{}, domain.Invalid(op, fmt.Sprintf("malformed location %q", raw))
	}

	// Static routes win over parameterized ones.
	var (
		found  *matcher
		params map[string]string
	)
	for i := range r.matchers {
		m := &r.matchers[i]
		p, ok := m.match(segments)
		if !ok {
			continue
		}
		if m.static {
			found, params = m, p
			break
		}
		if found == nil {
			found, params = m, p
		}
	}
	if found == nil {
		return domain.Location{}, domain.NotFound(op, fmt.Sprintf("no route matches %q", path))
	}

	return newLocation(*found, path, u.Query(), params), nil
}

// ResolveName resolves a named route with the given parameters.
func (r *Router) ResolveName(name string, params map[string]string) (domain.Location, error) {
	const op = "router.resolve_name"

	i, ok := r.byName[name]
	if !ok {
		return domain.Location{}, domain.NotFound(op, fmt.Sprintf("no route named %q", name))
	}
	m := r.matchers[i]
	path, ok := m.build(params)
	if !ok {
		return domain.Location{}, domain.Invalid(op, fmt.Sprintf("missing parameters for route %q", name))
	}

	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return newLocation(m, path, url.Values{}, copied), nil
}

// HasRoute reports whether a route with the given name exists.
func (r *Router) HasRoute(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func newLocation(m matcher, path string, query url.Values, params map[string]string) domain.Location {
	full := path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	matched := make([]domain.RouteRecord, len(m.chain))
	copy(matched, m.chain)
	return domain.Location{
		Name:     m.leaf().Name,
		Path:     path,
		FullPath: full,
		Query:    query,
		Params:   params,
		Matched:  matched,
	}
}

// BeforeEach registers a guard. The returned function removes it.
func (r *Router) BeforeEach(g Guard) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.guards = append(r.guards, registered[Guard]{id: id, fn: g})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.guards = without(r.guards, id)
	}
}

// AfterEach registers an after hook. The returned function removes it.
func (r *Router) AfterEach(h AfterHook) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.afters = append(r.afters, registered[AfterHook]{id: id, fn: h})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.afters = without(r.afters, id)
	}
}

func without[T any](hooks []registered[T], id int) []registered[T] {
	out := make([]registered[T], 0, len(hooks))
	for _, h := range hooks {
		if h.id != id {
			out = append(out, h)
		}
	}
	return out
}

func (r *Router) snapshot() ([]Guard, []AfterHook) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guards := make([]Guard, len(r.guards))
	for i, g := range r.guards {
		guards[i] = g.fn
	}
	afters := make([]AfterHook, len(r.afters))
	for i, h := range r.afters {
		afters[i] = h.fn
	}
	return guards, afters
}

// Run navigates from one location to another and returns the location the
// navigation settled on. Redirects are followed. A non-nil error is either
// a *NavigationFailure or a domain error (unknown redirect target, redirect
// loop).
func (r *Router) Run(ctx context.Context, to, from domain.Location) (domain.Location, error) {
	return r.run(ctx, to, from, nil)
}

// run is Run with an optional commit step that executes after the guards
// pass and before the after hooks fire. A commit error becomes the failure.
func (r *Router) run(ctx context.Context, to, from domain.Location, commit func(domain.Location) error) (domain.Location, error) {
	start := time.Now()
	guards, afters := r.snapshot()

	final, err := r.resolveGuards(ctx, guards, to, from)
	if err == nil && commit != nil {
		err = commit(final)
	}

	for _, h := range afters {
		h(ctx, final, from, err)
	}

	outcome := outcomeOf(err)
	metrics.NavigationFinished(outcome, time.Since(start))
	r.logger.Debug("navigation finished",
		"from", from.FullPath,
		"to", final.FullPath,
		"route", final.Name,
		"outcome", outcome,
	)

	return final, err
}

func (r *Router) resolveGuards(ctx context.Context, guards []Guard, to, from domain.Location) (domain.Location, error) {
	const op = "router.run"

	for redirects := 0; ; redirects++ {
		if to.Same(from) {
			return to, &NavigationFailure{Type: FailureDuplicated, To: to, From: from}
		}

		decision, cancelled := runGuards(ctx, guards, to, from)
		if cancelled {
			return to, &NavigationFailure{Type: FailureCancelled, To: to, From: from}
		}

		switch {
		case decision.IsNext():
			return to, nil
		case decision.IsAbort():
			return to, &NavigationFailure{Type: FailureAborted, To: to, From: from}
		}

		if redirects >= MaxRedirects {
			return to, domain.Internal(nil, op, fmt.Sprintf("redirect loop detected navigating to %q", to.FullPath))
		}
		target, err := r.ResolveName(decision.Target(), nil)
		if err != nil {
			return to, fmt.Errorf("redirect from %q: %w", to.FullPath, err)
		}
		metrics.NavigationRedirected(target.Name)
		r.logger.Debug("navigation redirected",
			"from", to.FullPath,
			"to", target.FullPath,
			"route", target.Name,
		)
		to = target
	}
}

// runGuards runs guards in order until one does not proceed. cancelled is
// true when ctx ends before or after any guard.
func runGuards(ctx context.Context, guards []Guard, to, from domain.Location) (d Decision, cancelled bool) {
	for _, g := range guards {
		if ctx.Err() != nil {
			return Decision{}, true
		}
		if d = g(ctx, to, from); !d.IsNext() {
			return d, false
		}
	}
	return Next(), ctx.Err() != nil
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeCompleted
	}
	var f *NavigationFailure
	if !errors.As(err, &f) {
		return metrics.OutcomeError
	}
	return f.Type.String()
}
