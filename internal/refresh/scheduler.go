// Package refresh owns the synchronization protocol between the manager API
// and the entity store: an immediate, user-visible refresh path and a
// periodic silent one, both serialized per scope. Within one scope only one
// request is ever in flight; a trigger that lands mid-flight is queued and
// run once the current flight completes, so an action immediately followed
// by a refresh still observes the latest server state. Every run carries a
// per-scope sequence number that the store uses to drop late responses.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// FetchFunc fetches one scope and applies the result to the store tagged
// with seq. Implementations must check ctx before applying, so a fetch that
// outlives the scheduler is discarded instead of resurrecting a dead screen.
type FetchFunc func(ctx context.Context, seq uint64) error

// ErrUnknownScope indicates a refresh was requested for a scope nobody
// registered a fetcher for.
var ErrUnknownScope = errors.New("refresh: unknown scope")

// ErrClosed indicates the scheduler was torn down.
var ErrClosed = errors.New("refresh: scheduler closed")

// flight is one generation of one scope. err is written before done is
// closed, always under the scheduler mutex, so waiters may read it after
// done without further synchronization.
type flight struct {
	gen  uint64
	done chan struct{}
	err  error
}

type scopeState struct {
	gen     uint64  // generations started for this scope
	current *flight // in flight, nil when idle
	queued  *flight // at most one generation waits behind current
}

// Scheduler coordinates refreshes.
type Scheduler struct {
	logger *slog.Logger

	mu       sync.Mutex
	fetchers map[string]FetchFunc
	states   map[string]*scopeState

	root   context.Context
	cancel context.CancelFunc
}

// New constructs a Scheduler. Close tears it down.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	root, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger:   logger,
		fetchers: make(map[string]FetchFunc),
		states:   make(map[string]*scopeState),
		root:     root,
		cancel:   cancel,
	}
}

// Register binds a fetcher to a scope key. Registering the same scope again
// replaces the fetcher, which happens whenever a screen switches period.
func (s *Scheduler) Register(scope string, fn FetchFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchers[scope] = fn
}

// Registered reports whether a fetcher exists for scope.
func (s *Scheduler) Registered(scope string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fetchers[scope]
	return ok
}

// Now refreshes the given scopes immediately and returns the first error.
// This is the user-visible path: pull-to-refresh and post-mutation re-sync.
func (s *Scheduler) Now(ctx context.Context, scopes ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, scope := range scopes {
		scope := scope
		g.Go(func() error { return s.refreshScope(ctx, scope) })
	}
	return g.Wait()
}

// Silent runs the periodic background refresh until ctx is cancelled.
// Errors are logged, never surfaced; a flaky connection during polling must
// not turn into an alert storm.
func (s *Scheduler) Silent(ctx context.Context, interval time.Duration, scopes ...string) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.root.Done():
				return
			case <-ticker.C:
				for _, scope := range scopes {
					if err := s.refreshScope(ctx, scope); err != nil {
						s.logger.Warn("silent refresh",
							slog.String("scope", scope),
							slog.Any("error", err))
					}
				}
			}
		}
	}()
}

// Close cancels the silent loop and marks every in-flight completion as
// stale: fetchers observe the cancelled root context and discard results.
func (s *Scheduler) Close() {
	s.cancel()
}

// refreshScope serializes refreshes of one scope. Exactly one generation
// runs at a time and at most one more queues behind it; every trigger
// arriving mid-flight joins that queued generation instead of starting its
// own. All state moves happen under mu, including the running→queued
// handoff in run, so two flights for one scope can never overlap.
func (s *Scheduler) refreshScope(ctx context.Context, scope string) error {
	s.mu.Lock()
	fn, ok := s.fetchers[scope]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownScope, scope)
	}
	if s.root.Err() != nil {
		s.mu.Unlock()
		return ErrClosed
	}
	st := s.states[scope]
	if st == nil {
		st = &scopeState{}
		s.states[scope] = st
	}

	var f *flight
	switch {
	case st.current == nil:
		st.gen++
		f = &flight{gen: st.gen, done: make(chan struct{})}
		st.current = f
		go s.run(scope, st, f, fn)
	case st.queued != nil:
		f = st.queued
	default:
		st.gen++
		f = &flight{gen: st.gen, done: make(chan struct{})}
		st.queued = f
	}
	s.mu.Unlock()

	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes one flight, then, in the same critical section that releases
// the scope, promotes the queued generation (if any) and starts its run.
func (s *Scheduler) run(scope string, st *scopeState, f *flight, fn FetchFunc) {
	var err error
	if s.root.Err() != nil {
		err = ErrClosed
	} else if ferr := fn(s.root, f.gen); ferr != nil {
		err = fmt.Errorf("refresh %s: %w", scope, ferr)
	}

	s.mu.Lock()
	f.err = err
	st.current = st.queued
	st.queued = nil
	if next := st.current; next != nil {
		// The fetcher is re-read so a Register that happened mid-flight
		// takes effect for the deferred run.
		nfn := s.fetchers[scope]
		go s.run(scope, st, next, nfn)
	}
	close(f.done)
	s.mu.Unlock()
}
