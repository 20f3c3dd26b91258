// Package binder ties a page to the content store: it runs the fetch, holds
// the result in a Loading, Loaded, NotFound or Failed state and drops results
// that arrive after the page stopped caring about them.
package binder

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the load state of a Resource.
type State int

const (
	Loading State = iota
	Loaded
	NotFound
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON views.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Fetch loads a value. found=false with a nil error means the record does
// not exist.
type Fetch[T any] func(ctx context.Context) (value T, found bool, err error)

// Snapshot is a point-in-time copy of a Resource.
type Snapshot[T any] struct {
	State State
	Value T
	Err   error
}

// Resource is a single asynchronously loaded value. Each Mount starts a new
// fetch under a new token; only the fetch of the current mount may settle
// the state, and nothing settles it after Unmount. Failed loads are not
// retried.
type Resource[T any] struct {
	timeout time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	token   uint64 // Current mount; 0 when unmounted
	minted  uint64
	state   State
	value   T
	err     error
	settled chan struct{} // Closed when the current mount settles or unmounts

	inflight sync.WaitGroup
}

// NewResource creates an unmounted resource whose fetches are bounded by timeout.
func NewResource[T any](timeout time.Duration) *Resource[T] {
	settled := make(chan struct{})
	close(settled)
	return &Resource[T]{
		timeout: timeout,
		log:     zap.L().Named("Binder"),
		settled: settled,
	}
}

// Mount resets the resource to Loading and starts fetch in the background.
// The fetch keeps running if ctx is cancelled, up to the resource timeout;
// its result is simply discarded if the mount is gone by then.
func (r *Resource[T]) Mount(ctx context.Context, fetch Fetch[T]) uint64 {
	r.mu.Lock()
	r.minted++
	token := r.minted
	r.token = token
	r.state = Loading
	var zero T
	r.value = zero
	r.err = nil
	r.closeSettledLocked()
	r.settled = make(chan struct{})
	r.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		defer cancel()
		value, found, err := fetch(fetchCtx)
		r.resolve(token, value, found, err)
	}()
	return token
}

func (r *Resource[T]) resolve(token uint64, value T, found bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.token {
		r.log.Debug("Discarding stale response", zap.Uint64("token", token), zap.Uint64("current", r.token))
		return
	}
	switch {
	case err != nil:
		r.state = Failed
		r.err = err
		r.log.Warn("Load failed", zap.Uint64("token", token), zap.Error(err))
	case !found:
		r.state = NotFound
	default:
		r.state = Loaded
		r.value = value
	}
	r.closeSettledLocked()
}

func (r *Resource[T]) closeSettledLocked() {
	select {
	case <-r.settled:
	default:
		close(r.settled)
	}
}

// Unmount detaches the resource. Fetches still running are ignored when they finish.
func (r *Resource[T]) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = 0
	r.closeSettledLocked()
}

// Mounted reports whether token is the current mount.
func (r *Resource[T]) Mounted(token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return token != 0 && token == r.token
}

// Snapshot returns the current state.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{State: r.state, Value: r.value, Err: r.err}
}

// Wait blocks until the current mount settles, the resource is unmounted or
// ctx is done, then returns the state at that moment.
func (r *Resource[T]) Wait(ctx context.Context) Snapshot[T] {
	r.mu.Lock()
	settled := r.settled
	r.mu.Unlock()

	select {
	case <-settled:
	case <-ctx.Done():
	}
	return r.Snapshot()
}

// Drain blocks until every fetch this resource started has returned,
// including discarded ones.
func (r *Resource[T]) Drain() {
	r.inflight.Wait()
}
