package favorites

import (
	"context"
	"sync"
	"sync/atomic"
)

// OutOfScopeError reports an attempt to reach the favorites store where no
// scope is active. It indicates a wiring bug, not a runtime data problem.
type OutOfScopeError struct {
	// Op is the operation that was attempted.
	Op string
	// Closed is set when a scope existed but had already been closed.
	Closed bool
}

func (e *OutOfScopeError) Error() string {
	if e.Closed {
		return "favorites: " + e.Op + " called after the favorites scope was closed"
	}
	return "favorites: " + e.Op + " must be called within a favorites scope"
}

// Scope is the lifetime window in which one Store can be resolved.
type Scope struct {
	store     *Store
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

type scopeKey struct{}

// NewScope opens a scope that hands out s.
func NewScope(s *Store) *Scope {
	return &Scope{store: s}
}

// Context returns a copy of parent that carries the scope.
func (sc *Scope) Context(parent context.Context) context.Context {
	return context.WithValue(parent, scopeKey{}, sc)
}

// Active reports whether the scope is still open.
func (sc *Scope) Active() bool {
	return !sc.closed.Load()
}

// Close ends the scope and closes the store. Later calls are no-ops.
func (sc *Scope) Close() error {
	sc.closeOnce.Do(func() {
		sc.closed.Store(true)
		sc.closeErr = sc.store.Close()
	})
	return sc.closeErr
}

// Resolve returns the Store of the scope carried by ctx. It panics with
// *OutOfScopeError when ctx carries no scope or the scope has been closed.
func Resolve(ctx context.Context) *Store {
	sc, ok := scopeFrom(ctx)
	if !ok {
		panic(&OutOfScopeError{Op: "Resolve"})
	}
	if !sc.Active() {
		panic(&OutOfScopeError{Op: "Resolve", Closed: true})
	}
	return sc.store
}

// Lookup is like Resolve but reports absence instead of panicking.
func Lookup(ctx context.Context) (*Store, bool) {
	sc, ok := scopeFrom(ctx)
	if !ok || !sc.Active() {
		return nil, false
	}
	return sc.store, true
}

func scopeFrom(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}
	sc, ok := ctx.Value(scopeKey{}).(*Scope)
	return sc, ok && sc != nil
}
