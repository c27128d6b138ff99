package getnext

import (
	"sync"
	"sync/atomic"
)

// ErrGuardNotHeld is the panic value raised by AssertHeld when the guard is
// not locked.
var ErrGuardNotHeld = guardError("getnext: guard is not held")

type guardError string

func (e guardError) Error() string { return string(e) }

// Guard is a mutual exclusion lock that can assert it is held.
//
// Public entry points Lock it and defer Unlock. Internal helpers call
// AssertHeld and never lock it themselves, so a public entry point must only
// call internal helpers, never another public entry point.
//
// Go mutexes have no owner, so AssertHeld can only check that the guard is
// held by someone. Under the discipline above that someone is the caller.
type Guard struct {
	mu   sync.Mutex
	held atomic.Bool
}

// Lock acquires the guard, blocking until it is available.
func (g *Guard) Lock() {
	g.mu.Lock()
	g.held.Store(true)
}

// Unlock releases the guard.
func (g *Guard) Unlock() {
	g.held.Store(false)
	g.mu.Unlock()
}

// Held reports whether the guard is currently locked.
func (g *Guard) Held() bool {
	return g.held.Load()
}

// AssertHeld panics with ErrGuardNotHeld if the guard is not locked.
func (g *Guard) AssertHeld() {
	if !g.held.Load() {
		panic(ErrGuardNotHeld)
	}
}
