package store

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// State of a Holder
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Holder is the process-wide store handle. It starts uninitialized and moves
// to ready exactly once; until then Get returns ErrNotReady.
type Holder struct {
	mux   sync.RWMutex
	state State
	store TodoStore
	err   error
	ready chan struct{}
}

// NewHolder returns an uninitialized holder
func NewHolder() *Holder {
	return &Holder{ready: make(chan struct{})}
}

// NewReadyHolder returns a holder that already carries s
func NewReadyHolder(s TodoStore) *Holder {
	h := NewHolder()
	h.Set(s)
	return h
}

// Set publishes s and marks the holder ready. Later calls are ignored.
func (h *Holder) Set(s TodoStore) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if h.state != StateUninitialized {
		log.Printf("[STORE] Warning: ignoring Set on %s holder", h.state)
		return
	}
	h.store = s
	h.state = StateReady
	close(h.ready)
}

// Fail records a connect error. Get keeps returning ErrNotReady wrapped with err.
func (h *Holder) Fail(err error) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if h.state != StateUninitialized {
		return
	}
	h.err = err
	h.state = StateFailed
	close(h.ready)
}

// Get returns the store or ErrNotReady
func (h *Holder) Get() (TodoStore, error) {
	h.mux.RLock()
	defer h.mux.RUnlock()
	switch h.state {
	case StateReady:
		return h.store, nil
	case StateFailed:
		return nil, fmt.Errorf("%w: %v", ErrNotReady, h.err)
	default:
		return nil, ErrNotReady
	}
}

// State returns the current state
func (h *Holder) State() State {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return h.state
}

// Wait blocks until the holder leaves the uninitialized state or ctx is done
func (h *Holder) Wait(ctx context.Context) (TodoStore, error) {
	select {
	case <-h.ready:
		return h.Get()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Connect opens connect in the background and publishes the result.
// The returned channel receives the connect error (or nil) once and is closed.
func (h *Holder) Connect(ctx context.Context, connect func(context.Context) (TodoStore, error)) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		s, err := connect(ctx)
		if err != nil {
			h.Fail(err)
			done <- err
			return
		}
		h.Set(s)
		done <- nil
	}()
	return done
}

// Close closes the published store, if any
func (h *Holder) Close() error {
	h.mux.RLock()
	s := h.store
	h.mux.RUnlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
