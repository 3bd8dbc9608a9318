// Package search keeps live-search answers in order. Each keystroke starts
// a new search for the caller's key; the previous one is cancelled and its
// result can no longer be published.
package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStale is returned when a request arrives behind one already seen.
var ErrStale = errors.New("search: stale request")

type Guard struct {
	mu      sync.Mutex
	entries map[string]*entry
	idle    time.Duration
	swept   time.Time
	now     func() time.Time
}

type entry struct {
	seq       uint64
	clientSeq uint64
	cancel    context.CancelFunc
	seen      time.Time
}

// NewGuard returns a guard that forgets keys not used for idle. Zero keeps
// them until Forget.
func NewGuard(idle time.Duration) *Guard {
	return &Guard{entries: make(map[string]*entry), idle: idle, now: time.Now}
}

// Ticket identifies one search started through Begin.
type Ticket struct {
	g   *Guard
	key string
	seq uint64
}

// Begin starts a search for key. clientSeq is the browser's own counter;
// zero means the client does not send one. A clientSeq at or below the last
// accepted one fails with ErrStale. Otherwise any in-flight search for key
// is cancelled and the returned context is the one to pass downstream.
func (g *Guard) Begin(ctx context.Context, key string, clientSeq uint64) (context.Context, Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.idle > 0 && now.Sub(g.swept) >= g.idle {
		g.expire(now.Add(-g.idle))
		g.swept = now
	}
	e := g.entries[key]
	if e == nil {
		e = &entry{}
		g.entries[key] = e
	}
	e.seen = now
	if clientSeq != 0 && clientSeq <= e.clientSeq {
		return ctx, Ticket{}, ErrStale
	}
	if e.cancel != nil {
		e.cancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	e.seq++
	if clientSeq != 0 {
		e.clientSeq = clientSeq
	}
	e.cancel = cancel
	return cctx, Ticket{g: g, key: key, seq: e.seq}, nil
}

// Current reports whether t is still the latest search for its key.
func (t Ticket) Current() bool {
	if t.g == nil {
		return false
	}
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	e := t.g.entries[t.key]
	return e != nil && e.seq == t.seq
}

// Done releases the ticket's context. The key's sequence state is kept so
// late arrivals are still recognised.
func (t Ticket) Done() {
	if t.g == nil {
		return
	}
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	if e := t.g.entries[t.key]; e != nil && e.seq == t.seq && e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Forget drops all state for key, cancelling anything in flight.
func (g *Guard) Forget(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e := g.entries[key]; e != nil {
		if e.cancel != nil {
			e.cancel()
		}
		delete(g.entries, key)
	}
}

// Expire drops keys last used before t that have nothing in flight and
// reports how many went.
func (g *Guard) Expire(t time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.expire(t)
}

func (g *Guard) expire(t time.Time) int {
	n := 0
	for k, e := range g.entries {
		if e.cancel == nil && e.seen.Before(t) {
			delete(g.entries, k)
			n++
		}
	}
	return n
}

func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
